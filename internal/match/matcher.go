// Package match maps free text against the subsidy catalog. Stage A is
// purely lexical: tf-idf vectors and cosine similarity against catalog
// entries, with a hard threshold. It never produces an identifier outside
// the supplied catalog, which is the anti-hallucination guarantee; text that
// matches nothing is returned as unmatched, not forced into a match.
package match

import (
	"sort"

	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/model"
)

// Result is the Stage-A output for one scoped text
type Result struct {
	Matches   []model.SubsidyMatch
	Unmatched []model.UnmatchedFragment
	Coverage  float64 // fraction of request fragments resolved to the catalog
}

// Matcher scores text fragments against a fitted catalog. Built once per
// catalog and safe for concurrent use.
type Matcher struct {
	cat        *catalog.Catalog
	vectorizer *vectorizer
	// per entry: one vector per candidate text (name, description, each
	// example). Similarity is the max over candidates, so a fragment that is
	// character-identical to an example phrase always scores 1.0.
	entryVecs [][]vector
	minLen    int
}

// NewMatcher fits a matcher on the catalog
func NewMatcher(cat *catalog.Catalog, cfg model.MatchingConfig) *Matcher {
	var corpus []string
	candidates := make([][]string, cat.Len())
	for i, entry := range cat.Entries() {
		texts := []string{entry.Name}
		if entry.Description != "" {
			texts = append(texts, entry.Description)
		}
		texts = append(texts, entry.Examples...)
		candidates[i] = texts
		corpus = append(corpus, texts...)
	}

	v := fitVectorizer(corpus)
	entryVecs := make([][]vector, len(candidates))
	for i, texts := range candidates {
		vecs := make([]vector, len(texts))
		for j, t := range texts {
			vecs[j] = v.Transform(t)
		}
		entryVecs[i] = vecs
	}

	minLen := cfg.MinFragmentLen
	if minLen <= 0 {
		minLen = 10
	}
	return &Matcher{cat: cat, vectorizer: v, entryVecs: entryVecs, minLen: minLen}
}

// Similarity scores one fragment against one catalog entry index
func (m *Matcher) similarity(frag vector, entryIdx int) float64 {
	best := 0.0
	for _, ev := range m.entryVecs[entryIdx] {
		if s := cosine(frag, ev); s > best {
			best = s
		}
	}
	return best
}

// Match runs Stage A over scoped text with the given threshold. Identical
// input always yields identical output; there is no randomness here.
func (m *Matcher) Match(scopedText string, threshold float64) Result {
	var res Result
	if scopedText == "" {
		return res
	}

	fragments := Fragments(scopedText, m.minLen)
	if len(fragments) == 0 {
		return res
	}

	entries := m.cat.Entries()
	seen := make(map[string]bool) // (entry id, normalized evidence) pairs
	matched := 0

	for _, frag := range fragments {
		vec := m.vectorizer.Transform(frag)

		bestIdx, bestScore := -1, 0.0
		for i := range entries {
			if s := m.similarity(vec, i); s > bestScore {
				bestIdx, bestScore = i, s
			}
		}

		if bestIdx < 0 || bestScore < threshold {
			res.Unmatched = append(res.Unmatched, model.UnmatchedFragment{
				Text:      frag,
				BestScore: bestScore,
			})
			continue
		}

		matched++
		key := entries[bestIdx].ID + "\x00" + Normalize(frag)
		if seen[key] {
			continue
		}
		seen[key] = true
		res.Matches = append(res.Matches, model.SubsidyMatch{
			SubsidyID:  entries[bestIdx].ID,
			Name:       entries[bestIdx].Name,
			Evidence:   frag,
			Similarity: bestScore,
			Status:     model.StatusLexical,
			Confidence: bestScore,
		})
	}

	// highest-scoring match first; stable so equal scores keep text order
	sort.SliceStable(res.Matches, func(i, j int) bool {
		return res.Matches[i].Similarity > res.Matches[j].Similarity
	})

	res.Coverage = float64(matched) / float64(len(fragments))
	return res
}
