package validate

import (
	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/model"
)

// MergeResult is the combined two-stage outcome
type MergeResult struct {
	Matches    []model.SubsidyMatch
	Unmatched  []model.UnmatchedFragment
	Complete   bool
	Confidence float64
}

// Merge folds a validated review into the Stage-A output. Verdicts supersede
// lexical similarity per subsidy id; matches the review did not cover keep
// their lexical form. Rejected matches stay in the result with their evidence
// so downstream review can see what was dismissed and why.
func Merge(cat *catalog.Catalog, aMatches []model.SubsidyMatch, aUnmatched []model.UnmatchedFragment, review *ReviewResponse) MergeResult {
	verdictByID := make(map[string]MatchVerdict, len(review.Verdicts))
	for _, v := range review.Verdicts {
		verdictByID[v.SubsidyID] = v
	}

	merged := make([]model.SubsidyMatch, 0, len(aMatches)+len(review.NewRequests))
	seen := make(map[string]bool, len(aMatches))
	for _, m := range aMatches {
		seen[m.SubsidyID] = true
		v, ok := verdictByID[m.SubsidyID]
		if !ok {
			m.Status = model.StatusLexical
			m.Confidence = m.Similarity
			merged = append(merged, m)
			continue
		}
		m.Verdict = &model.ValidatorVerdict{
			Valid:             v.Valid,
			Confidence:        v.Confidence,
			Evidence:          v.Evidence,
			Rationale:         v.Rationale,
			ExampleSuggestion: v.ExampleSuggestion,
		}
		if v.Valid {
			m.Status = model.StatusConfirmed
			m.Confidence = v.Confidence
			if v.Evidence != "" {
				m.Evidence = v.Evidence
			}
		} else {
			m.Status = model.StatusRejected
			m.Confidence = v.Confidence
		}
		merged = append(merged, m)
	}

	// Fragments the validator resolved stop being unmatched.
	resolved := make(map[string]NewRequest)
	for _, nr := range review.NewRequests {
		entry, ok := ResolveSuggestion(cat, nr)
		if !ok {
			continue
		}
		resolved[nr.Text] = nr
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		merged = append(merged, model.SubsidyMatch{
			SubsidyID:  entry.ID,
			Name:       entry.Name,
			Evidence:   nr.Evidence,
			Status:     model.StatusValidatorAdded,
			Confidence: review.Confidence,
		})
	}

	// Resolved fragments keep their id for the audit trail; they also exist
	// as validator_added matches above.
	unmatched := make([]model.UnmatchedFragment, 0, len(aUnmatched))
	for _, u := range aUnmatched {
		if nr, ok := resolved[u.Text]; ok {
			u.ResolvedID = nr.SuggestedID
		}
		for _, nr := range review.NewRequests {
			if nr.Novel && nr.Text == u.Text {
				u.Novel = true
			}
		}
		unmatched = append(unmatched, u)
	}
	// Novel requests the matcher never produced a fragment for still surface.
	for _, nr := range review.NewRequests {
		if !nr.Novel {
			continue
		}
		found := false
		for _, u := range aUnmatched {
			if u.Text == nr.Text {
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, model.UnmatchedFragment{Text: nr.Text, Novel: true})
		}
	}

	return MergeResult{
		Matches:    merged,
		Unmatched:  unmatched,
		Complete:   review.Complete,
		Confidence: review.Confidence,
	}
}

// LexicalOnly marks Stage-A output as final when the validator is disabled
// or its review failed.
func LexicalOnly(matches []model.SubsidyMatch, unmatched []model.UnmatchedFragment) MergeResult {
	out := make([]model.SubsidyMatch, len(matches))
	copy(out, matches)
	for i := range out {
		out[i].Status = model.StatusLexical
		out[i].Confidence = out[i].Similarity
	}
	return MergeResult{Matches: out, Unmatched: unmatched}
}
