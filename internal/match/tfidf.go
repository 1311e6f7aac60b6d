package match

import "math"

// vector is a sparse tf-idf vector over the fitted vocabulary
type vector map[string]float64

// vectorizer computes tf-idf weights from a fitted corpus. Fitted once per
// catalog load and read-only afterwards, so concurrent Transform calls need
// no synchronization.
type vectorizer struct {
	idf  map[string]float64
	docs int
}

// fitVectorizer learns document frequencies from the corpus
func fitVectorizer(corpus []string) *vectorizer {
	df := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, term := range tokenize(doc) {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	v := &vectorizer{idf: make(map[string]float64, len(df)), docs: len(corpus)}
	for term, count := range df {
		// smoothed idf, never zero so every known term contributes
		v.idf[term] = math.Log(float64(1+v.docs)/float64(1+count)) + 1
	}
	return v
}

// Transform builds the tf-idf vector for one text. Terms outside the fitted
// vocabulary are dropped; they cannot help a catalog comparison.
func (v *vectorizer) Transform(text string) vector {
	tf := make(map[string]int)
	for _, term := range tokenize(text) {
		if _, known := v.idf[term]; known {
			tf[term]++
		}
	}

	vec := make(vector, len(tf))
	for term, count := range tf {
		vec[term] = float64(count) * v.idf[term]
	}
	return vec
}

// cosine returns the cosine similarity between two sparse vectors in [0,1]
func cosine(a, b vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
