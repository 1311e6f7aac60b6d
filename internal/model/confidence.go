package model

// ConfidenceDelta is one named, signed adjustment applied by a pipeline stage
type ConfidenceDelta struct {
	Stage string  `json:"stage"`
	Delta float64 `json:"delta"` // signed; for scales, the effective change
	Note  string  `json:"note,omitempty"`
}

// ConfidenceScore accumulates a scalar in [0,1] from a base value plus one
// delta per stage. The value is clamped after every adjustment, so the
// running score is always within bounds regardless of how steep a penalty is.
type ConfidenceScore struct {
	Value  float64           `json:"value"`
	Base   float64           `json:"base"`
	Deltas []ConfidenceDelta `json:"deltas,omitempty"`
}

// NewConfidenceScore starts a score at the given base, clamped to [0,1]
func NewConfidenceScore(base float64) ConfidenceScore {
	b := clamp01(base)
	return ConfidenceScore{Value: b, Base: b}
}

// Apply adds a signed delta for a stage and clamps the running value
func (c *ConfidenceScore) Apply(stage string, delta float64, note string) {
	before := c.Value
	c.Value = clamp01(c.Value + delta)
	c.Deltas = append(c.Deltas, ConfidenceDelta{Stage: stage, Delta: c.Value - before, Note: note})
}

// Scale multiplies the running value by a non-negative factor and clamps.
// Recorded as a delta so the adjustment stays auditable.
func (c *ConfidenceScore) Scale(stage string, factor float64, note string) {
	if factor < 0 {
		factor = 0
	}
	before := c.Value
	c.Value = clamp01(c.Value * factor)
	c.Deltas = append(c.Deltas, ConfidenceDelta{Stage: stage, Delta: c.Value - before, Note: note})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
