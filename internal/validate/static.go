package validate

import (
	"context"
	"strings"
)

// StaticProvider confirms every match whose evidence actually appears in the
// scoped text and rejects the rest. No network, no model; useful offline and
// as a test double with predictable verdicts.
type StaticProvider struct {
	Responses []*ReviewResponse // when set, returned in order instead of the heuristic
	Err       error

	calls int
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) IsAvailable(ctx context.Context) bool { return p.Err == nil }

func (p *StaticProvider) Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.calls < len(p.Responses) {
		resp := p.Responses[p.calls]
		p.calls++
		if err := ValidateResponse(resp, req); err != nil {
			return nil, err
		}
		return resp, nil
	}

	resp := &ReviewResponse{Complete: true, Confidence: 0.8}
	for _, m := range req.Matches {
		valid := m.Evidence != "" && strings.Contains(req.ScopedText, m.Evidence)
		conf := 0.9
		if !valid {
			conf = 0.2
		}
		resp.Verdicts = append(resp.Verdicts, MatchVerdict{
			SubsidyID:  m.SubsidyID,
			Valid:      valid,
			Confidence: conf,
			Evidence:   m.Evidence,
			Rationale:  "evidence presence check",
		})
	}
	return resp, nil
}
