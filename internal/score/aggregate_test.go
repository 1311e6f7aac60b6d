package score

import (
	"testing"

	"github.com/lgmartins/triagem/internal/model"
)

func newTestAggregator() *Aggregator {
	cfg := model.DefaultConfig()
	return NewAggregator(cfg.Confidence, cfg.Routing)
}

func fullOutcomes() *StageOutcomes {
	return &StageOutcomes{
		Classification:    model.InputClassification{Confidence: 1.0, Kind: model.ContentNotice, NoticeKind: model.NoticeFirst},
		FilterConfidence:  0.95,
		PartiesFound:      1,
		CustomersVerified: 1,
		Customers:         1,
		Matched:           3,
	}
}

func TestAggregateCleanRun(t *testing.T) {
	a := newTestAggregator()
	out := fullOutcomes()

	score := a.Aggregate(out)
	// 1.0 * 0.95 + 0.10 = 1.0 (clamped)
	if score.Value != 1.0 {
		t.Errorf("score = %v, want clamped 1.0", score.Value)
	}
	if len(out.Alerts) != 0 {
		t.Errorf("clean run produced alerts: %v", out.Alerts)
	}
	if a.Route(score, out) != model.RouteAutomatic {
		t.Errorf("routing = %s, want automatic", a.Route(score, out))
	}
}

func TestAggregateNonCustomerPenaltyOnce(t *testing.T) {
	a := newTestAggregator()
	out := fullOutcomes()
	out.CustomersVerified = 3
	out.Customers = 0

	score := a.Aggregate(out)
	// 1.0 * 0.95 - 0.40 = 0.55, regardless of how many non-customers
	if score.Value < 0.549 || score.Value > 0.551 {
		t.Errorf("score = %v, want 0.55 (penalty applied once)", score.Value)
	}

	found := false
	for _, alert := range out.Alerts {
		if alert == "CRITICAL: disclosure ordered for non-customers only" {
			found = true
		}
	}
	if !found {
		t.Errorf("critical non-customer alert missing: %v", out.Alerts)
	}
	if a.Route(score, out) != model.RouteHumanReview {
		t.Errorf("routing = %s, want human_review at 0.55", a.Route(score, out))
	}
}

func TestAggregateUnverifiedPartiesNoPenalty(t *testing.T) {
	a := newTestAggregator()
	out := fullOutcomes()
	out.CustomersVerified = 0
	out.Customers = 0

	score := a.Aggregate(out)
	// Lookup never answered; absence of an answer is not a non-customer verdict
	if score.Value < 0.949 {
		t.Errorf("score = %v, unverified parties must not be penalized as non-customers", score.Value)
	}
}

func TestAggregateUnmatchedFraction(t *testing.T) {
	a := newTestAggregator()
	out := fullOutcomes()
	out.Customers = 0
	out.CustomersVerified = 0
	out.Matched = 2
	out.Unmatched = 2

	score := a.Aggregate(out)
	// 1.0 * 0.95 - 0.25*0.5 = 0.825
	if score.Value < 0.824 || score.Value > 0.826 {
		t.Errorf("score = %v, want 0.825", score.Value)
	}
}

func TestAggregateNoPartiesAndNoMatches(t *testing.T) {
	a := newTestAggregator()
	out := &StageOutcomes{
		Classification:   model.InputClassification{Confidence: 1.0},
		FilterConfidence: 1.0,
	}

	score := a.Aggregate(out)
	// two 0.5 scales
	if score.Value != 0.25 {
		t.Errorf("score = %v, want 0.25", score.Value)
	}
	if len(out.Alerts) != 2 {
		t.Errorf("expected 2 critical alerts, got %v", out.Alerts)
	}
	if a.Route(score, out) != model.RouteManualAnalysis {
		t.Errorf("routing = %s, want manual_analysis", a.Route(score, out))
	}
}

func TestAggregateComplementFactor(t *testing.T) {
	a := newTestAggregator()
	out := fullOutcomes()
	out.Customers = 0
	out.CustomersVerified = 0
	out.Classification.NoticeKind = model.NoticeComplement

	score := a.Aggregate(out)
	// 1.0 * 0.95 * 0.90 = 0.855, still automatic
	if score.Value < 0.854 || score.Value > 0.856 {
		t.Errorf("score = %v, want 0.855", score.Value)
	}
	if a.Route(score, out) != model.RouteAutomatic {
		t.Error("complement above threshold should still route automatically")
	}
}

func TestAggregateScoreAlwaysBounded(t *testing.T) {
	a := newTestAggregator()
	out := &StageOutcomes{
		Classification:    model.InputClassification{Confidence: 0.25},
		FilterConfidence:  0.70,
		CustomersVerified: 5,
		Unmatched:         10,
	}

	score := a.Aggregate(out)
	if score.Value < 0 || score.Value > 1 {
		t.Errorf("score out of bounds: %v", score.Value)
	}
	for _, d := range score.Deltas {
		if d.Stage == "" {
			t.Error("every delta must be attributed to a stage")
		}
	}
}

func TestRouteNeedsReviewCapsAutomatic(t *testing.T) {
	a := newTestAggregator()
	out := fullOutcomes()
	out.FilterNeedsReview = true

	score := a.Aggregate(out)
	if got := a.Route(score, out); got != model.RouteHumanReview {
		t.Errorf("routing = %s, ambiguous filter result must not route automatically", got)
	}
}
