// Package score turns stage outcomes into the final confidence and routing
// decision. Every adjustment is recorded as a named delta so a reviewer can
// reconstruct how a score came to be.
package score

import (
	"fmt"

	"github.com/lgmartins/triagem/internal/model"
)

// Aggregator accumulates per-stage confidence adjustments
type Aggregator struct {
	confidence model.ConfidenceConfig
	routing    model.RoutingConfig
}

// NewAggregator creates an aggregator with the given tunables
func NewAggregator(confidence model.ConfidenceConfig, routing model.RoutingConfig) *Aggregator {
	return &Aggregator{confidence: confidence, routing: routing}
}

// StageOutcomes is everything the aggregator consumes. Alerts generated
// during aggregation are appended to Alerts.
type StageOutcomes struct {
	Classification    model.InputClassification
	FilterConfidence  float64
	FilterNeedsReview bool

	PartiesFound      int
	CustomersVerified int // parties with a lookup answer
	Customers         int // parties confirmed as customers

	Matched   int
	Unmatched int

	Alerts []string
}

// Aggregate folds the stage outcomes into a single clamped score.
// The filter confidence scales the classification base multiplicatively;
// everything after it is additive. Order matters and is fixed.
func (a *Aggregator) Aggregate(out *StageOutcomes) model.ConfidenceScore {
	score := model.NewConfidenceScore(out.Classification.Confidence)

	score.Scale("institution_filter", out.FilterConfidence, "filter confidence scales the base")

	if out.PartiesFound == 0 {
		score.Scale("parties", 0.5, "no investigated party identified")
		out.Alerts = append(out.Alerts, "CRITICAL: no investigated party identified")
	}

	switch {
	case out.Customers > 0:
		bonus := a.confidence.CustomerBonus * float64(out.Customers)
		score.Apply("customer_lookup", bonus,
			fmt.Sprintf("%d verified customer(s)", out.Customers))
	case out.CustomersVerified > 0:
		// Every verified party came back a non-customer. One steep penalty,
		// not one per party.
		score.Apply("customer_lookup", -a.confidence.NonCustomerPenalty, "no party is a customer")
		out.Alerts = append(out.Alerts, "CRITICAL: disclosure ordered for non-customers only")
	}

	total := out.Matched + out.Unmatched
	if total == 0 {
		score.Scale("subsidies", 0.5, "no subsidy request identified")
		out.Alerts = append(out.Alerts, "CRITICAL: no subsidy request identified")
	} else if out.Unmatched > 0 {
		fraction := float64(out.Unmatched) / float64(total)
		score.Apply("match_completeness", -a.confidence.UnmatchedWeight*fraction,
			fmt.Sprintf("%d of %d requests unmatched", out.Unmatched, total))
	}

	if out.Classification.NoticeKind == model.NoticeComplement {
		score.Scale("complement", a.confidence.ComplementFactor, "complement to a prior notice")
	}

	return score
}

// Route maps a final score onto a routing decision. A filter that asked for
// review caps the decision at human review regardless of score.
func (a *Aggregator) Route(score model.ConfidenceScore, out *StageOutcomes) model.RoutingDecision {
	decision := model.RouteManualAnalysis
	switch {
	case score.Value >= a.routing.AutoThreshold:
		decision = model.RouteAutomatic
	case score.Value >= a.routing.ReviewThreshold:
		decision = model.RouteHumanReview
	}

	if out.FilterNeedsReview && decision == model.RouteAutomatic {
		decision = model.RouteHumanReview
	}
	return decision
}
