// Package validate implements Stage B of subsidy matching: an optional
// semantic validator that reviews lexical matches and unmatched fragments
// against a bounded catalog excerpt. The validator can confirm, reject, or
// supplement matches, but it can never introduce an identifier outside the
// catalog: non-conforming responses are discarded and Stage A stands.
package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/model"
)

// Provider is the semantic validator collaborator interface
type Provider interface {
	// Name returns the provider name
	Name() string

	// Review judges Stage-A output against the notice text
	Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// ReviewRequest is everything the validator sees for one notice
type ReviewRequest struct {
	ScopedText string
	Matches    []model.SubsidyMatch
	Unmatched  []model.UnmatchedFragment
	Catalog    []catalog.Entry // bounded excerpt, never the full catalog
}

// MatchVerdict is the validator's judgement on one submitted match
type MatchVerdict struct {
	SubsidyID         string  `json:"subsidy_id"`
	Valid             bool    `json:"valid"`
	Confidence        float64 `json:"confidence"`
	Evidence          string  `json:"evidence"`
	Rationale         string  `json:"rationale"`
	ExampleSuggestion string  `json:"example_suggestion,omitempty"`
}

// NewRequest is a subsidy request the validator found that Stage A missed
type NewRequest struct {
	Text        string `json:"text"`
	Evidence    string `json:"evidence"`
	SuggestedID string `json:"suggested_id,omitempty"` // existing catalog id, empty when novel
	Novel       bool   `json:"novel"`
	Rationale   string `json:"rationale"`
}

// ReviewResponse is the validator's full answer
type ReviewResponse struct {
	Verdicts    []MatchVerdict `json:"verdicts"`
	NewRequests []NewRequest   `json:"new_requests"`
	Complete    bool           `json:"complete"` // validator believes nothing was missed
	Confidence  float64        `json:"confidence"`
	Notes       string         `json:"notes,omitempty"`
}

// NewProvider builds a provider from configuration. An empty provider name
// disables Stage B entirely.
func NewProvider(cfg model.ValidatorConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "static":
		return &StaticProvider{}, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown validator provider: %s (supported: openai, static)", cfg.Provider)
	}
}
