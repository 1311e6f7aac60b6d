package model

import "time"

// RoutingDecision is the final disposition of a processed notice
type RoutingDecision string

const (
	RouteAutomatic      RoutingDecision = "automatic"
	RouteHumanReview    RoutingDecision = "human_review"
	RouteManualAnalysis RoutingDecision = "manual_analysis"
)

// PipelineResult is the terminal aggregate of one run. All entities inside it
// are created during the run and discarded with it; nothing persists.
type PipelineResult struct {
	SessionID   string    `json:"session_id"`
	ProcessedAt time.Time `json:"processed_at"`

	Classification InputClassification `json:"classification"`
	NoticeKind     NoticeKind          `json:"notice_kind"`
	ShouldProcess  bool                `json:"should_process"`

	Blocks  []AddresseeBlock `json:"blocks,omitempty"`
	InScope bool             `json:"in_scope"`
	Secrecy SecrecyType      `json:"secrecy,omitempty"`

	Parties   []Party             `json:"parties,omitempty"`
	Matches   []SubsidyMatch      `json:"matches,omitempty"`
	Unmatched []UnmatchedFragment `json:"unmatched,omitempty"`
	Periods   []Period            `json:"periods,omitempty"`

	CircularLetters []CircularLetter   `json:"circular_letters,omitempty"`
	DePara          *DeParaRequirement `json:"de_para,omitempty"`

	NeedsLookup bool         `json:"needs_lookup"`
	LookupHints *LookupHints `json:"lookup_hints,omitempty"`

	Confidence ConfidenceScore `json:"confidence"`
	Routing    RoutingDecision `json:"routing"`
	Urgent     bool            `json:"urgent"` // reiterations are urgent regardless of score
	Alerts     []string        `json:"alerts,omitempty"`
}
