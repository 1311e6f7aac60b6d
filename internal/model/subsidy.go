package model

// MatchStatus is the resolved state of a subsidy match after both stages
type MatchStatus string

const (
	StatusLexical        MatchStatus = "lexical"         // Stage A only, validator not consulted
	StatusConfirmed      MatchStatus = "confirmed"       // validator agreed
	StatusRejected       MatchStatus = "rejected"        // validator rejected, evidence kept for audit
	StatusValidatorAdded MatchStatus = "validator_added" // found by the validator, resolved to a catalog id
)

// ValidatorVerdict is the semantic validator's judgement on one match
type ValidatorVerdict struct {
	Valid             bool    `json:"valid"`
	Confidence        float64 `json:"confidence"`
	Evidence          string  `json:"evidence"` // verbatim phrase from the notice
	Rationale         string  `json:"rationale"`
	ExampleSuggestion string  `json:"example_suggestion,omitempty"` // candidate catalog example
}

// SubsidyMatch associates a catalog entry with the text that requested it.
// SubsidyID is always a member of the supplied catalog; the matcher never
// produces identifiers outside it.
type SubsidyMatch struct {
	SubsidyID  string  `json:"subsidy_id"`
	Name       string  `json:"name"`
	Evidence   string  `json:"evidence"` // verbatim substring of the document
	Similarity float64 `json:"similarity"`

	Period         *Period `json:"period,omitempty"`
	CircularLetter string  `json:"circular_letter,omitempty"`
	RequiresDePara bool    `json:"requires_de_para,omitempty"` // origin/destination identification requested
	Available      *bool   `json:"available,omitempty"`        // present when the availability store was consulted

	Verdict    *ValidatorVerdict `json:"verdict,omitempty"`
	Status     MatchStatus       `json:"status"`
	Confidence float64           `json:"confidence"`
}

// UnmatchedFragment is a request fragment that scored below threshold against
// every catalog entry. Never forced into a match; carried for review.
type UnmatchedFragment struct {
	Text       string  `json:"text"`
	BestScore  float64 `json:"best_score"`
	ResolvedID string  `json:"resolved_id,omitempty"` // catalog id the validator mapped it to
	Novel      bool    `json:"novel,omitempty"`       // validator says it is a genuinely new subsidy
}

// CircularLetter is a reference to a regulator circular letter governing how
// specific subsidies must be delivered.
type CircularLetter struct {
	Number       string   `json:"number"`
	Year         string   `json:"year,omitempty"`
	Original     string   `json:"original"`
	SubsidyNames []string `json:"subsidy_names,omitempty"`
	AppliesToAll bool     `json:"applies_to_all"`
	Confidence   float64  `json:"confidence"`
}

// DeParaRequirement records a request for counterpart identification
// (origin/destination accounts, beneficiaries, sender fiscal ids).
type DeParaRequirement struct {
	Required   bool     `json:"required"`
	SubsidyIDs []string `json:"subsidy_ids,omitempty"`
	Evidence   []string `json:"evidence,omitempty"`
	Kinds      []string `json:"kinds,omitempty"`
	Confidence float64  `json:"confidence"`
}
