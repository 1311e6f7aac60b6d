package model

// DateKind categorizes how a date was expressed in the notice
type DateKind string

const (
	DateSpecific DateKind = "specific" // 01/03/2023
	DatePeriod   DateKind = "period"   // "março de 2023", "de X até Y"
	DateRelative DateKind = "relative" // "últimos 90 dias"
)

// ExtractedDate is one date reference found in the text
type ExtractedDate struct {
	Original   string   `json:"original"`
	Normalized string   `json:"normalized"` // ISO YYYY-MM-DD, or a marker for relative dates
	Kind       DateKind `json:"kind"`
	Confidence float64  `json:"confidence"`
}

// Period is a resolved date range a subsidy request covers
type Period struct {
	Start    string `json:"start"` // ISO YYYY-MM-DD
	End      string `json:"end"`
	Original string `json:"original,omitempty"`
}
