package model

// ContentKind categorizes what actually arrived in the input text
type ContentKind string

const (
	ContentNotice       ContentKind = "notice_complete" // full court order text
	ContentEmailChain   ContentKind = "email_chain"     // notice buried in forwarded mail
	ContentFragment     ContentKind = "fragment"        // partial text, no full notice
	ContentUndetermined ContentKind = "undetermined"
)

// NoticeKind categorizes the notice relative to prior ones on the same case
type NoticeKind string

const (
	NoticeFirst        NoticeKind = "first_notice"
	NoticeReiteration  NoticeKind = "reiteration" // prior notice unanswered, urgent
	NoticeComplement   NoticeKind = "complement"  // additional request on a prior notice
	NoticeUndetermined NoticeKind = "undetermined"
)

// InputClassification is the output of the Classify stage. It decides whether
// the run can proceed at all and seeds the base confidence.
type InputClassification struct {
	Kind            ContentKind `json:"kind"`
	HasNoticeMarker bool        `json:"has_notice_marker"` // PODER JUDICIÁRIO, OFÍCIO, VARA...
	HasOCRMarker    bool        `json:"has_ocr_marker"`    // <<OCR>> delimiters
	HasDocketNumber bool        `json:"has_docket_number"`
	HasPartyIDs     bool        `json:"has_party_ids"` // CPF/CNPJ present
	NoticeKind      NoticeKind  `json:"notice_kind"`
	Confidence      float64     `json:"confidence"`
	Fragments       []string    `json:"fragments,omitempty"` // categorized pieces found
}

// LookupHints carries the minimal identifiers extracted when no notice body
// exists, so a back-office system can be queried for the full order.
type LookupHints struct {
	DocketNumbers []string `json:"docket_numbers,omitempty"`
	CPFs          []string `json:"cpfs,omitempty"`
	CNPJs         []string `json:"cnpjs,omitempty"`
	Names         []string `json:"names,omitempty"`
	CanQuery      bool     `json:"can_query"`
}
