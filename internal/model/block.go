package model

// InstitutionTarget classifies who an addressee block is directed at
type InstitutionTarget string

const (
	TargetFinancialInstitution InstitutionTarget = "financial_institution"
	TargetCentralBank          InstitutionTarget = "central_bank" // regulator, not an account holder
	TargetTaxAuthority         InstitutionTarget = "tax_authority"
	TargetTelecomOperator      InstitutionTarget = "telecom_operator"
	TargetLawEnforcement       InstitutionTarget = "law_enforcement"
	TargetUnspecified          InstitutionTarget = "unspecified"
)

// SecrecyType classifies which legal secrecy regime a block invokes
type SecrecyType string

const (
	SecrecyBanking SecrecyType = "bancario"
	SecrecyFiscal  SecrecyType = "fiscal"
	SecrecyPhone   SecrecyType = "telefonico"
	SecrecyMixed   SecrecyType = "misto"
	SecrecyUnknown SecrecyType = "unknown"
)

// AddresseeBlock is a contiguous span of the document directed at one
// recipient. Blocks partition the document: spans never overlap and their
// union covers the whole text. Read-only after the filter produces them.
type AddresseeBlock struct {
	Text        string            `json:"text"`
	Start       int               `json:"start"` // byte offset in the document
	End         int               `json:"end"`
	Addressee   string            `json:"addressee,omitempty"` // raw addressee as written, empty on the implicit block
	Target      InstitutionTarget `json:"target"`
	Secrecy     SecrecyType       `json:"secrecy"`
	InScope     bool              `json:"in_scope"`
	NeedsReview bool              `json:"needs_review,omitempty"` // ambiguous, flagged for validator review
	Confidence  float64           `json:"confidence"`
}
