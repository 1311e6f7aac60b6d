package model

// PartyKind distinguishes natural persons (CPF) from legal entities (CNPJ)
type PartyKind string

const (
	PartyNaturalPerson PartyKind = "natural_person"
	PartyLegalEntity   PartyKind = "legal_entity"
)

// Party is an investigated party named by the notice
type Party struct {
	Name       string    `json:"name"`
	TaxID      string    `json:"tax_id"` // digits only, CPF or CNPJ
	Kind       PartyKind `json:"kind"`
	Confidence float64   `json:"confidence"`

	Customer *CustomerRecord `json:"customer,omitempty"` // filled when the lookup succeeded
}

// RelationshipKind is the capacity in which a party holds a product
type RelationshipKind string

const (
	RelTitular       RelationshipKind = "titular"
	RelCoTitular     RelationshipKind = "co_titular"
	RelProcurador    RelationshipKind = "procurador"
	RelAutorizado    RelationshipKind = "autorizado"
	RelRepresentante RelationshipKind = "representante"
	RelAvalista      RelationshipKind = "avalista"
)

// Product is a banking product tied to a customer record
type Product struct {
	Kind       string `json:"kind"` // conta_corrente, poupanca, cartao_credito...
	Number     string `json:"number"`
	Status     string `json:"status"`
	OpenedAt   string `json:"opened_at"` // ISO date
	TenureDays int    `json:"tenure_days"`
}

// Relationship links a relationship kind to a product
type Relationship struct {
	Kind    RelationshipKind `json:"kind"`
	Product Product          `json:"product"`
	Active  bool             `json:"active"`
}

// CustomerRecord is the customer-relationship lookup response for one tax id
type CustomerRecord struct {
	TaxID         string         `json:"tax_id"`
	IsCustomer    bool           `json:"is_customer"`
	Name          string         `json:"name,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
	Products      []Product      `json:"products,omitempty"`
	CustomerSince string         `json:"customer_since,omitempty"`
	TenureDays    int            `json:"tenure_days,omitempty"`
}
