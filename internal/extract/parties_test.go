package extract

import (
	"testing"

	"github.com/lgmartins/triagem/internal/model"
)

func TestPartiesStructuredBlock(t *testing.T) {
	text := `INVESTIGADOS:
1. JOAO CARLOS DA SILVA, CPF 123.456.789-00
2. COMERCIO DE ALIMENTOS LTDA, CNPJ 12.345.678/0001-90

DETERMINO a quebra de sigilo bancário.`

	got := Parties(text)
	if len(got.Parties) != 2 {
		t.Fatalf("expected 2 parties, got %d: %+v", len(got.Parties), got.Parties)
	}

	byID := map[string]model.Party{}
	for _, p := range got.Parties {
		byID[p.TaxID] = p
	}

	p := byID["12345678900"]
	if p.Kind != model.PartyNaturalPerson {
		t.Errorf("CPF party kind = %s", p.Kind)
	}
	if p.Name == "" {
		t.Error("structured party should carry its name")
	}

	q := byID["12345678000190"]
	if q.Kind != model.PartyLegalEntity {
		t.Errorf("CNPJ party kind = %s", q.Kind)
	}
	if got.HasMore {
		t.Error("no open-ended language, HasMore should be false")
	}
}

func TestPartiesDedupeByTaxID(t *testing.T) {
	text := `Investigado: JOAO CARLOS, CPF 123.456.789-00.
Reitero a ordem quanto a JOAO CARLOS, CPF 123.456.789-00.`

	got := Parties(text)
	if len(got.Parties) != 1 {
		t.Fatalf("expected 1 party after dedupe, got %d", len(got.Parties))
	}
}

func TestPartiesBareDocument(t *testing.T) {
	text := `quebra de sigilo do CPF 987.654.321-00, entre outros`

	got := Parties(text)
	if len(got.Parties) != 1 {
		t.Fatalf("expected 1 party, got %d", len(got.Parties))
	}
	p := got.Parties[0]
	if p.Name != "" {
		t.Errorf("bare document has no name, got %q", p.Name)
	}
	if p.Confidence >= 0.9 {
		t.Errorf("bare document confidence = %v, should be lower than named", p.Confidence)
	}
	if !got.HasMore {
		t.Error("\"entre outros\" should set HasMore")
	}
}

func TestPartiesCNPJNotMistakenForCPF(t *testing.T) {
	text := `EMPRESA X LTDA, CNPJ 12345678000190`

	got := Parties(text)
	for _, p := range got.Parties {
		if p.Kind == model.PartyNaturalPerson && p.TaxID == "12345678000" {
			t.Error("leading digits of a CNPJ extracted as a CPF")
		}
	}
}
