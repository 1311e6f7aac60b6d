package catalog

import (
	"strings"
	"testing"
)

const sampleCSV = `id,name,description,examples
1,Extrato bancário,Extratos de contas correntes,extratos bancários;movimentação de conta corrente
2,Saldo de aplicações,Saldos de investimentos,saldos atuais das aplicações
3,Cadastro do cliente,,
`

func TestParse(t *testing.T) {
	cat, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 3 {
		t.Fatalf("Len = %d, want 3", cat.Len())
	}

	e, ok := cat.ByID("1")
	if !ok {
		t.Fatal("entry 1 missing")
	}
	if len(e.Examples) != 2 {
		t.Errorf("examples = %v, want the ';' list split", e.Examples)
	}

	if e, _ := cat.ByID("3"); len(e.Examples) != 0 {
		t.Errorf("empty examples cell produced %v", e.Examples)
	}
	if cat.Contains("99") {
		t.Error("Contains reports an absent id")
	}
}

func TestParseRejectsDuplicateID(t *testing.T) {
	csv := "id,name,description,examples\n1,A,,\n1,B,,\n"
	if _, err := Parse(strings.NewReader(csv)); err == nil {
		t.Fatal("duplicate id accepted")
	}
}

func TestParseRejectsMissingColumn(t *testing.T) {
	csv := "id,name\n1,A\n"
	if _, err := Parse(strings.NewReader(csv)); err == nil {
		t.Fatal("catalog without examples column accepted")
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := Parse(strings.NewReader("id,name,description,examples\n")); err == nil {
		t.Fatal("empty catalog accepted")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("empty entry list accepted")
	}
	if _, err := New([]Entry{{ID: ""}}); err == nil {
		t.Fatal("empty id accepted")
	}
	if _, err := New([]Entry{{ID: "1"}, {ID: "1"}}); err == nil {
		t.Fatal("duplicate id accepted")
	}
}

func TestExcerptBounds(t *testing.T) {
	cat, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if got := len(cat.Excerpt(2)); got != 2 {
		t.Errorf("Excerpt(2) = %d entries", got)
	}
	if got := len(cat.Excerpt(0)); got != 3 {
		t.Errorf("Excerpt(0) = %d entries, want all", got)
	}
	if got := len(cat.Excerpt(10)); got != 3 {
		t.Errorf("Excerpt(10) = %d entries, want all", got)
	}
}
