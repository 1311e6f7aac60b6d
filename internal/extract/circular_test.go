package extract

import (
	"reflect"
	"sort"
	"testing"

	"github.com/lgmartins/triagem/internal/model"
)

func TestCircularLettersBasic(t *testing.T) {
	text := `Os extratos deverão ser encaminhados conforme a Carta Circular nº 3454/2010.`

	got := CircularLetters(text, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 letter, got %d", len(got))
	}
	if got[0].Number != "3454" || got[0].Year != "2010" {
		t.Errorf("letter = %+v", got[0])
	}
}

func TestCircularLettersTwoDigitYear(t *testing.T) {
	got := CircularLetters("nos termos da CC 3454/10", nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 letter, got %d", len(got))
	}
	if got[0].Year != "2010" {
		t.Errorf("year = %s, want 2010", got[0].Year)
	}
}

func TestCircularLettersDedupeAcrossPatterns(t *testing.T) {
	text := `conforme Carta Circular 3454/2010, reiterando a CC 3454/2010`

	got := CircularLetters(text, nil)
	if len(got) != 1 {
		t.Errorf("same letter counted twice: %+v", got)
	}
}

func TestCircularLettersAppliesToAll(t *testing.T) {
	text := `Todos os documentos acima deverão observar a Carta Circular 3454/2010.`
	names := []string{"Extratos bancários", "Contratos de câmbio"}

	got := CircularLetters(text, names)
	if len(got) != 1 {
		t.Fatalf("expected 1 letter, got %d", len(got))
	}
	if !got[0].AppliesToAll || len(got[0].SubsidyNames) != 2 {
		t.Errorf("letter = %+v, want applies-to-all", got[0])
	}
}

func TestCircularLettersBindsNearbySubsidy(t *testing.T) {
	text := `Os Extratos bancários seguem a Carta Circular 3454/2010. Outros documentos em formato livre.`
	names := []string{"Extratos bancários", "Contratos de câmbio"}

	got := CircularLetters(text, names)
	if len(got) != 1 {
		t.Fatalf("expected 1 letter, got %d", len(got))
	}
	l := got[0]
	if l.AppliesToAll {
		t.Errorf("letter bound to all, want only the nearby subsidy: %+v", l)
	}
	if len(l.SubsidyNames) != 1 || l.SubsidyNames[0] != "Extratos bancários" {
		t.Errorf("subsidy names = %v", l.SubsidyNames)
	}
}

func TestDeParaDetection(t *testing.T) {
	text := `Encaminhe as transferências para terceiros com identificação do remetente e do destinatário, incluindo CPF do beneficiário.`
	matches := []model.SubsidyMatch{
		{SubsidyID: "7", Name: "Transferências TED/DOC", Evidence: "transferências para terceiros"},
		{SubsidyID: "1", Name: "Cadastro", Evidence: "dados cadastrais"},
	}

	got := DePara(text, matches)
	if !got.Required {
		t.Fatal("counterpart language present, Required should be true")
	}
	if len(got.Evidence) == 0 {
		t.Error("evidence phrases missing")
	}
	if len(got.SubsidyIDs) != 1 || got.SubsidyIDs[0] != "7" {
		t.Errorf("subsidy ids = %v, want only the transactional one", got.SubsidyIDs)
	}
	if got.Confidence <= 0 || got.Confidence > 1 {
		t.Errorf("confidence = %v", got.Confidence)
	}
}

func TestDeParaKindsSortedAndStable(t *testing.T) {
	text := `Identificação do remetente, CPF do beneficiário e conta de destino das transferências.`

	first := DePara(text, nil)
	if !sort.StringsAreSorted(first.Kinds) {
		t.Errorf("kinds not sorted: %v", first.Kinds)
	}
	for i := 0; i < 20; i++ {
		again := DePara(text, nil)
		if !reflect.DeepEqual(again.Kinds, first.Kinds) {
			t.Fatalf("kinds vary between runs: %v vs %v", again.Kinds, first.Kinds)
		}
	}
}

func TestDeParaAbsent(t *testing.T) {
	got := DePara("encaminhe os dados cadastrais do investigado", nil)
	if got.Required {
		t.Errorf("no counterpart language, got %+v", got)
	}
}

func TestDeParaFallsBackToAllSubsidies(t *testing.T) {
	text := `informar origem e destino dos recursos`
	matches := []model.SubsidyMatch{
		{SubsidyID: "1", Name: "Cadastro"},
		{SubsidyID: "2", Name: "Contratos"},
	}

	got := DePara(text, matches)
	if !got.Required {
		t.Fatal("expected Required")
	}
	if len(got.SubsidyIDs) != 2 {
		t.Errorf("no transactional subsidy named, requirement should bind to all: %v", got.SubsidyIDs)
	}
}
