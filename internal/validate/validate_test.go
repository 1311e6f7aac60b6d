package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/lgmartins/triagem/internal/catalog"
	"github.com/lgmartins/triagem/internal/model"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Entry{
		{ID: "1", Name: "Extratos bancários", Description: "extratos de conta corrente e poupança"},
		{ID: "2", Name: "Contratos de câmbio", Description: "operações de câmbio"},
		{ID: "3", Name: "Cadastro", Description: "dados cadastrais do cliente"},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestValidateResponseRejectsUnsubmittedVerdict(t *testing.T) {
	cat := testCatalog(t)
	req := ReviewRequest{
		Matches: []model.SubsidyMatch{{SubsidyID: "1"}},
		Catalog: cat.Entries(),
	}
	resp := &ReviewResponse{
		Verdicts:   []MatchVerdict{{SubsidyID: "2", Valid: true, Confidence: 0.9}},
		Confidence: 0.9,
	}
	if err := ValidateResponse(resp, req); err == nil {
		t.Fatal("expected error for verdict on unsubmitted subsidy")
	}
}

func TestValidateResponseRejectsForeignSuggestedID(t *testing.T) {
	cat := testCatalog(t)
	req := ReviewRequest{Catalog: cat.Entries()}
	resp := &ReviewResponse{
		NewRequests: []NewRequest{{Text: "folhas de cheque", SuggestedID: "99"}},
		Confidence:  0.8,
	}
	if err := ValidateResponse(resp, req); err == nil {
		t.Fatal("expected error for suggested id outside the catalog")
	}
}

func TestValidateResponseRequiresNovelOrID(t *testing.T) {
	cat := testCatalog(t)
	req := ReviewRequest{Catalog: cat.Entries()}
	resp := &ReviewResponse{
		NewRequests: []NewRequest{{Text: "algo", SuggestedID: "", Novel: false}},
		Confidence:  0.8,
	}
	if err := ValidateResponse(resp, req); err == nil {
		t.Fatal("expected error for new request with no id and no novel flag")
	}
}

func TestValidateResponseRejectsNonVerbatimEvidence(t *testing.T) {
	cat := testCatalog(t)
	req := ReviewRequest{
		ScopedText: "Determino que o banco apresente os extratos bancários do investigado.",
		Matches:    []model.SubsidyMatch{{SubsidyID: "1", Evidence: "extratos bancários"}},
		Catalog:    cat.Entries(),
	}

	resp := &ReviewResponse{
		Verdicts: []MatchVerdict{
			{SubsidyID: "1", Valid: true, Confidence: 0.9, Evidence: "este trecho não consta do ofício"},
		},
		Confidence: 0.9,
	}
	if err := ValidateResponse(resp, req); err == nil {
		t.Fatal("expected rejection of verdict evidence absent from the document")
	}

	resp.Verdicts[0].Evidence = "apresente os extratos bancários"
	if err := ValidateResponse(resp, req); err != nil {
		t.Fatalf("verbatim evidence rejected: %v", err)
	}

	resp.NewRequests = []NewRequest{
		{Text: "dados cadastrais", SuggestedID: "3", Evidence: "frase inventada pelo validador"},
	}
	if err := ValidateResponse(resp, req); err == nil {
		t.Fatal("expected rejection of new-request evidence absent from the document")
	}
}

func TestValidateResponseConfidenceBounds(t *testing.T) {
	cat := testCatalog(t)
	req := ReviewRequest{
		Matches: []model.SubsidyMatch{{SubsidyID: "1"}},
		Catalog: cat.Entries(),
	}
	resp := &ReviewResponse{
		Verdicts:   []MatchVerdict{{SubsidyID: "1", Valid: true, Confidence: 1.4}},
		Confidence: 0.9,
	}
	if err := ValidateResponse(resp, req); err == nil {
		t.Fatal("expected error for confidence above 1")
	}

	resp.Verdicts[0].Confidence = 0.9
	if err := ValidateResponse(resp, req); err != nil {
		t.Fatalf("valid response rejected: %v", err)
	}
}

func TestMergeVerdictsSupersede(t *testing.T) {
	cat := testCatalog(t)
	aMatches := []model.SubsidyMatch{
		{SubsidyID: "1", Name: "Extratos bancários", Evidence: "extratos bancários", Similarity: 0.82},
		{SubsidyID: "2", Name: "Contratos de câmbio", Evidence: "contratos de câmbio", Similarity: 0.78},
		{SubsidyID: "3", Name: "Cadastro", Evidence: "dados cadastrais", Similarity: 0.91},
	}
	review := &ReviewResponse{
		Verdicts: []MatchVerdict{
			{SubsidyID: "1", Valid: true, Confidence: 0.95, Evidence: "solicito os extratos bancários"},
			{SubsidyID: "2", Valid: false, Confidence: 0.3, Rationale: "não solicitado, apenas citado"},
		},
		Complete:   true,
		Confidence: 0.9,
	}

	got := Merge(cat, aMatches, nil, review)
	if len(got.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got.Matches))
	}

	byID := map[string]model.SubsidyMatch{}
	for _, m := range got.Matches {
		byID[m.SubsidyID] = m
	}

	if m := byID["1"]; m.Status != model.StatusConfirmed || m.Confidence != 0.95 {
		t.Errorf("confirmed match: status=%s confidence=%v", m.Status, m.Confidence)
	}
	if m := byID["1"]; m.Evidence != "solicito os extratos bancários" {
		t.Errorf("confirmed match should take the validator's verbatim evidence, got %q", m.Evidence)
	}
	if m := byID["2"]; m.Status != model.StatusRejected {
		t.Errorf("rejected match kept for audit should have status rejected, got %s", m.Status)
	}
	if m := byID["2"]; m.Verdict == nil || m.Verdict.Rationale == "" {
		t.Error("rejected match should carry the verdict rationale")
	}
	if m := byID["3"]; m.Status != model.StatusLexical || m.Confidence != 0.91 {
		t.Errorf("uncovered match keeps lexical form: status=%s confidence=%v", m.Status, m.Confidence)
	}
}

func TestMergeValidatorAddedAndNovel(t *testing.T) {
	cat := testCatalog(t)
	aUnmatched := []model.UnmatchedFragment{
		{Text: "dados cadastrais completos", BestScore: 0.4},
		{Text: "registros de videomonitoramento", BestScore: 0.1},
	}
	review := &ReviewResponse{
		NewRequests: []NewRequest{
			{Text: "dados cadastrais completos", Evidence: "apresente os dados cadastrais completos", SuggestedID: "3"},
			{Text: "registros de videomonitoramento", Novel: true},
		},
		Confidence: 0.85,
	}

	got := Merge(cat, nil, aUnmatched, review)
	if len(got.Matches) != 1 {
		t.Fatalf("expected 1 validator-added match, got %d", len(got.Matches))
	}
	m := got.Matches[0]
	if m.SubsidyID != "3" || m.Status != model.StatusValidatorAdded {
		t.Errorf("validator-added match: id=%s status=%s", m.SubsidyID, m.Status)
	}

	if len(got.Unmatched) != 2 {
		t.Fatalf("expected 2 unmatched fragments, got %d", len(got.Unmatched))
	}
	if got.Unmatched[0].ResolvedID != "3" {
		t.Errorf("resolved fragment should record catalog id, got %q", got.Unmatched[0].ResolvedID)
	}
	if !got.Unmatched[1].Novel {
		t.Error("novel fragment should be flagged")
	}
}

func TestMergeNeverDuplicatesSubsidy(t *testing.T) {
	cat := testCatalog(t)
	aMatches := []model.SubsidyMatch{
		{SubsidyID: "1", Name: "Extratos bancários", Similarity: 0.8},
	}
	review := &ReviewResponse{
		Verdicts:    []MatchVerdict{{SubsidyID: "1", Valid: true, Confidence: 0.9}},
		NewRequests: []NewRequest{{Text: "extratos", SuggestedID: "1"}},
		Confidence:  0.9,
	}

	got := Merge(cat, aMatches, nil, review)
	if len(got.Matches) != 1 {
		t.Fatalf("subsidy 1 merged twice: %d matches", len(got.Matches))
	}
}

func TestLexicalOnly(t *testing.T) {
	matches := []model.SubsidyMatch{{SubsidyID: "1", Similarity: 0.77}}
	got := LexicalOnly(matches, nil)
	if got.Matches[0].Status != model.StatusLexical {
		t.Errorf("status = %s, want lexical", got.Matches[0].Status)
	}
	if got.Matches[0].Confidence != 0.77 {
		t.Errorf("confidence = %v, want similarity carried over", got.Matches[0].Confidence)
	}
	if matches[0].Status != "" {
		t.Error("LexicalOnly must not mutate its input")
	}
}

func TestStaticProviderEvidenceCheck(t *testing.T) {
	p := &StaticProvider{}
	req := ReviewRequest{
		ScopedText: "Determino que o banco apresente os extratos bancários do período.",
		Matches: []model.SubsidyMatch{
			{SubsidyID: "1", Evidence: "extratos bancários"},
			{SubsidyID: "2", Evidence: "contratos de câmbio"},
		},
	}
	resp, err := p.Review(context.Background(), req)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(resp.Verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(resp.Verdicts))
	}
	if !resp.Verdicts[0].Valid {
		t.Error("evidence present in text should be confirmed")
	}
	if resp.Verdicts[1].Valid {
		t.Error("evidence absent from text should be rejected")
	}
}

func TestStaticProviderScriptedError(t *testing.T) {
	p := &StaticProvider{Err: errors.New("down")}
	if p.IsAvailable(context.Background()) {
		t.Error("provider with error should be unavailable")
	}
	if _, err := p.Review(context.Background(), ReviewRequest{}); err == nil {
		t.Error("expected scripted error")
	}
}
