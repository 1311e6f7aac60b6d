package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lgmartins/triagem/internal/model"
)

var deParaRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)origem\s+e\s+destino|DE[/-]PARA`),
	regexp.MustCompile(`(?i)conta\s+de\s+(?:origem|destino)`),
	regexp.MustCompile(`(?i)\b(?:remetente|destinat[áa]rio|benefici[áa]rio)\b`),
	regexp.MustCompile(`(?i)transfer[êe]ncias?\s+(?:para|de|entre)`),
	regexp.MustCompile(`(?i)identifica[çc][ãa]o\s+d[oa]s?\s+(?:remetentes?|destinat[áa]rios?|envolvid[oa]s?|partes?|contas?)`),
	regexp.MustCompile(`(?i)dados?\s+d[oa]\s+(?:favorecid[oa]|recebedor[a]?)`),
	regexp.MustCompile(`(?i)(?:discriminando|especificando|detalhando)\s+(?:origem|destino|benefici[áa]rio)`),
	regexp.MustCompile(`(?i)(?:CPF|CNPJ|nome|raz[ãa]o social)\s+do\s+(?:destinat[áa]rio|benefici[áa]rio|favorecid[oa])`),
}

// Subsidy names that inherently carry counterpart data
var deParaSubsidyWords = []string{
	"transferência", "transferencia", "ted", "doc", "pix",
	"remessa", "pagamento", "débito", "debito", "crédito", "credito", "movimentação", "movimentacao",
}

// DePara detects requests for counterpart identification on transactions
// (origin and destination accounts, beneficiaries, sender fiscal ids) and
// binds them to the subsidies they qualify.
func DePara(text string, matches []model.SubsidyMatch) model.DeParaRequirement {
	req := model.DeParaRequirement{}

	kinds := map[string]bool{}
	seen := map[string]bool{}
	for _, re := range deParaRes {
		for _, hit := range re.FindAllString(text, -1) {
			if seen[hit] {
				continue
			}
			seen[hit] = true
			req.Evidence = append(req.Evidence, hit)

			lower := strings.ToLower(hit)
			if strings.Contains(lower, "conta") {
				kinds["conta_origem_destino"] = true
			}
			if strings.Contains(lower, "benefici") || strings.Contains(lower, "favorecid") || strings.Contains(lower, "destinat") {
				kinds["beneficiario"] = true
			}
			if strings.Contains(lower, "cpf") || strings.Contains(lower, "cnpj") {
				kinds["identificacao_fiscal"] = true
			}
			if strings.Contains(lower, "remetente") {
				kinds["remetente"] = true
			}
		}
	}

	if len(req.Evidence) == 0 {
		return req
	}

	req.Required = true
	for k := range kinds {
		req.Kinds = append(req.Kinds, k)
	}
	sort.Strings(req.Kinds)
	req.Confidence = float64(len(req.Evidence)) * 0.3
	if req.Confidence > 1 {
		req.Confidence = 1
	}

	// Bind to the subsidies whose name or evidence is transactional.
	for _, m := range matches {
		name := strings.ToLower(m.Name)
		evidence := strings.ToLower(m.Evidence)
		for _, w := range deParaSubsidyWords {
			if strings.Contains(name, w) || strings.Contains(evidence, w) {
				req.SubsidyIDs = append(req.SubsidyIDs, m.SubsidyID)
				break
			}
		}
	}

	// Counterpart language with no transactional subsidy applies broadly.
	if len(req.SubsidyIDs) == 0 {
		for _, m := range matches {
			req.SubsidyIDs = append(req.SubsidyIDs, m.SubsidyID)
		}
		req.Confidence *= 0.7
	}

	return req
}
