package extract

import (
	"regexp"
	"strings"

	"github.com/lgmartins/triagem/internal/model"
)

var (
	nameLabelRe = regexp.MustCompile(`(?:Investigad[oa]|Requerid[oa]|Nome)[:\s]+([A-ZÁÉÍÓÚÂÊÔÃÕÇ][A-ZÁÉÍÓÚÂÊÔÃÕÇ ]{3,60})`)

	partyBlockRe = regexp.MustCompile(`(?is)(?:INVESTIGAD[OA]S?|REQUERID[OA]S?|PARTES?)[:\s]+(.+?)(?:\n\n|DETERMINO|OFICIE-SE|$)`)
	namedCPFRe   = regexp.MustCompile(`([A-ZÁÉÍÓÚÂÊÔÃÕÇ][\pL]+(?:\s+(?:d[aeo]s?\s+)?[A-ZÁÉÍÓÚÂÊÔÃÕÇ][\pL]+)*)\s*,?\s*(?:CPF|C\.P\.F\.)[:\sº°n]*(\d{3}\.?\d{3}\.?\d{3}-?\d{2})`)
	namedCNPJRe  = regexp.MustCompile(`([A-ZÁÉÍÓÚÂÊÔÃÕÇ][^,\n]{2,60}?)\s*,?\s*(?:CNPJ|C\.N\.P\.J\.)[:\sº°n]*(\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2})`)
	moreRe       = regexp.MustCompile(`(?i)(e outros|et al|demais envolvidos|entre outros|\.\.\.)`)
)

// PartyExtraction is the set of parties found plus a flag for the ones the
// text hints at but never names.
type PartyExtraction struct {
	Parties []model.Party
	HasMore bool
}

// Parties extracts every investigated party the text names, unbounded.
// Dedup is by tax id; a party named twice with the same document appears once.
func Parties(text string) PartyExtraction {
	var out PartyExtraction
	seen := map[string]bool{}

	add := func(p model.Party) {
		if p.TaxID == "" || seen[p.TaxID] {
			return
		}
		seen[p.TaxID] = true
		out.Parties = append(out.Parties, p)
	}

	// Structured blocks first: "INVESTIGADOS: 1. Fulano CPF ..."
	for _, block := range partyBlockRe.FindAllStringSubmatch(text, -1) {
		for _, line := range strings.Split(block[1], "\n") {
			for _, m := range namedCPFRe.FindAllStringSubmatch(line, -1) {
				add(model.Party{
					Name:       cleanPartyName(m[1]),
					TaxID:      digitsOnly(m[2]),
					Kind:       model.PartyNaturalPerson,
					Confidence: 0.95,
				})
			}
			for _, m := range namedCNPJRe.FindAllStringSubmatch(line, -1) {
				add(model.Party{
					Name:       cleanPartyName(m[1]),
					TaxID:      digitsOnly(m[2]),
					Kind:       model.PartyLegalEntity,
					Confidence: 0.95,
				})
			}
		}
	}

	// Then name+document pairs anywhere in the text.
	for _, m := range namedCPFRe.FindAllStringSubmatch(text, -1) {
		add(model.Party{
			Name:       cleanPartyName(m[1]),
			TaxID:      digitsOnly(m[2]),
			Kind:       model.PartyNaturalPerson,
			Confidence: 0.9,
		})
	}
	for _, m := range namedCNPJRe.FindAllStringSubmatch(text, -1) {
		add(model.Party{
			Name:       cleanPartyName(m[1]),
			TaxID:      digitsOnly(m[2]),
			Kind:       model.PartyLegalEntity,
			Confidence: 0.9,
		})
	}

	// Finally bare documents with no name attached. CNPJs are blanked out
	// first so their leading digits cannot masquerade as CPFs.
	withoutCNPJ := cnpjRe.ReplaceAllString(text, " ")
	for _, cpf := range cpfRe.FindAllString(withoutCNPJ, -1) {
		add(model.Party{TaxID: digitsOnly(cpf), Kind: model.PartyNaturalPerson, Confidence: 0.6})
	}
	for _, cnpj := range cnpjRe.FindAllString(text, -1) {
		add(model.Party{TaxID: digitsOnly(cnpj), Kind: model.PartyLegalEntity, Confidence: 0.6})
	}

	out.HasMore = moreRe.MatchString(text)
	return out
}

func cleanPartyName(s string) string {
	s = strings.TrimSpace(s)
	// Numbered list prefixes survive the regex when the name is uppercase
	s = strings.TrimLeft(s, "0123456789.- ")
	return strings.TrimSpace(s)
}
