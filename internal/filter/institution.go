// Package filter decides which parts of a notice concern the financial
// institution. It segments the text into addressee blocks, classifies each
// block's target and secrecy regime, and applies the inclusion policy. Only
// in-scope block text flows downstream, so requests addressed to other
// institutions never contaminate subsidy matching.
package filter

import (
	"regexp"
	"strings"

	"github.com/lgmartins/triagem/internal/model"
)

// Result is the filter's verdict for one document
type Result struct {
	Blocks             []model.AddresseeBlock
	InScope            bool
	Confidence         float64
	Secrecy            model.SecrecyType // document-level
	MultipleAddressees bool
	NeedsReview        bool // at least one ambiguous block kept in scope
	Reason             string
	ScopedText         string // concatenation of in-scope block spans only
}

// Filter classifies addressee blocks for one configured institution
type Filter struct {
	institutionRe *regexp.Regexp
}

var (
	markerRe = regexp.MustCompile(`(?i)(?:OFICIE-SE|EXPEÇA-SE|OFICIE)[^.\n]*?\s(?:AOS|ÀS|AO|À)\s+([^.,;\n]+)`)

	financialRe   = regexp.MustCompile(`(?i)bancos?\b|institui[çc][ãa]o\s+financeira|institui[çc][õo]es\s+financeiras`)
	centralBankRe = regexp.MustCompile(`(?i)\bbacen\b|banco\s+central`)
	taxRe         = regexp.MustCompile(`(?i)receita\s+federal|fazenda\s+nacional|\brfb\b|sigilo\s+fiscal`)
	telecomRe     = regexp.MustCompile(`(?i)operadoras?\b|telefonia|\bvivo\b|\bclaro\b|\btim\b|\boi\b|sigilo\s+telef[ôo]nico`)
	policeRe      = regexp.MustCompile(`(?i)pol[íi]cia|delegacia`)

	secrecyBankingRe = regexp.MustCompile(`(?i)sigilo\s+banc[áa]rio`)
	secrecyFiscalRe  = regexp.MustCompile(`(?i)sigilo\s+fiscal`)
	secrecyPhoneRe   = regexp.MustCompile(`(?i)sigilo\s+telef[ôo]nico`)
)

// New builds a filter scoped to the named institution
func New(cfg model.InstitutionConfig) *Filter {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "Banco X"
	}
	return &Filter{
		institutionRe: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(strings.ToLower(name))),
	}
}

// Filter segments the document and applies the inclusion policy. The returned
// blocks partition the text: spans never overlap and cover every character.
func (f *Filter) Filter(text string) Result {
	res := Result{Secrecy: secrecyOf(text)}
	if text == "" {
		res.Reason = "empty document"
		return res
	}

	spans := segment(text)
	res.MultipleAddressees = len(spans) > 1

	anyInstitution := f.mentionsAnyInstitution(text)

	for _, sp := range spans {
		block := model.AddresseeBlock{
			Text:      sp.text,
			Start:     sp.start,
			End:       sp.end,
			Addressee: sp.addressee,
		}
		block.Target = f.classifyTarget(sp.addressee, sp.text)
		block.Secrecy = secrecyOf(sp.text)
		f.decide(&block, anyInstitution)
		res.Blocks = append(res.Blocks, block)
	}

	var scoped []string
	for _, b := range res.Blocks {
		if !b.InScope {
			continue
		}
		res.InScope = true
		scoped = append(scoped, b.Text)
		if b.Confidence > res.Confidence {
			res.Confidence = b.Confidence
		}
		if b.NeedsReview {
			res.NeedsReview = true
		}
	}
	res.ScopedText = strings.Join(scoped, "\n\n---\n\n")

	switch {
	case !res.InScope:
		for _, b := range res.Blocks {
			if b.Confidence > res.Confidence {
				res.Confidence = b.Confidence
			}
		}
		res.Reason = "no block addresses the financial institution"
	case !anyInstitution:
		res.Reason = "no institution mentioned, assuming financial institution"
	case res.NeedsReview:
		res.Reason = "ambiguous addressee kept in scope, flagged for review"
	default:
		res.Reason = "financial institution addressed"
	}
	return res
}

type span struct {
	text       string
	start, end int
	addressee  string
}

// segment splits the document at addressee markers. Text before the first
// marker, or the whole document when no marker exists, is one implicit block.
func segment(text string) []span {
	locs := markerRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return []span{{text: text, start: 0, end: len(text)}}
	}

	var spans []span
	if first := locs[0][0]; first > 0 {
		spans = append(spans, span{text: text[:first], start: 0, end: first})
	}
	for i, loc := range locs {
		start := loc[0]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		spans = append(spans, span{
			text:      text[start:end],
			start:     start,
			end:       end,
			addressee: strings.TrimSpace(text[loc[2]:loc[3]]),
		})
	}
	return spans
}

// classifyTarget inspects the addressee first and falls back to the block
// body for implicit blocks.
func (f *Filter) classifyTarget(addressee, body string) model.InstitutionTarget {
	probe := addressee
	if probe == "" {
		probe = body
	}
	switch {
	case f.institutionRe.MatchString(probe):
		return model.TargetFinancialInstitution
	// "Banco Central" would also hit the generic bank pattern, so the
	// regulator check runs first.
	case centralBankRe.MatchString(probe):
		return model.TargetCentralBank
	case financialRe.MatchString(probe):
		return model.TargetFinancialInstitution
	case taxRe.MatchString(probe):
		return model.TargetTaxAuthority
	case telecomRe.MatchString(probe):
		return model.TargetTelecomOperator
	case policeRe.MatchString(probe):
		return model.TargetLawEnforcement
	}
	return model.TargetUnspecified
}

// decide applies the inclusion policy to one classified block
func (f *Filter) decide(b *model.AddresseeBlock, anyInstitution bool) {
	switch b.Target {
	case model.TargetFinancialInstitution:
		b.InScope = true
		if centralBankRe.MatchString(b.Text) {
			// mixed list naming the regulator alongside banks
			b.Confidence = 0.90
		} else {
			b.Confidence = 0.95
		}
	case model.TargetCentralBank:
		stripped := centralBankRe.ReplaceAllString(b.Text, "")
		if f.institutionRe.MatchString(stripped) || financialRe.MatchString(stripped) {
			b.Target = model.TargetFinancialInstitution
			b.InScope = true
			b.Confidence = 0.90
		} else {
			b.InScope = false
			b.Confidence = 0.85
		}
	case model.TargetTaxAuthority, model.TargetTelecomOperator, model.TargetLawEnforcement:
		b.InScope = false
		b.Confidence = 0.95
	default:
		// No known institution in this block. When nothing in the document
		// names one either, the default rule assumes a financial institution;
		// otherwise the block is ambiguous and flagged for validator review.
		b.InScope = true
		b.Confidence = 0.70
		b.NeedsReview = anyInstitution
	}
}

func (f *Filter) mentionsAnyInstitution(text string) bool {
	return f.institutionRe.MatchString(text) ||
		financialRe.MatchString(text) ||
		centralBankRe.MatchString(text) ||
		taxRe.MatchString(text) ||
		telecomRe.MatchString(text) ||
		policeRe.MatchString(text)
}

func secrecyOf(text string) model.SecrecyType {
	var found []model.SecrecyType
	if secrecyBankingRe.MatchString(text) {
		found = append(found, model.SecrecyBanking)
	}
	if secrecyFiscalRe.MatchString(text) {
		found = append(found, model.SecrecyFiscal)
	}
	if secrecyPhoneRe.MatchString(text) {
		found = append(found, model.SecrecyPhone)
	}
	switch len(found) {
	case 0:
		return model.SecrecyUnknown
	case 1:
		return found[0]
	default:
		return model.SecrecyMixed
	}
}
