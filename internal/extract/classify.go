// Package extract pulls structure out of raw notice text: what kind of input
// arrived, where the notice body is inside it, who is investigated, which
// dates and regulator references it carries. Everything here is heuristic
// and regex-driven over OCR output; confidence values reflect that.
package extract

import (
	"regexp"

	"github.com/lgmartins/triagem/internal/model"
)

var (
	emailHeaderRe  = regexp.MustCompile(`(?im)^\s*(From|Para|Subject|Assunto|De|Date|Data|Enviada? em|Cc):`)
	noticeMarkerRe = regexp.MustCompile(`(?i)(PODER JUDICI[ÁA]RIO|OF[ÍI]CIO|MANDADO|VARA|COMARCA|JUIZ)`)
	ocrMarkerRe    = regexp.MustCompile(`(?s)<<OCR>>(.*?)<<OCR>>`)
	docketRe       = regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`)
	cpfRe          = regexp.MustCompile(`\d{3}\.?\d{3}\.?\d{3}-?\d{2}`)
	cnpjRe         = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`)
	reiterationRe  = regexp.MustCompile(`(?i)(REITER|REITERA[ÇC][ÃA]O|PRAZO VENCIDO|N[ÃA]O ATENDIDO)`)
	urgencyRe      = regexp.MustCompile(`(?i)\bURGENTE\b`)
	complementRe   = regexp.MustCompile(`(?i)(COMPLEMENTA[ÇC][ÃA]O|EM COMPLEMENTO|ADITAMENTO|COMPLEMENTAR AO OF[ÍI]CIO)`)
)

// Classify determines what kind of input the run received. It never fails:
// an unrecognizable input comes back as ContentUndetermined with low
// confidence and the caller decides whether to proceed.
func Classify(text string) model.InputClassification {
	c := model.InputClassification{
		Kind:       model.ContentUndetermined,
		NoticeKind: model.NoticeUndetermined,
	}

	if emailHeaderRe.MatchString(text) {
		c.Kind = model.ContentEmailChain
		c.Fragments = append(c.Fragments, "email_headers")
	}
	if ocrMarkerRe.MatchString(text) {
		c.HasOCRMarker = true
		c.Fragments = append(c.Fragments, "ocr_block")
	}
	if noticeMarkerRe.MatchString(text) {
		c.HasNoticeMarker = true
		if c.Kind != model.ContentEmailChain {
			c.Kind = model.ContentNotice
		}
		c.Fragments = append(c.Fragments, "notice_content")
	}
	if docketRe.MatchString(text) {
		c.HasDocketNumber = true
		c.Fragments = append(c.Fragments, "docket_number")
	}
	if cpfRe.MatchString(text) || cnpjRe.MatchString(text) {
		c.HasPartyIDs = true
		c.Fragments = append(c.Fragments, "party_ids")
	}

	// A fragment is text with some identifying material but no notice body.
	if c.Kind == model.ContentUndetermined && (c.HasDocketNumber || c.HasPartyIDs) {
		c.Kind = model.ContentFragment
	}

	switch {
	case reiterationRe.MatchString(text):
		c.NoticeKind = model.NoticeReiteration
	case complementRe.MatchString(text):
		c.NoticeKind = model.NoticeComplement
	case c.HasNoticeMarker:
		c.NoticeKind = model.NoticeFirst
	}

	found := 0
	for _, hit := range []bool{c.HasNoticeMarker, c.HasDocketNumber, c.HasPartyIDs, len(c.Fragments) > 0} {
		if hit {
			found++
		}
	}
	c.Confidence = float64(found) / 4.0

	return c
}

// IsUrgent reports whether the text carries explicit urgency language.
// Reiterations are urgent by definition; this catches the rest.
func IsUrgent(text string) bool {
	return urgencyRe.MatchString(text)
}
