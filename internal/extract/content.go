package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/lgmartins/triagem/internal/model"
)

// NoticeNotFound marks a run where no notice body could be isolated from the
// input. Downstream stages see it and fall back to lookup hints.
const NoticeNotFound = "[OFICIO_NAO_ENCONTRADO]"

// Content isolates the notice body from whatever wrapped it. OCR delimiters
// win over everything else; email chains are reduced to the blocks that carry
// court markers. Returns NoticeNotFound when nothing usable remains.
func Content(text string, c model.InputClassification) string {
	if looksLikeHTML(text) {
		text = stripHTML(text)
	}

	if c.HasOCRMarker {
		if blocks := ocrMarkerRe.FindAllStringSubmatch(text, -1); len(blocks) > 0 {
			parts := make([]string, 0, len(blocks))
			for _, b := range blocks {
				parts = append(parts, strings.TrimSpace(b[1]))
			}
			text = strings.Join(parts, "\n\n")
		}
	}

	switch c.Kind {
	case model.ContentNotice:
		return text
	case model.ContentEmailChain:
		var kept []string
		for _, block := range strings.Split(text, "\n\n") {
			if noticeMarkerRe.MatchString(block) {
				kept = append(kept, block)
			}
		}
		if len(kept) > 0 {
			return strings.Join(kept, "\n\n")
		}
	}

	if c.HasOCRMarker && strings.TrimSpace(text) != "" {
		return text
	}
	return NoticeNotFound
}

// LookupHints extracts the minimal identifiers needed to query a back-office
// system when the notice body itself is missing.
func LookupHints(text string) model.LookupHints {
	if blocks := ocrMarkerRe.FindAllStringSubmatch(text, -1); len(blocks) > 0 {
		parts := make([]string, 0, len(blocks))
		for _, b := range blocks {
			parts = append(parts, b[1])
		}
		text = strings.Join(parts, "\n\n")
	}

	var h model.LookupHints
	h.DocketNumbers = uniqueMatches(docketRe, text, nil)
	h.CPFs = uniqueMatches(cpfRe, text, digitsOnly)
	h.CNPJs = uniqueMatches(cnpjRe, text, digitsOnly)

	// CPFs are a strict sub-pattern of CNPJs in sloppy OCR; drop CPF hits
	// that are prefixes of a found CNPJ.
	h.CPFs = dropContained(h.CPFs, h.CNPJs)

	for _, m := range nameLabelRe.FindAllStringSubmatch(text, -1) {
		if name := strings.TrimSpace(m[1]); name != "" {
			h.Names = append(h.Names, name)
		}
	}

	h.CanQuery = len(h.DocketNumbers) > 0 || len(h.CPFs) > 0 || len(h.CNPJs) > 0
	return h
}

func uniqueMatches(re *regexp.Regexp, text string, clean func(string) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range re.FindAllString(text, -1) {
		if clean != nil {
			m = clean(m)
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func dropContained(shorter, longer []string) []string {
	var out []string
	for _, s := range shorter {
		contained := false
		for _, l := range longer {
			if strings.Contains(l, s) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, s)
		}
	}
	return out
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<body") ||
		strings.Contains(lower, "<div") || strings.Contains(lower, "<br")
}

// stripHTML renders an HTML email body down to its visible text
func stripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			case "br", "p", "div", "tr":
				buf.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				buf.WriteString(t)
				buf.WriteString(" ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return strings.TrimSpace(buf.String())
}
