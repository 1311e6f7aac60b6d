package extract

import (
	"regexp"
	"strings"

	"github.com/lgmartins/triagem/internal/model"
)

var circularRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Carta\s+Circular\s*(?:n[º°]?\s*)?(\d+)(?:[/-](\d{2,4}))?`),
	regexp.MustCompile(`(?i)\bC\.?C\.?\s*(?:n[º°]?\s*)?(\d+)(?:[/-](\d{2,4}))?`),
}

var appliesToAllRe = regexp.MustCompile(`(?i)(todos?|demais|listad[oa]s?|acima|abaixo|seguintes?)`)

// CircularLetters finds references to regulator circular letters and ties
// each one to the subsidies it governs. A letter near specific subsidy names
// binds to those; otherwise it is assumed to cover the whole request, at
// reduced confidence.
func CircularLetters(text string, subsidyNames []string) []model.CircularLetter {
	unique := map[string]model.CircularLetter{}

	for _, re := range circularRes {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			m := matchGroups(text, loc)
			letter := model.CircularLetter{
				Number:     m[1],
				Year:       expandYear(m[2]),
				Original:   m[0],
				Confidence: 0.9,
			}
			associate(&letter, text, loc[0], loc[1], subsidyNames)

			key := letter.Number + "/" + letter.Year
			if prev, ok := unique[key]; !ok || letter.Confidence > prev.Confidence {
				unique[key] = letter
			}
		}
	}

	out := make([]model.CircularLetter, 0, len(unique))
	for _, l := range unique {
		out = append(out, l)
	}
	return out
}

// associate inspects a window of text around the reference
func associate(letter *model.CircularLetter, text string, start, end int, subsidyNames []string) {
	if len(subsidyNames) == 0 {
		return
	}

	lo := start - 100
	if lo < 0 {
		lo = 0
	}
	hi := end + 100
	if hi > len(text) {
		hi = len(text)
	}
	context := strings.ToLower(text[lo:hi])

	if appliesToAllRe.MatchString(context) {
		letter.AppliesToAll = true
		letter.SubsidyNames = subsidyNames
		return
	}

	for _, name := range subsidyNames {
		if strings.Contains(context, strings.ToLower(name)) {
			letter.SubsidyNames = append(letter.SubsidyNames, name)
		}
	}
	if len(letter.SubsidyNames) == 0 {
		letter.AppliesToAll = true
		letter.SubsidyNames = subsidyNames
		letter.Confidence *= 0.8
	}
}

func matchGroups(text string, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return groups
}

func expandYear(y string) string {
	if len(y) != 2 {
		return y
	}
	if y < "50" {
		return "20" + y
	}
	return "19" + y
}
