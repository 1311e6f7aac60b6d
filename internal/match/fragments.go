package match

import (
	"regexp"
	"strings"
)

// Request fragments are the clause-level pieces of scoped text that carry
// individual subsidy requests. Notices phrase them as imperative blocks
// ("DETERMINO...", "Solicito...") or as verb/noun lead-ins, with items
// separated by semicolons, commas, dashes, or numbered lists.
var (
	imperativeRe = regexp.MustCompile(`(?is)(?:DETERMINO|SOLICITO|REQUEIRO|OFICIE-SE)(.+?)(?:\n\n|$)`)
	verbRe       = regexp.MustCompile(`(?i)(?:forne[çc]a|disponibilize|informe|apresente)(.+?)(?:\.|;|\n|$)`)
	nounRe       = regexp.MustCompile(`(?i)(?:extratos?|saldos?|movimenta[çc][õo]es?)(.+?)(?:\.|;|\n|$)`)

	itemSplitRe = regexp.MustCompile(`[;,]|\n-|\n\d+\.`)
)

// Fragments extracts candidate request fragments from scoped text. Fragments
// shorter than minLen runes are noise and dropped. Order follows first
// appearance; duplicates are collapsed.
func Fragments(scopedText string, minLen int) []string {
	if minLen <= 0 {
		minLen = 10
	}

	var fragments []string
	seen := make(map[string]bool)

	collect := func(re *regexp.Regexp, keepPrefix bool) {
		for _, m := range re.FindAllStringSubmatchIndex(scopedText, -1) {
			body := scopedText[m[2]:m[3]]
			if keepPrefix {
				// noun-led requests keep the noun itself; "extratos de conta
				// corrente" matches the catalog, "de conta corrente" does not
				body = scopedText[m[0]:m[1]]
			}
			for _, item := range itemSplitRe.Split(body, -1) {
				item = strings.Trim(item, " \t\n.;:")
				if len([]rune(item)) < minLen {
					continue
				}
				key := Normalize(item)
				if seen[key] {
					continue
				}
				seen[key] = true
				fragments = append(fragments, item)
			}
		}
	}

	collect(imperativeRe, false)
	collect(verbRe, false)
	collect(nounRe, true)
	return fragments
}
