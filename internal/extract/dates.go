package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lgmartins/triagem/internal/model"
)

// RelativeDateMarker flags a date that can only be resolved against the
// notice's own date ("últimos 90 dias"). Resolution is a human decision.
const RelativeDateMarker = "[CALCULAR_RELATIVO]"

var (
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{2,4})\b`)
	monthYearRe   = regexp.MustCompile(`(?i)\b(janeiro|fevereiro|mar[çc]o|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+(\d{4})\b`)
	relativeRe    = regexp.MustCompile(`(?i)(últim[oa]s?\s+\d+\s+(?:dias?|meses?|anos?))`)
	yearSpanRe    = regexp.MustCompile(`(?i)\b(?:ano|exerc[íi]cio)\s+de\s+(\d{4})\b`)
)

var monthNumber = map[string]string{
	"janeiro": "01", "fevereiro": "02", "março": "03", "marco": "03",
	"abril": "04", "maio": "05", "junho": "06", "julho": "07",
	"agosto": "08", "setembro": "09", "outubro": "10", "novembro": "11",
	"dezembro": "12",
}

// Dates finds every date reference in the text, in all the formats notices
// actually use: dd/mm/yyyy variants, "março de 2023", "últimos 90 dias",
// "exercício de 2022".
func Dates(text string) []model.ExtractedDate {
	var out []model.ExtractedDate

	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		day, month, year := m[1], m[2], m[3]
		if len(year) == 2 {
			// Two-digit years pivot at 30: 29 is 2029, 31 is 1931
			if y, _ := strconv.Atoi(year); y < 30 {
				year = "20" + year
			} else {
				year = "19" + year
			}
		}
		mo, errM := strconv.Atoi(month)
		d, errD := strconv.Atoi(day)
		if errM != nil || errD != nil || mo < 1 || mo > 12 || d < 1 || d > 31 {
			continue
		}
		out = append(out, model.ExtractedDate{
			Original:   m[0],
			Normalized: fmt.Sprintf("%s-%02d-%02d", year, mo, d),
			Kind:       model.DateSpecific,
			Confidence: 0.95,
		})
	}

	for _, m := range monthYearRe.FindAllStringSubmatch(text, -1) {
		num, ok := monthNumber[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		out = append(out, model.ExtractedDate{
			Original:   m[0],
			Normalized: m[2] + "-" + num + "-01",
			Kind:       model.DatePeriod,
			Confidence: 0.9,
		})
	}

	for _, m := range yearSpanRe.FindAllStringSubmatch(text, -1) {
		out = append(out, model.ExtractedDate{
			Original:   m[0],
			Normalized: m[1] + "-01-01",
			Kind:       model.DatePeriod,
			Confidence: 0.9,
		})
	}

	for _, m := range relativeRe.FindAllString(text, -1) {
		out = append(out, model.ExtractedDate{
			Original:   m,
			Normalized: RelativeDateMarker,
			Kind:       model.DateRelative,
			Confidence: 0.85,
		})
	}

	return out
}

// PeriodFrom resolves a date range from a piece of request text. Two concrete
// dates bound a range; a lone month or year expands to its full span; anything
// else is no period at all.
func PeriodFrom(text string) *model.Period {
	dates := Dates(text)

	var concrete []model.ExtractedDate
	for _, d := range dates {
		if d.Kind != model.DateRelative {
			concrete = append(concrete, d)
		}
	}

	if len(concrete) >= 2 {
		// Extremes over every concrete date: the normalized form sorts
		// lexicographically as a calendar date.
		start, end := concrete[0].Normalized, concrete[0].Normalized
		for _, d := range concrete[1:] {
			if d.Normalized < start {
				start = d.Normalized
			}
			if d.Normalized > end {
				end = d.Normalized
			}
		}
		return &model.Period{Start: start, End: end, Original: text}
	}

	if len(concrete) == 1 && concrete[0].Kind == model.DatePeriod {
		parts := strings.SplitN(concrete[0].Normalized, "-", 3)
		year, month := parts[0], parts[1]
		if strings.Contains(strings.ToLower(concrete[0].Original), "exerc") ||
			strings.Contains(strings.ToLower(concrete[0].Original), "ano de") {
			return &model.Period{Start: year + "-01-01", End: year + "-12-31", Original: concrete[0].Original}
		}
		return &model.Period{
			Start:    year + "-" + month + "-01",
			End:      year + "-" + month + "-" + lastDay(year, month),
			Original: concrete[0].Original,
		}
	}

	return nil
}

func lastDay(year, month string) string {
	switch month {
	case "01", "03", "05", "07", "08", "10", "12":
		return "31"
	case "04", "06", "09", "11":
		return "30"
	}
	y, _ := strconv.Atoi(year)
	if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
		return "29"
	}
	return "28"
}
