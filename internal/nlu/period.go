package nlu

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/forexbot-ai/forexbot/pkg/models"
)

// periodPattern is one regex variant for a period unit. Each unit gets a bare
// "N unit" form and a "hace N unit" / "N unit ago" form.
type periodPattern struct {
	unit models.PeriodUnit
	re   *regexp.Regexp
}

var periodPatterns = []periodPattern{
	{models.PeriodDays, regexp.MustCompile(`(\d+)\s*(?:día|dia|días|dias|day|days)`)},
	{models.PeriodDays, regexp.MustCompile(`(?:hace\s*(\d+)\s*(?:día|dia|días|dias)|(\d+)\s*(?:day|days)\s*ago)`)},
	{models.PeriodWeeks, regexp.MustCompile(`(\d+)\s*(?:semana|semanas|week|weeks)`)},
	{models.PeriodWeeks, regexp.MustCompile(`(?:hace\s*(\d+)\s*(?:semana|semanas)|(\d+)\s*(?:week|weeks)\s*ago)`)},
	{models.PeriodMonths, regexp.MustCompile(`(\d+)\s*(?:mes|meses|month|months)`)},
	{models.PeriodMonths, regexp.MustCompile(`(?:hace\s*(\d+)\s*(?:mes|meses)|(\d+)\s*(?:month|months)\s*ago)`)},
}

// wordSeparator splits a compare request into its two period clauses.
var wordSeparator = regexp.MustCompile(`\by\b`)

// ParsePeriod extracts a time period from text. Numeric matches are tried
// days, weeks, months; without a number a bare unit word counts as one unit
// (weeks before months). Defaults to seven days.
func ParsePeriod(text string) models.TimePeriod {
	lower := strings.ToLower(text)

	for _, p := range periodPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			if n, err := strconv.Atoi(g); err == nil && n > 0 {
				return models.TimePeriod{Unit: p.unit, Count: n}
			}
		}
	}

	if strings.Contains(lower, "semana") || strings.Contains(lower, "week") {
		return models.TimePeriod{Unit: models.PeriodWeeks, Count: 1}
	}
	if strings.Contains(lower, "mes") || strings.Contains(lower, "month") {
		return models.TimePeriod{Unit: models.PeriodMonths, Count: 1}
	}

	return models.DefaultPeriod
}

// ParseSecondPeriod parses the period named after the first standalone "y"
// ("and") in a compare request, e.g. "hace 1 semana y hace 1 mes". ok is
// false when the text has no such conjunction.
func ParseSecondPeriod(text string) (period models.TimePeriod, ok bool) {
	lower := strings.ToLower(text)
	loc := wordSeparator.FindStringIndex(lower)
	if loc == nil {
		return models.TimePeriod{}, false
	}
	return ParsePeriod(lower[loc[1]:]), true
}
