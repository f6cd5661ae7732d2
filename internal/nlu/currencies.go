package nlu

import (
	"strings"

	"github.com/forexbot-ai/forexbot/internal/lexicon"
)

// DetectCurrencies scans text for currency pair notation ("EUR/USD") and
// lexicon aliases, returning deduplicated codes in first-seen order. Pair
// notation runs first so explicit pairs take precedence.
func DetectCurrencies(text string) []string {
	lower := strings.ToLower(text)

	var detected []string
	seen := make(map[string]bool)
	add := func(code string) {
		if !seen[code] {
			seen[code] = true
			detected = append(detected, code)
		}
	}

	for _, tok := range strings.Fields(lower) {
		if !strings.Contains(tok, "/") {
			continue
		}
		parts := strings.Split(tok, "/")
		if len(parts) != 2 {
			continue
		}
		for _, part := range parts {
			if lexicon.IsCode(part) {
				add(strings.ToUpper(part))
			}
		}
	}

	for _, a := range lexicon.Aliases() {
		if strings.Contains(lower, a.Name) {
			add(a.Code)
		}
	}

	return detected
}
