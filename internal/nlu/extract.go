package nlu

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/forexbot-ai/forexbot/internal/lexicon"
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// EntityExtractor is the external collaborator (an LLM) that turns free text
// into structured conversion entities. It is best-effort: any error makes the
// caller fall back to the rule-based path.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) (*models.ConversionEntities, error)
}

// Extractor resolves (amount, source, target) for conversion requests with a
// two-tier strategy: LLM first, rules on any failure. A nil llm skips
// straight to the rules.
type Extractor struct {
	llm EntityExtractor
}

// NewExtractor creates an extractor. llm may be nil.
func NewExtractor(llm EntityExtractor) *Extractor {
	return &Extractor{llm: llm}
}

// Extract returns the conversion entities for text. It never fails: the
// rule-based tier has defaults for every field.
func (e *Extractor) Extract(ctx context.Context, text string) models.ConversionEntities {
	lower := strings.ToLower(text)

	if e.llm != nil {
		ents, err := e.llm.ExtractEntities(ctx, lower)
		if err == nil && ents != nil && ents.Amount != 0 && ents.SourceCurrency != "" && ents.TargetCurrency != "" {
			ents.SourceCurrency = lexicon.Normalize(ents.SourceCurrency)
			ents.TargetCurrency = lexicon.Normalize(ents.TargetCurrency)
			return *ents
		}
		if err != nil {
			log.Printf("nlu: llm extraction failed, using rules: %v", err)
		}
	}

	return extractWithRules(lower)
}

// extractWithRules is the deterministic fallback tier.
func extractWithRules(lower string) models.ConversionEntities {
	ents := models.ConversionEntities{Amount: extractAmount(lower)}

	currencies := DetectCurrencies(lower)
	switch {
	case len(currencies) >= 2:
		ents.SourceCurrency = currencies[0]
		ents.TargetCurrency = currencies[1]
	case len(currencies) == 1:
		if prepositionAfterCurrency(lower) {
			// "100 euros a ..." — the named currency is the source.
			ents.SourceCurrency = currencies[0]
			ents.TargetCurrency = "USD"
		} else {
			ents.SourceCurrency = "EUR"
			ents.TargetCurrency = currencies[0]
		}
	default:
		ents.SourceCurrency = "EUR"
		ents.TargetCurrency = "USD"
	}

	return ents
}

// extractAmount returns the first whitespace-delimited token that parses as a
// decimal number, treating a comma as the decimal separator. Defaults to 1.
func extractAmount(lower string) float64 {
	for _, tok := range strings.Fields(lower) {
		tok = strings.ReplaceAll(tok, ",", ".")
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return v
		}
	}
	return 1.0
}

// prepositionAfterCurrency reports whether a directional preposition ("a",
// "en", "por") occurs after the first token mentioning a currency name.
func prepositionAfterCurrency(lower string) bool {
	parts := strings.Fields(lower)

	idx := -1
	for i, part := range parts {
		for _, a := range lexicon.Aliases() {
			if strings.Contains(part, a.Name) {
				idx = i
				break
			}
		}
		if idx >= 0 {
			break
		}
	}
	if idx < 0 {
		return false
	}

	for _, part := range parts[idx:] {
		if part == "a" || part == "en" || part == "por" {
			return true
		}
	}
	return false
}
