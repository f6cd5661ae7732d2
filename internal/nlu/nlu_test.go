package nlu

import (
	"context"
	"errors"
	"testing"

	"github.com/forexbot-ai/forexbot/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// intent.go — Classify
// ════════════════════════════════════════════════════════════════════

func TestClassifyKeywordPriority(t *testing.T) {
	cases := []struct {
		text   string
		intent models.Intent
	}{
		{"convertir 100 euros a dólares", models.IntentConversion},
		{"gráfico de EUR/USD", models.IntentGraph},
		{"predicción del yen para la próxima semana", models.IntentPrediction},
		{"cuánto valía el euro hace 3 días", models.IntentHistory},
		{"compara EUR/USD hace 1 semana y hace 1 mes", models.IntentCompare}, // compare outranks the "hace" period syntax
		{"compara EUR/USD entre dos fechas", models.IntentCompare},
		{"EUR versus GBP", models.IntentCompare},
		{"qué monedas conoces", models.IntentCurrencies},
		{"predicción vs realidad", models.IntentCompare}, // compare outranks prediction
	}
	for _, tc := range cases {
		intent, matched := Classify(tc.text)
		if intent != tc.intent {
			t.Fatalf("Classify(%q): got %q, want %q", tc.text, intent, tc.intent)
		}
		if !matched {
			t.Fatalf("Classify(%q): expected a keyword match", tc.text)
		}
	}
}

func TestClassifyHistoryBeatsLowerSets(t *testing.T) {
	// A history keyword wins over prediction, graph and conversion keywords.
	texts := []string{
		"hace una semana, predicción y gráfico",
		"gráfico histórico de hace 2 meses",
		"convertir al valor del mes pasado",
	}
	for _, text := range texts {
		if intent, _ := Classify(text); intent != models.IntentHistory {
			t.Fatalf("Classify(%q): got %q, want history", text, intent)
		}
	}
}

func TestClassifyDigitHeuristic(t *testing.T) {
	// No keyword, but a digit plus a currency name → conversion, matched.
	intent, matched := Classify("100 euros en libras")
	if intent != models.IntentConversion || !matched {
		t.Fatalf("got %q, matched=%v", intent, matched)
	}
}

func TestClassifyDefault(t *testing.T) {
	// Nothing recognizable still classifies as conversion, but unmatched.
	intent, matched := Classify("hola, qué tal el tiempo")
	if intent != models.IntentConversion {
		t.Fatalf("got %q, want conversion default", intent)
	}
	if matched {
		t.Fatal("default classification should report matched=false")
	}
}

// ════════════════════════════════════════════════════════════════════
// currencies.go — DetectCurrencies
// ════════════════════════════════════════════════════════════════════

func TestDetectCurrencies(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"EUR/USD", []string{"EUR", "USD"}},
		{"gráfico de eur/jpy por favor", []string{"EUR", "JPY"}},
		{"100 euros a dólares", []string{"EUR", "USD"}},
		{"cuánto vale la libra", []string{"GBP"}},
		{"EUR/USD y también euros", []string{"EUR", "USD"}}, // deduplicated
		{"abc/def", nil},                                    // unknown pair parts ignored
		{"nada que ver", nil},
	}
	for _, tc := range cases {
		got := DetectCurrencies(tc.text)
		if len(got) != len(tc.want) {
			t.Fatalf("DetectCurrencies(%q): got %v, want %v", tc.text, got, tc.want)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Fatalf("DetectCurrencies(%q)[%d]: got %q, want %q", tc.text, i, got[i], tc.want[i])
			}
		}
	}
}

func TestDetectCurrenciesPairPrecedence(t *testing.T) {
	// Pair notation is scanned before aliases, so the pair fixes the order
	// even when an alias of the second code appears earlier in the text.
	got := DetectCurrencies("dólares: gráfico jpy/usd")
	if len(got) != 2 || got[0] != "JPY" || got[1] != "USD" {
		t.Fatalf("got %v, want [JPY USD]", got)
	}
}

// ════════════════════════════════════════════════════════════════════
// period.go — ParsePeriod
// ════════════════════════════════════════════════════════════════════

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		text string
		want models.TimePeriod
	}{
		{"hace 3 semanas", models.TimePeriod{Unit: models.PeriodWeeks, Count: 3}},
		{"últimos 10 días", models.TimePeriod{Unit: models.PeriodDays, Count: 10}},
		{"2 months ago", models.TimePeriod{Unit: models.PeriodMonths, Count: 2}},
		{"5 weeks", models.TimePeriod{Unit: models.PeriodWeeks, Count: 5}},
		{"hace 1 mes", models.TimePeriod{Unit: models.PeriodMonths, Count: 1}},
		{"la semana pasada", models.TimePeriod{Unit: models.PeriodWeeks, Count: 1}},  // bare unit word
		{"el mes anterior", models.TimePeriod{Unit: models.PeriodMonths, Count: 1}}, // bare unit word
		{"sin período", models.TimePeriod{Unit: models.PeriodDays, Count: 7}},       // default
	}
	for _, tc := range cases {
		if got := ParsePeriod(tc.text); got != tc.want {
			t.Fatalf("ParsePeriod(%q): got %+v, want %+v", tc.text, got, tc.want)
		}
	}
}

func TestParseSecondPeriod(t *testing.T) {
	p, ok := ParseSecondPeriod("compara EUR/USD hace 1 semana y hace 1 mes")
	if !ok {
		t.Fatal("expected a second period")
	}
	if p != (models.TimePeriod{Unit: models.PeriodMonths, Count: 1}) {
		t.Fatalf("got %+v", p)
	}

	if _, ok := ParseSecondPeriod("compara EUR/USD hace 1 semana"); ok {
		t.Fatal("no conjunction, should not find a second period")
	}

	// "y" inside a word is not a separator.
	if _, ok := ParseSecondPeriod("compara el yen de hace 1 semana"); ok {
		t.Fatal("letter y inside a word should not split the text")
	}
}

// ════════════════════════════════════════════════════════════════════
// extract.go — Extractor
// ════════════════════════════════════════════════════════════════════

// fakeLLM is a canned EntityExtractor.
type fakeLLM struct {
	ents *models.ConversionEntities
	err  error
}

func (f *fakeLLM) ExtractEntities(_ context.Context, _ string) (*models.ConversionEntities, error) {
	return f.ents, f.err
}

func TestExtractLLMSuccess(t *testing.T) {
	e := NewExtractor(&fakeLLM{ents: &models.ConversionEntities{
		Amount: 250, SourceCurrency: "libras", TargetCurrency: "yen",
	}})
	got := e.Extract(context.Background(), "convertir 250 libras a yenes")
	if got.Amount != 250 || got.SourceCurrency != "GBP" || got.TargetCurrency != "JPY" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractLLMUnknownAliasPassesThrough(t *testing.T) {
	e := NewExtractor(&fakeLLM{ents: &models.ConversionEntities{
		Amount: 10, SourceCurrency: "sek", TargetCurrency: "eur",
	}})
	got := e.Extract(context.Background(), "10 sek a euros")
	if got.SourceCurrency != "SEK" || got.TargetCurrency != "EUR" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractFallbackOnLLMError(t *testing.T) {
	e := NewExtractor(&fakeLLM{err: errors.New("provider down")})
	got := e.Extract(context.Background(), "convertir 100 euros a dólares")
	if got.Amount != 100 || got.SourceCurrency != "EUR" || got.TargetCurrency != "USD" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractFallbackOnMissingFields(t *testing.T) {
	// An LLM response missing a required field counts as a failure.
	e := NewExtractor(&fakeLLM{ents: &models.ConversionEntities{Amount: 100, SourceCurrency: "eur"}})
	got := e.Extract(context.Background(), "convertir 100 euros a dólares")
	if got.SourceCurrency != "EUR" || got.TargetCurrency != "USD" {
		t.Fatalf("got %+v", got)
	}
}

func TestExtractRules(t *testing.T) {
	e := NewExtractor(nil)
	cases := []struct {
		text   string
		amount float64
		source string
		target string
	}{
		{"convertir 100 euros a dólares", 100, "EUR", "USD"},
		{"100,5 euros a dólares", 100.5, "EUR", "USD"},            // comma as decimal separator
		{"50 libras a yenes", 50, "GBP", "JPY"},
		{"euros a cuánto están", 1, "EUR", "USD"},                 // one currency + preposition → source
		{"cuánto vale en libras", 1, "EUR", "GBP"},                // "en" precedes the currency → target
		{"dame una conversión", 1, "EUR", "USD"},                  // nothing detected → defaults
	}
	for _, tc := range cases {
		got := e.Extract(context.Background(), tc.text)
		if got.Amount != tc.amount || got.SourceCurrency != tc.source || got.TargetCurrency != tc.target {
			t.Fatalf("Extract(%q): got %+v", tc.text, got)
		}
	}
}
