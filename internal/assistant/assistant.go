// Package assistant answers one conversation turn: classify the request,
// resolve currencies and periods, fetch or derive the forex data, and return
// a tagged result.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/forexbot-ai/forexbot/internal/analytics"
	"github.com/forexbot-ai/forexbot/internal/history"
	"github.com/forexbot-ai/forexbot/internal/lexicon"
	"github.com/forexbot-ai/forexbot/internal/nlu"
	"github.com/forexbot-ai/forexbot/internal/store"
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// ErrEmptyInput is returned when the user text is blank.
var ErrEmptyInput = errors.New("assistant: empty input")

// UnknownMessage is the reply for inputs that name no forex operation.
const UnknownMessage = "Lo siento, no puedo procesar esa solicitud. Soy un asistente especializado en divisas. Puedes preguntarme sobre conversiones, gráficos, predicciones, datos históricos o comparaciones de monedas."

// QuoteProvider serves the current exchange rate for a pair.
type QuoteProvider interface {
	ExchangeRate(ctx context.Context, base, target string) (models.Quote, error)
}

// Assistant wires the understanding pipeline to the data layers.
type Assistant struct {
	extractor *nlu.Extractor
	quotes    QuoteProvider
	store     store.Store
	history   *history.Resolver
	now       func() time.Time
}

// New creates an assistant. The store may be nil when persistence is
// disabled; quotes then go unrecorded.
func New(extractor *nlu.Extractor, quotes QuoteProvider, st store.Store, resolver *history.Resolver) *Assistant {
	return &Assistant{
		extractor: extractor,
		quotes:    quotes,
		store:     st,
		history:   resolver,
		now:       time.Now,
	}
}

// Respond processes one user query and returns a tagged result.
func (a *Assistant) Respond(ctx context.Context, text string) (models.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	intent, matched := nlu.Classify(text)
	log.Printf("assistant: intent %q for input %q", intent, text)

	// A query with no matched keyword, no number and no currency mention is
	// not a forex request at all.
	if !matched && !containsDigit(text) && len(nlu.DetectCurrencies(text)) == 0 {
		return &models.UnknownResult{Intent: models.IntentUnknown, Message: UnknownMessage}, nil
	}

	switch intent {
	case models.IntentConversion:
		return a.convert(ctx, text)
	case models.IntentGraph:
		return a.graph(ctx, text)
	case models.IntentPrediction:
		return a.predict(ctx, text)
	case models.IntentHistory:
		return a.historical(ctx, text)
	case models.IntentCompare:
		return a.compare(ctx, text)
	case models.IntentCurrencies:
		return &models.CurrencyListResult{Intent: models.IntentCurrencies, Currencies: lexicon.Codes()}, nil
	default:
		return &models.UnknownResult{Intent: models.IntentUnknown, Message: UnknownMessage}, nil
	}
}

func (a *Assistant) convert(ctx context.Context, text string) (models.Result, error) {
	ents := a.extractor.Extract(ctx, text)

	quote, err := a.fetchQuote(ctx, ents.SourceCurrency, ents.TargetCurrency)
	if err != nil {
		return nil, err
	}

	return &models.ConversionResult{
		Intent:          models.IntentConversion,
		Amount:          ents.Amount,
		FromCurrency:    ents.SourceCurrency,
		ToCurrency:      ents.TargetCurrency,
		ConvertedAmount: ents.Amount * quote.MidPrice,
		ExchangeRate:    quote.MidPrice,
		BidPrice:        quote.BidPrice,
		AskPrice:        quote.AskPrice,
		Timestamp:       quote.Timestamp,
	}, nil
}

func (a *Assistant) graph(ctx context.Context, text string) (models.Result, error) {
	base, target := pairFromText(text)
	period := nlu.ParsePeriod(text)

	series, err := a.history.Resolve(ctx, base, target, period.Days())
	if err != nil {
		return nil, err
	}

	return &models.GraphResult{
		Intent:          models.IntentGraph,
		BaseCurrency:    base,
		TargetCurrency:  target,
		Period:          period,
		Dates:           series.Dates,
		Rates:           series.Rates,
		TimeDescription: period.Describe(),
	}, nil
}

func (a *Assistant) predict(ctx context.Context, text string) (models.Result, error) {
	base, target := pairFromText(text)
	period := nlu.ParsePeriod(text)

	series, err := a.history.Resolve(ctx, base, target, analytics.TrainingDays)
	if err != nil {
		return nil, err
	}

	return analytics.Predict(base, target, series, period)
}

func (a *Assistant) historical(ctx context.Context, text string) (models.Result, error) {
	base, target := pairFromText(text)
	period := nlu.ParsePeriod(text)

	rec, err := a.history.RateAt(base, target, a.now().AddDate(0, 0, -period.Days()))
	if err != nil {
		return nil, err
	}

	quote, err := a.fetchQuote(ctx, base, target)
	if err != nil {
		return nil, err
	}

	return analytics.HistoricalChange(base, target, rec, quote, period), nil
}

func (a *Assistant) compare(ctx context.Context, text string) (models.Result, error) {
	base, target := pairFromText(text)
	period1 := nlu.ParsePeriod(text)

	rec1, err := a.history.RateAt(base, target, a.now().AddDate(0, 0, -period1.Days()))
	if err != nil {
		return nil, err
	}

	if period2, ok := nlu.ParseSecondPeriod(text); ok {
		rec2, err := a.history.RateAt(base, target, a.now().AddDate(0, 0, -period2.Days()))
		if err != nil {
			return nil, err
		}
		return analytics.CompareRecords(base, target, rec1, period1, rec2, period2), nil
	}

	quote, err := a.fetchQuote(ctx, base, target)
	if err != nil {
		return nil, err
	}
	return analytics.CompareWithCurrent(base, target, rec1, period1, quote), nil
}

// fetchQuote gets the current quote and records it as a history observation.
// Recording failures are logged, not surfaced; the quote itself is the answer.
func (a *Assistant) fetchQuote(ctx context.Context, base, target string) (models.Quote, error) {
	quote, err := a.quotes.ExchangeRate(ctx, base, target)
	if err != nil {
		return models.Quote{}, fmt.Errorf("assistant: quote %s/%s: %w", base, target, err)
	}

	if a.store != nil {
		if _, err := a.store.RecordIfChanged(base, target, quote); err != nil {
			log.Printf("assistant: recording quote %s/%s failed: %v", base, target, err)
		}
	}
	return quote, nil
}

// pairFromText resolves the pair named in the text, defaulting missing sides.
func pairFromText(text string) (base, target string) {
	currencies := nlu.DetectCurrencies(text)
	switch {
	case len(currencies) >= 2:
		return currencies[0], currencies[1]
	case len(currencies) == 1:
		return currencies[0], "USD"
	default:
		return "USD", "EUR"
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
