package models

// Intent labels the operation a user query asks for.
type Intent string

const (
	IntentConversion Intent = "conversion"
	IntentGraph      Intent = "graph"
	IntentPrediction Intent = "prediction"
	IntentHistory    Intent = "history"
	IntentCompare    Intent = "compare"
	IntentCurrencies Intent = "currencies"
	IntentUnknown    Intent = "unknown"
)

// Result is the tagged answer produced for one conversation turn.
// Exactly one concrete type implements each intent.
type Result interface {
	// Kind returns the intent this result answers.
	Kind() Intent
}

// ConversionResult answers a currency conversion request.
type ConversionResult struct {
	Intent          Intent  `json:"intent"`
	Amount          float64 `json:"amount"`
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	ConvertedAmount float64 `json:"converted_amount"`
	ExchangeRate    float64 `json:"exchange_rate"`
	BidPrice        float64 `json:"bid_price"`
	AskPrice        float64 `json:"ask_price"`
	Timestamp       string  `json:"timestamp"`
}

func (r *ConversionResult) Kind() Intent { return IntentConversion }

// GraphResult carries the resolved series for a rate graph request.
// Rendering is left to the caller.
type GraphResult struct {
	Intent          Intent     `json:"intent"`
	BaseCurrency    string     `json:"base_currency"`
	TargetCurrency  string     `json:"target_currency"`
	Period          TimePeriod `json:"period"`
	Dates           []string   `json:"dates"`
	Rates           []float64  `json:"rates"`
	TimeDescription string     `json:"time_description"`
}

func (r *GraphResult) Kind() Intent { return IntentGraph }

// PredictedPoint is one extrapolated rate on a future date.
type PredictedPoint struct {
	Date string  `json:"date"` // YYYY-MM-DD
	Rate float64 `json:"rate"`
}

// PredictionResult answers a rate prediction request.
type PredictionResult struct {
	Intent          Intent           `json:"intent"`
	BaseCurrency    string           `json:"base_currency"`
	TargetCurrency  string           `json:"target_currency"`
	CurrentRate     float64          `json:"current_rate"`
	PredictedRates  []PredictedPoint `json:"predicted_rates"`
	TrendPercentage float64          `json:"trend_percentage"`
	TrendDirection  string           `json:"trend_direction"` // "al alza" or "a la baja"
	TimeDescription string           `json:"time_description"`
}

func (r *PredictionResult) Kind() Intent { return IntentPrediction }

// HistoryResult answers a point-in-time historical lookup.
type HistoryResult struct {
	Intent           Intent  `json:"intent"`
	BaseCurrency     string  `json:"base_currency"`
	TargetCurrency   string  `json:"target_currency"`
	HistoricalDate   string  `json:"historical_date"`
	HistoricalRate   float64 `json:"historical_rate"`
	CurrentRate      float64 `json:"current_rate"`
	ChangeValue      float64 `json:"change_value"`
	ChangePercentage float64 `json:"change_percentage"`
	TimeDescription  string  `json:"time_description"`
}

func (r *HistoryResult) Kind() Intent { return IntentHistory }

// PeriodRate is one side of a period comparison.
type PeriodRate struct {
	Description string  `json:"description"` // e.g. "Hace 1 semana(s)" or "Actual"
	Date        string  `json:"date"`
	Rate        float64 `json:"rate"`
}

// CompareResult answers a period comparison request. Period2 is nil when the
// first period was compared against the current quote; CurrentPeriod holds
// that quote instead.
type CompareResult struct {
	Intent           Intent      `json:"intent"`
	BaseCurrency     string      `json:"base_currency"`
	TargetCurrency   string      `json:"target_currency"`
	Period1          PeriodRate  `json:"period1"`
	Period2          *PeriodRate `json:"period2,omitempty"`
	CurrentPeriod    *PeriodRate `json:"current_period,omitempty"`
	ChangeValue      float64     `json:"change_value"`
	ChangePercentage float64     `json:"change_percentage"`
}

func (r *CompareResult) Kind() Intent { return IntentCompare }

// CurrencyListResult lists the distinct currency codes the lexicon knows.
type CurrencyListResult struct {
	Intent     Intent   `json:"intent"`
	Currencies []string `json:"currencies"`
}

func (r *CurrencyListResult) Kind() Intent { return IntentCurrencies }

// UnknownResult is returned for inputs the assistant cannot map to a forex
// operation.
type UnknownResult struct {
	Intent  Intent `json:"intent"`
	Message string `json:"message"`
}

func (r *UnknownResult) Kind() Intent { return IntentUnknown }
