package models

// ConversionEntities is the structured object the entity extractor produces
// for a conversion request. Field names double as the JSON contract with the
// LLM extractor.
type ConversionEntities struct {
	Amount         float64 `json:"amount"`
	SourceCurrency string  `json:"source_currency"`
	TargetCurrency string  `json:"target_currency"`
}
