// Package nlu implements the text-understanding pipeline: intent
// classification, currency detection, time-period parsing, and conversion
// entity extraction.
package nlu

import (
	"strings"
	"unicode"

	"github.com/forexbot-ai/forexbot/internal/lexicon"
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// rule binds an intent to the keyword set that triggers it.
type rule struct {
	intent   models.Intent
	keywords []string
}

// rules are evaluated in order; the first set with a matching substring wins.
// Compare outranks history because "hace N semanas" doubles as period syntax
// inside a comparison; history outranks prediction, and so on down to
// conversion, which also acts as the default.
var rules = []rule{
	{models.IntentCompare, []string{
		"compara", "comparar", "comparación", "comparacion", "diferencia", "versus", "vs", "cambio entre",
	}},
	{models.IntentHistory, []string{
		"hace", "anterior", "pasado", "antes", "historia", "histórico", "historico", "atrás", "atras",
	}},
	{models.IntentPrediction, []string{
		"predicción", "prediccion", "predecir", "futuro", "prever", "pronóstico", "pronostico", "estimación", "estimacion",
	}},
	{models.IntentGraph, []string{
		"gráfico", "grafico", "gráfica", "grafica", "chart", "tendencia", "histórico", "historico",
	}},
	{models.IntentCurrencies, []string{
		"monedas disponibles", "divisas disponibles", "qué monedas", "que monedas", "lista de monedas", "available currencies",
	}},
	{models.IntentConversion, []string{
		"convertir", "cambiar", "conversion", "conversión", "equivale", "valor", "cuánto", "cuanto", "a dólares", "a euros",
	}},
}

// Classify assigns an intent to the input text. matched reports whether a
// keyword rule or the digit+currency heuristic fired; when false the returned
// intent is the conversion default and the caller may treat the input as
// unrecognized.
func Classify(text string) (intent models.Intent, matched bool) {
	lower := strings.ToLower(text)

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.intent, true
			}
		}
	}

	// A number next to a currency name is almost certainly a conversion.
	if containsDigit(lower) && containsCurrencyName(lower) {
		return models.IntentConversion, true
	}

	return models.IntentConversion, false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsCurrencyName(lower string) bool {
	for _, a := range lexicon.Aliases() {
		if strings.Contains(lower, a.Name) {
			return true
		}
	}
	return false
}
