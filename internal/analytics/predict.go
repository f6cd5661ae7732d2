// Package analytics derives answers from resolved rate data: linear trend
// predictions, point-in-time changes and period comparisons. Everything here
// is a pure function; fetching and caching happen upstream.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/forexbot-ai/forexbot/pkg/models"
)

// TrainingDays caps how many trailing points feed the trend fit.
const TrainingDays = 30

// ErrInsufficientData is returned when a series has no points to work with.
var ErrInsufficientData = errors.New("analytics: not enough data points")

// Predict fits a straight line to the series tail and extrapolates it over
// the period. Trend direction is "al alza" only for a strictly positive
// percentage change; a flat series predicts "a la baja".
func Predict(base, target string, series models.RateSeries, period models.TimePeriod) (*models.PredictionResult, error) {
	if len(series.Rates) == 0 || len(series.Dates) != len(series.Rates) {
		return nil, ErrInsufficientData
	}

	dates, rates := series.Dates, series.Rates
	if len(rates) > TrainingDays {
		dates = dates[len(dates)-TrainingDays:]
		rates = rates[len(rates)-TrainingDays:]
	}

	slope, intercept := linearFit(rates)

	lastDate, err := time.Parse("2006-01-02", dates[len(dates)-1])
	if err != nil {
		return nil, fmt.Errorf("analytics: bad series date %q: %w", dates[len(dates)-1], err)
	}

	predictionDays := period.Days()
	predicted := make([]models.PredictedPoint, 0, predictionDays)
	for i := 0; i < predictionDays; i++ {
		x := float64(len(rates) + i)
		predicted = append(predicted, models.PredictedPoint{
			Date: lastDate.AddDate(0, 0, i+1).Format("2006-01-02"),
			Rate: slope*x + intercept,
		})
	}

	current := rates[len(rates)-1]
	future := predicted[len(predicted)-1].Rate
	trendPct := round2((future - current) / current * 100)

	direction := "a la baja"
	if trendPct > 0 {
		direction = "al alza"
	}

	return &models.PredictionResult{
		Intent:          models.IntentPrediction,
		BaseCurrency:    base,
		TargetCurrency:  target,
		CurrentRate:     current,
		PredictedRates:  predicted,
		TrendPercentage: trendPct,
		TrendDirection:  direction,
		TimeDescription: period.Describe(),
	}, nil
}

// linearFit returns the least-squares line through (i, y[i]).
func linearFit(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
