package analytics

import (
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// HistoricalChange reports how a pair moved between a past observation and
// the current quote.
func HistoricalChange(base, target string, rec models.HistoryRecord, current models.Quote, period models.TimePeriod) *models.HistoryResult {
	change := current.MidPrice - rec.MidPrice
	return &models.HistoryResult{
		Intent:           models.IntentHistory,
		BaseCurrency:     base,
		TargetCurrency:   target,
		HistoricalDate:   rec.Timestamp.Format("2006-01-02"),
		HistoricalRate:   rec.MidPrice,
		CurrentRate:      current.MidPrice,
		ChangeValue:      change,
		ChangePercentage: change / rec.MidPrice * 100,
		TimeDescription:  period.Describe(),
	}
}

// CompareRecords compares observations from two past periods. The change is
// measured from period1 to period2.
func CompareRecords(base, target string, rec1 models.HistoryRecord, period1 models.TimePeriod, rec2 models.HistoryRecord, period2 models.TimePeriod) *models.CompareResult {
	change := rec2.MidPrice - rec1.MidPrice
	p2 := periodRate(rec2, period2)
	return &models.CompareResult{
		Intent:           models.IntentCompare,
		BaseCurrency:     base,
		TargetCurrency:   target,
		Period1:          periodRate(rec1, period1),
		Period2:          &p2,
		ChangeValue:      change,
		ChangePercentage: change / rec1.MidPrice * 100,
	}
}

// CompareWithCurrent compares a past observation against the current quote.
func CompareWithCurrent(base, target string, rec models.HistoryRecord, period models.TimePeriod, current models.Quote) *models.CompareResult {
	change := current.MidPrice - rec.MidPrice
	return &models.CompareResult{
		Intent:         models.IntentCompare,
		BaseCurrency:   base,
		TargetCurrency: target,
		Period1:        periodRate(rec, period),
		CurrentPeriod: &models.PeriodRate{
			Description: "Actual",
			Date:        current.Timestamp,
			Rate:        current.MidPrice,
		},
		ChangeValue:      change,
		ChangePercentage: change / rec.MidPrice * 100,
	}
}

func periodRate(rec models.HistoryRecord, period models.TimePeriod) models.PeriodRate {
	return models.PeriodRate{
		Description: "Hace " + period.Describe(),
		Date:        rec.Timestamp.Format("2006-01-02"),
		Rate:        rec.MidPrice,
	}
}
