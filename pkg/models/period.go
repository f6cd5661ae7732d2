package models

import "fmt"

// PeriodUnit is the unit of a parsed time period.
type PeriodUnit string

const (
	PeriodDays   PeriodUnit = "days"
	PeriodWeeks  PeriodUnit = "weeks"
	PeriodMonths PeriodUnit = "months"
)

// TimePeriod is a (unit, count) time window extracted from user text.
// Weeks and months use fixed multipliers (7 and 30 days), not calendar math.
type TimePeriod struct {
	Unit  PeriodUnit `json:"unit"`
	Count int        `json:"count"`
}

// DefaultPeriod is used when no period is mentioned in the text.
var DefaultPeriod = TimePeriod{Unit: PeriodDays, Count: 7}

// Days converts the period to a day count.
func (p TimePeriod) Days() int {
	switch p.Unit {
	case PeriodWeeks:
		return p.Count * 7
	case PeriodMonths:
		return p.Count * 30
	default:
		return p.Count
	}
}

// Describe renders the period the way answers phrase it, e.g. "3 semana(s)".
func (p TimePeriod) Describe() string {
	switch p.Unit {
	case PeriodWeeks:
		return fmt.Sprintf("%d semana(s)", p.Count)
	case PeriodMonths:
		return fmt.Sprintf("%d mes(es)", p.Count)
	default:
		return fmt.Sprintf("%d día(s)", p.Count)
	}
}
