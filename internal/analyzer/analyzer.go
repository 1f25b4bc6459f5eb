// Package analyzer derives latest/previous/rate-of-change fields from a
// product's price history.
package analyzer

import (
	"github.com/shopspring/decimal"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Analyze derives a PriceReport from a most-recent-first sample series.
// It is a pure function: no I/O, no failure mode beyond nil propagation.
// RateOfChange is nil unless both samples exist, previous has a price, and
// that price is non-zero (division by zero is never attempted).
func Analyze(samples []domain.PriceSample) domain.PriceReport {
	var report domain.PriceReport

	if len(samples) > 0 {
		report.Latest = &samples[0]
	}
	if len(samples) > 1 {
		report.Previous = &samples[1]
	}

	if report.Latest == nil || report.Previous == nil {
		return report
	}
	if !report.Latest.Price.Valid || !report.Previous.Price.Valid {
		return report
	}
	if report.Previous.Price.Decimal.IsZero() {
		return report
	}

	rate := report.Latest.Price.Decimal.
		Sub(report.Previous.Price.Decimal).
		Div(report.Previous.Price.Decimal).
		Mul(hundred).
		Round(2)
	report.RateOfChange = &rate

	return report
}
