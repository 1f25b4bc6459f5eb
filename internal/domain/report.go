package domain

import "github.com/shopspring/decimal"

// PriceReport holds the fields derived from a product's price history.
// Latest and Previous are the two most recent samples; RateOfChange is the
// percentage delta between them, nil when either side is unavailable.
type PriceReport struct {
	Latest       *PriceSample     `json:"latest"`
	Previous     *PriceSample     `json:"previous"`
	RateOfChange *decimal.Decimal `json:"rate_of_change"`
}
