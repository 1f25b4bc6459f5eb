package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtractionResult is the outcome of one extraction attempt. ID and Date are
// always populated; Price and Title are nil on any failure path. It is never
// persisted.
type ExtractionResult struct {
	ID    string
	URL   string
	Price *decimal.Decimal
	Title *string
	Date  time.Time
}
