package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tracking event statuses.
const (
	EventTracked          = "tracked"
	EventExtractionFailed = "extraction_failed"
	EventPersistFailed    = "persist_failed"
)

// TrackEvent reports the outcome of one product within a tracking run.
type TrackEvent struct {
	ProductID string           `json:"product_id"`
	URL       string           `json:"url"`
	Status    string           `json:"status"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Currency  string           `json:"currency,omitempty"`
	Date      time.Time        `json:"date"`
}

// TrackStats holds statistics about one tracking run.
type TrackStats struct {
	Active         int
	AlreadyTracked int
	Tracked        int
	NoPrice        int
	Errors         int
	Published      int
	Duration       time.Duration
}
