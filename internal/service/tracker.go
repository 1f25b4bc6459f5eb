package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Gitisfun/price-tracker-api/internal/config"
	"github.com/Gitisfun/price-tracker-api/internal/domain"
)

// ErrRunInProgress is returned when Track is invoked while a previous run is
// still in flight. The overlapping run is skipped, not queued.
var ErrRunInProgress = errors.New("tracking run already in progress")

// TrackingService advances the daily price history: once per run it decides
// which active products still need a sample for the current UTC day and
// extracts a price for each of them, one at a time.
type TrackingService struct {
	extractor Extractor
	products  ProductStore
	prices    PriceStore
	publisher Publisher
	logger    *slog.Logger
	config    config.TrackingConfig

	runMu sync.Mutex
}

func NewTrackingService(
	extractor Extractor,
	products ProductStore,
	prices PriceStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.TrackingConfig,
) *TrackingService {
	return &TrackingService{
		extractor: extractor,
		products:  products,
		prices:    prices,
		publisher: publisher,
		logger:    logger.With("component", "tracker"),
		config:    cfg,
	}
}

// Day returns the canonical UTC calendar day for t. The dedup lookup and the
// stored sample dates are both keyed on this form.
func Day(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Track performs one tracking run. Listing products or existing samples
// failing aborts the run; any single product failing is reported and the
// loop continues.
func (s *TrackingService) Track(ctx context.Context) (*domain.TrackStats, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	startTime := time.Now()
	day := Day(startTime)

	s.logger.Info("starting tracking run", "day", day.Format(time.DateOnly))

	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	samples, err := s.prices.ListByDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list prices for day: %w", err)
	}

	tracked := make(map[string]struct{}, len(samples))
	for _, sample := range samples {
		tracked[sample.ProductID] = struct{}{}
	}

	stats := &domain.TrackStats{Active: len(products)}

	for i := range products {
		product := &products[i]
		if _, ok := tracked[product.ID]; ok {
			stats.AlreadyTracked++
			continue
		}
		s.trackProduct(ctx, product, stats)
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("tracking run completed",
		"active", stats.Active,
		"already_tracked", stats.AlreadyTracked,
		"tracked", stats.Tracked,
		"no_price", stats.NoPrice,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *TrackingService) trackProduct(ctx context.Context, product *domain.Product, stats *domain.TrackStats) {
	result := s.extractor.Extract(ctx, product.URL)

	if result.Price == nil {
		stats.NoPrice++
		s.logger.Warn("no price extracted", "product_id", product.ID, "url", product.URL)
		s.publish(ctx, product, domain.EventExtractionFailed, nil, result.Date, stats)
		return
	}

	sample := domain.PriceSample{
		ProductID: product.ID,
		Price:     decimal.NewNullDecimal(*result.Price),
		Currency:  s.config.Currency,
		Date:      result.Date,
	}

	if err := s.prices.Create(ctx, &sample); err != nil {
		stats.Errors++
		s.logger.Error("persist sample failed", "product_id", product.ID, "error", err)
		s.publish(ctx, product, domain.EventPersistFailed, result.Price, result.Date, stats)
		return
	}

	stats.Tracked++
	s.logger.Debug("sample persisted",
		"product_id", product.ID,
		"price", result.Price,
		"currency", sample.Currency,
	)
	s.publish(ctx, product, domain.EventTracked, result.Price, result.Date, stats)
}

func (s *TrackingService) publish(
	ctx context.Context,
	product *domain.Product,
	status string,
	price *decimal.Decimal,
	date time.Time,
	stats *domain.TrackStats,
) {
	if s.publisher == nil {
		return
	}

	event := &domain.TrackEvent{
		ProductID: product.ID,
		URL:       product.URL,
		Status:    status,
		Price:     price,
		Date:      date,
	}
	if price != nil {
		event.Currency = s.config.Currency
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		stats.Errors++
		s.logger.Error("publish event failed", "product_id", product.ID, "error", err)
		return
	}
	stats.Published++
}
