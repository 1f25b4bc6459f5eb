package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
)

type PriceStore struct {
	db *sqlx.DB
}

func NewPriceStore(db *sqlx.DB) *PriceStore {
	return &PriceStore{db: db}
}

// ListByDay returns all samples whose date falls on the given UTC calendar
// day. The lookup and the tracking job's dedup filter share this day key, so
// stored timestamps never need to match a lookup timestamp exactly.
func (s *PriceStore) ListByDay(ctx context.Context, day time.Time) ([]domain.PriceSample, error) {
	query := `
		SELECT id, product_id, price, currency, date, created_at, deleted_at
		FROM price_samples
		WHERE deleted_at IS NULL
		  AND (date AT TIME ZONE 'UTC')::date = $1::date
		ORDER BY date`

	var samples []domain.PriceSample
	err := s.db.SelectContext(ctx, &samples, query, day.UTC())
	return samples, err
}

// ListByProduct returns a product's samples most-recent-first, the ordering
// the analyzer expects.
func (s *PriceStore) ListByProduct(ctx context.Context, productID string) ([]domain.PriceSample, error) {
	query := `
		SELECT id, product_id, price, currency, date, created_at, deleted_at
		FROM price_samples
		WHERE product_id = $1 AND deleted_at IS NULL
		ORDER BY date DESC, id DESC`

	var samples []domain.PriceSample
	err := s.db.SelectContext(ctx, &samples, query, productID)
	return samples, err
}

func (s *PriceStore) Create(ctx context.Context, sample *domain.PriceSample) error {
	query := `
		INSERT INTO price_samples (product_id, price, currency, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	exec := GetExecutor(ctx, s.db)
	return exec.QueryRowxContext(ctx, query,
		sample.ProductID,
		sample.Price,
		sample.Currency,
		sample.Date,
	).Scan(&sample.ID, &sample.CreatedAt)
}
