package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
)

type ProductStore interface {
	ListActive(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByURL(ctx context.Context, url string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	SoftDelete(ctx context.Context, id string) error
}

type PriceStore interface {
	ListByDay(ctx context.Context, day time.Time) ([]domain.PriceSample, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.PriceSample, error)
	Create(ctx context.Context, sample *domain.PriceSample) error
}

// Extractor derives a price/title result from a product page. It is total:
// failures surface as nil fields on the result, never as an error.
type Extractor interface {
	Extract(ctx context.Context, url string) domain.ExtractionResult
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, event *domain.TrackEvent) error
	Close() error
}
