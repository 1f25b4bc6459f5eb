package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Gitisfun/price-tracker-api/internal/analyzer"
	"github.com/Gitisfun/price-tracker-api/internal/domain"
)

var (
	ErrProductExists   = errors.New("product already exists")
	ErrProductNotFound = errors.New("product not found")
)

// ProductService backs the HTTP layer: product lifecycle plus the derived
// price report.
type ProductService struct {
	products  ProductStore
	prices    PriceStore
	extractor Extractor
	txManager TransactionManager
	logger    *slog.Logger
	currency  string
}

func NewProductService(
	products ProductStore,
	prices PriceStore,
	extractor Extractor,
	txManager TransactionManager,
	logger *slog.Logger,
	currency string,
) *ProductService {
	return &ProductService{
		products:  products,
		prices:    prices,
		extractor: extractor,
		txManager: txManager,
		logger:    logger.With("component", "products"),
		currency:  currency,
	}
}

// Create registers a product for tracking. The id is the fingerprint of the
// URL. One extraction runs immediately; when it yields a price, the product
// and its first sample are written in a single transaction.
func (s *ProductService) Create(ctx context.Context, name, url string) (*domain.Product, error) {
	existing, err := s.products.GetByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("get product by url: %w", err)
	}
	if existing != nil {
		return nil, ErrProductExists
	}

	result := s.extractor.Extract(ctx, url)

	product := &domain.Product{
		ID:    result.ID,
		Name:  name,
		Title: name,
		URL:   url,
	}
	if result.Title != nil {
		product.Title = *result.Title
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.products.Create(txCtx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		if result.Price == nil {
			return nil
		}

		sample := domain.PriceSample{
			ProductID: product.ID,
			Price:     decimal.NewNullDecimal(*result.Price),
			Currency:  s.currency,
			Date:      result.Date,
		}
		if err := s.prices.Create(txCtx, &sample); err != nil {
			return fmt.Errorf("create first sample: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		"product_id", product.ID,
		"url", url,
		"priced", result.Price != nil,
	)

	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListActive(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Report derives latest/previous/rate-of-change from the product's stored
// price history.
func (s *ProductService) Report(ctx context.Context, id string) (*domain.PriceReport, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	samples, err := s.prices.ListByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}

	report := analyzer.Analyze(samples)
	return &report, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.products.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}

	s.logger.Info("product deleted", "product_id", id)
	return nil
}
