//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
	"github.com/Gitisfun/price-tracker-api/internal/fingerprint"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_products.up.sql"),
			filepath.Join(migrationsPath, "002_create_price_samples.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM price_samples")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM products")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) createProduct(url string) *domain.Product {
	product := &domain.Product{
		ID:    fingerprint.Sum(url),
		Title: "Test Product",
		Name:  "test-product",
		URL:   url,
	}
	err := NewProductStore(s.db).Create(s.ctx, product)
	s.Require().NoError(err)
	return product
}

func (s *PostgresIntegrationSuite) TestProductStore_CreateAndGet() {
	store := NewProductStore(s.db)
	product := s.createProduct("https://shop.example/a")

	s.False(product.CreatedAt.IsZero())
	s.False(product.UpdatedAt.IsZero())

	byID, err := store.GetByID(s.ctx, product.ID)
	s.NoError(err)
	s.Require().NotNil(byID)
	s.Equal(product.URL, byID.URL)

	byURL, err := store.GetByURL(s.ctx, "https://shop.example/a")
	s.NoError(err)
	s.Require().NotNil(byURL)
	s.Equal(product.ID, byURL.ID)
}

func (s *PostgresIntegrationSuite) TestProductStore_GetMissingReturnsNil() {
	store := NewProductStore(s.db)

	product, err := store.GetByID(s.ctx, "missing")
	s.NoError(err)
	s.Nil(product)

	product, err = store.GetByURL(s.ctx, "https://shop.example/missing")
	s.NoError(err)
	s.Nil(product)
}

func (s *PostgresIntegrationSuite) TestProductStore_ListActiveExcludesDeleted() {
	store := NewProductStore(s.db)

	a := s.createProduct("https://shop.example/a")
	s.createProduct("https://shop.example/b")

	err := store.SoftDelete(s.ctx, a.ID)
	s.NoError(err)

	products, err := store.ListActive(s.ctx)
	s.NoError(err)
	s.Require().Len(products, 1)
	s.Equal("https://shop.example/b", products[0].URL)

	// Soft-deleted products are invisible to point lookups too.
	got, err := store.GetByID(s.ctx, a.ID)
	s.NoError(err)
	s.Nil(got)
}

func (s *PostgresIntegrationSuite) TestProductStore_SoftDeleteTwice() {
	store := NewProductStore(s.db)
	product := s.createProduct("https://shop.example/a")

	s.NoError(store.SoftDelete(s.ctx, product.ID))
	s.ErrorIs(store.SoftDelete(s.ctx, product.ID), sql.ErrNoRows)
}

func (s *PostgresIntegrationSuite) TestPriceStore_ListByDay() {
	store := NewPriceStore(s.db)
	product := s.createProduct("https://shop.example/a")

	morning := time.Date(2026, 2, 1, 8, 15, 0, 0, time.UTC)
	evening := time.Date(2026, 2, 1, 21, 45, 0, 0, time.UTC)
	nextDay := time.Date(2026, 2, 2, 0, 0, 1, 0, time.UTC)

	for _, date := range []time.Time{morning, evening, nextDay} {
		sample := &domain.PriceSample{
			ProductID: product.ID,
			Price:     decimal.NewNullDecimal(decimal.RequireFromString("38.90")),
			Currency:  "EUR",
			Date:      date,
		}
		s.Require().NoError(store.Create(s.ctx, sample))
		s.Greater(sample.ID, int64(0))
	}

	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	samples, err := store.ListByDay(s.ctx, day)
	s.NoError(err)
	s.Len(samples, 2)
}

func (s *PostgresIntegrationSuite) TestPriceStore_ListByDay_MatchesNonMidnightTimestamps() {
	// The dedup lookup is keyed on the calendar day, so a sample stamped at
	// any time of day is found by a midnight day key.
	store := NewPriceStore(s.db)
	product := s.createProduct("https://shop.example/a")

	sample := &domain.PriceSample{
		ProductID: product.ID,
		Price:     decimal.NewNullDecimal(decimal.RequireFromString("12.50")),
		Currency:  "EUR",
		Date:      time.Date(2026, 2, 1, 13, 37, 42, 0, time.UTC),
	}
	s.Require().NoError(store.Create(s.ctx, sample))

	samples, err := store.ListByDay(s.ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	s.NoError(err)
	s.Require().Len(samples, 1)
	s.Equal(product.ID, samples[0].ProductID)
}

func (s *PostgresIntegrationSuite) TestPriceStore_ListByProduct_MostRecentFirst() {
	store := NewPriceStore(s.db)
	product := s.createProduct("https://shop.example/a")

	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	prices := []string{"20.00", "25.00", "22.50"}
	for i, p := range prices {
		sample := &domain.PriceSample{
			ProductID: product.ID,
			Price:     decimal.NewNullDecimal(decimal.RequireFromString(p)),
			Currency:  "EUR",
			Date:      base.AddDate(0, 0, i),
		}
		s.Require().NoError(store.Create(s.ctx, sample))
	}

	samples, err := store.ListByProduct(s.ctx, product.ID)
	s.NoError(err)
	s.Require().Len(samples, 3)
	s.True(samples[0].Price.Decimal.Equal(decimal.RequireFromString("22.50")))
	s.True(samples[1].Price.Decimal.Equal(decimal.RequireFromString("25.00")))
	s.True(samples[2].Price.Decimal.Equal(decimal.RequireFromString("20.00")))
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	productStore := NewProductStore(s.db)
	priceStore := NewPriceStore(s.db)

	url := "https://shop.example/tx"
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		product := &domain.Product{
			ID:    fingerprint.Sum(url),
			Title: "Tx Product",
			Name:  "tx-product",
			URL:   url,
		}
		if err := productStore.Create(ctx, product); err != nil {
			return err
		}
		sample := &domain.PriceSample{
			ProductID: product.ID,
			Price:     decimal.NewNullDecimal(decimal.RequireFromString("38.90")),
			Currency:  "EUR",
			Date:      time.Now().UTC(),
		}
		return priceStore.Create(ctx, sample)
	})
	s.NoError(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM price_samples")
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransaction_RollbackLeavesNothing() {
	tm := NewTransactionManager(s.db)
	productStore := NewProductStore(s.db)

	url := "https://shop.example/rollback"
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		product := &domain.Product{
			ID:    fingerprint.Sum(url),
			Title: "Rollback Product",
			Name:  "rollback-product",
			URL:   url,
		}
		if err := productStore.Create(ctx, product); err != nil {
			return err
		}
		return context.Canceled
	})
	s.Error(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM products")
	s.NoError(err)
	s.Equal(0, count)
}
