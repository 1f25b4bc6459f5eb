package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Gitisfun/price-tracker-api/internal/domain"
)

type ProductStore struct {
	db *sqlx.DB
}

func NewProductStore(db *sqlx.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ListActive returns all products that have not been soft-deleted, in
// creation order.
func (s *ProductStore) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, title, name, url, created_at, updated_at, deleted_at
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at, id`

	var products []domain.Product
	err := s.db.SelectContext(ctx, &products, query)
	return products, err
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, title, name, url, created_at, updated_at, deleted_at
		FROM products
		WHERE id = $1 AND deleted_at IS NULL`

	var product domain.Product
	err := s.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) GetByURL(ctx context.Context, url string) (*domain.Product, error) {
	query := `
		SELECT id, title, name, url, created_at, updated_at, deleted_at
		FROM products
		WHERE url = $1 AND deleted_at IS NULL`

	var product domain.Product
	err := s.db.GetContext(ctx, &product, query, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, title, name, url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	exec := GetExecutor(ctx, s.db)
	return exec.QueryRowxContext(ctx, query,
		product.ID,
		product.Title,
		product.Name,
		product.URL,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

// SoftDelete marks a product as deleted. It returns sql.ErrNoRows when the
// product does not exist or is already deleted.
func (s *ProductStore) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE products
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := s.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
