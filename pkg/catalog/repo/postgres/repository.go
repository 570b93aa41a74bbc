// Package postgres provides a PostgreSQL implementation of the
// catalog.Repository interface using pgx. See schema.sql for the
// expected tables.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thegoodstr/storefront/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database
// connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *Repository) CreateProduct(ctx context.Context, product *catalog.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, image_key, asset_keys, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.ImageKey, product.AssetKeys, product.CreatedAt)

	if err != nil {
		return handlePostgresError("create product", err)
	}

	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	query := `
		SELECT id, name, description, price, image_key, asset_keys, created_at
		FROM products WHERE id = $1`

	var product catalog.Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price,
		&product.ImageKey, &product.AssetKeys, &product.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, handlePostgresError("get product", err)
	}

	return &product, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	query := `
		SELECT id, name, description, price, image_key, asset_keys, created_at
		FROM products ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list products", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		var product catalog.Product
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description, &product.Price,
			&product.ImageKey, &product.AssetKeys, &product.CreatedAt); err != nil {
			return nil, handlePostgresError("scan product", err)
		}
		products = append(products, &product)
	}

	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list products", err)
	}

	return products, nil
}

func (r *Repository) CreateSubscription(ctx context.Context, sub *catalog.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, email, created_at)
		VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, sub.ID, sub.Email, sub.CreatedAt)
	if err != nil {
		return handlePostgresError("create subscription", err)
	}

	return nil
}
