package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteReader reads the products table of a sqlite catalog database.
type SQLiteReader struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteReader(dbPath string, logger *zap.Logger) (*SQLiteReader, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteReader{db: db, logger: logger}, nil
}

func (r *SQLiteReader) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteReader) ListProducts(ctx context.Context) []domain.Product {
	products, err := r.queryProducts(ctx)
	if err != nil {
		r.logger.Error("error reading products data", zap.Error(err))
		return []domain.Product{}
	}
	return products
}

func (r *SQLiteReader) queryProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, price, currency, stock, image, brand, category
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Price,
			&p.Currency,
			&p.Stock,
			&p.Image,
			&p.Brand,
			&p.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *SQLiteReader) Close() error {
	return r.db.Close()
}
