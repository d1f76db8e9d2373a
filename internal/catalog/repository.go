// Package catalog loads and holds the immutable product snapshot for a
// session. The repository reads the exporter's catalog out of SQLite;
// the Store keeps the loaded snapshot in memory so the filter/sort
// pipeline never touches the database mid-request.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/greenharvest/catalog/internal/domain"
)

// ErrProductNotFound is returned when a requested product is not in
// the current snapshot.
var ErrProductNotFound = errors.New("product not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
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

// GetAllProducts reads the whole catalog, with pricing tiers ascending
// by breakpoint and variants in insertion order.
func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	products, index, err := r.queryProducts(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.attachTiers(ctx, products, index); err != nil {
		return nil, err
	}
	if err := r.attachVariants(ctx, products, index); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *Repository) queryProducts(ctx context.Context) ([]domain.Product, map[string]int, error) {
	query := `
		SELECT id, name, slug, description, category, growing_method,
		       organic, availability, origin, moq_quantity, moq_unit, currency
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	index := make(map[string]int)
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Slug,
			&p.Description,
			&p.Category,
			&p.GrowingMethod,
			&p.Organic,
			&p.Availability,
			&p.Origin,
			&p.MOQ.Quantity,
			&p.MOQ.Unit,
			&p.Pricing.Currency,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan product: %w", err)
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, index, nil
}

func (r *Repository) attachTiers(ctx context.Context, products []domain.Product, index map[string]int) error {
	query := `
		SELECT product_id, min_quantity, price
		FROM pricing_tiers
		ORDER BY product_id, min_quantity
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query pricing tiers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID, price string
		var tier domain.PricingTier
		if err := rows.Scan(&productID, &tier.MinQuantity, &price); err != nil {
			return fmt.Errorf("failed to scan pricing tier: %w", err)
		}
		tier.Price, err = decimal.NewFromString(price)
		if err != nil {
			return fmt.Errorf("invalid tier price %q for product %s: %w", price, productID, err)
		}
		if i, ok := index[productID]; ok {
			products[i].Pricing.Tiers = append(products[i].Pricing.Tiers, tier)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	return nil
}

func (r *Repository) attachVariants(ctx context.Context, products []domain.Product, index map[string]int) error {
	query := `
		SELECT product_id, id, name, sku, pack_size, unit
		FROM product_variants
		ORDER BY product_id, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var v domain.Variant
		if err := rows.Scan(&productID, &v.ID, &v.Name, &v.SKU, &v.PackSize, &v.Unit); err != nil {
			return fmt.Errorf("failed to scan variant: %w", err)
		}
		if i, ok := index[productID]; ok {
			products[i].Variants = append(products[i].Variants, v)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
