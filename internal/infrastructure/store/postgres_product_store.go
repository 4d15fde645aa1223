package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Karla-castillo01/EasyShopApp/internal/domain/catalog"
)

// PostgresProductStore is the read-only catalog lookup carts are priced
// against
type PostgresProductStore struct {
	db *sql.DB
}

func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

// GetByID resolves a product. A missing product is a normal return, not an
// error.
func (s *PostgresProductStore) GetByID(ctx context.Context, productID int) (catalog.Product, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p catalog.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT product_id, name, price, category_id, description, stock, image_url, featured
		 FROM products
		 WHERE product_id = $1`,
		productID,
	).Scan(&p.ProductID, &p.Name, &p.Price, &p.CategoryID, &p.Description, &p.Stock, &p.ImageURL, &p.Featured)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, storeErr("load product", err)
	}
	return p, true, nil
}
