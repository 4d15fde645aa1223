package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the catalog view a cart line is priced against
type Product struct {
	ProductID   int             `json:"product_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  int             `json:"category_id"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	Featured    bool            `json:"featured"`
}

// ProductLookup resolves products by id. Absence is a normal return value,
// never an error: a missing product reports ok == false with a nil error.
type ProductLookup interface {
	GetByID(ctx context.Context, productID int) (Product, bool, error)
}
