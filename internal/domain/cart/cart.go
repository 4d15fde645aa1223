package cart

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/Karla-castillo01/EasyShopApp/internal/domain/catalog"
	"github.com/Karla-castillo01/EasyShopApp/internal/infrastructure/store"
)

// Line is one product's presence in a cart. UnitPrice is a snapshot of the
// product's price at read time; LineTotal is always recomputed from it and
// is never persisted as authoritative state.
type Line struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Cart is the read-time view of one user's cart: durable rows hydrated with
// current product data. It is materialized on demand and never cached across
// requests.
type Cart struct {
	UserID int             `json:"user_id"`
	Lines  map[int]Line    `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// Contains reports whether the cart has a line for the product
func (c *Cart) Contains(productID int) bool {
	_, ok := c.Lines[productID]
	return ok
}

// Hydrate builds a Cart from durable rows and the product lookup. All money
// math is exact decimal arithmetic. A row whose product no longer exists in
// the catalog is skipped and logged as a data-integrity warning: a cart must
// never fail to load because of a dangling reference. Deterministic given
// its inputs, no side effects beyond the warning log.
func Hydrate(ctx context.Context, userID int, rows []store.CartRow, products catalog.ProductLookup) (Cart, error) {
	cart := Cart{
		UserID: userID,
		Lines:  make(map[int]Line, len(rows)),
		Total:  decimal.Zero,
	}

	for _, row := range rows {
		product, ok, err := products.GetByID(ctx, row.ProductID)
		if err != nil {
			return Cart{}, err
		}
		if !ok {
			log.Printf("[Cart] Product %d in user %d's cart no longer exists in the catalog, skipping line", row.ProductID, userID)
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(row.Quantity)))
		cart.Lines[row.ProductID] = Line{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		}
		cart.Total = cart.Total.Add(lineTotal)
	}

	return cart, nil
}
