package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStoreUnavailable classifies any persistence fault: the store could not
// be reached or the mutation could not complete. Safe to retry. The original
// low-level fault rides along in the error text for diagnostics.
var ErrStoreUnavailable = errors.New("cart store unavailable")

// queryTimeout bounds every store call so an unreachable backend surfaces
// ErrStoreUnavailable instead of hanging.
const queryTimeout = 5 * time.Second

// CartRow is the durable unit of cart state, unique on (UserID, ProductID)
type CartRow struct {
	UserID       int
	ProductID    int
	Quantity     int
	LastModified time.Time
}

// CartStoreInterface defines durable, race-safe mutation of cart rows.
//
// Increment is the one operation that needs cross-request mutual exclusion:
// concurrent increments for the same (user, product) must all land. Every
// implementation provides it as a single atomic unit, so a failure mid-way
// leaves the row set exactly as before the call.
type CartStoreInterface interface {
	// Increment bumps the row's quantity by one, inserting it with
	// quantity 1 when absent, and refreshes LastModified.
	Increment(ctx context.Context, userID, productID int) error

	// SetQuantity overwrites the row's quantity. Callers validate
	// quantity >= 0 before calling.
	SetQuantity(ctx context.Context, userID, productID, quantity int) error

	// Remove deletes the row if present. Removing an absent row is not an
	// error.
	Remove(ctx context.Context, userID, productID int) error

	// Clear deletes all rows for the user. Idempotent.
	Clear(ctx context.Context, userID int) error

	// RowsForUser returns the user's current rows in no particular order.
	RowsForUser(ctx context.Context, userID int) ([]CartRow, error)
}

// storeErr classifies a low-level persistence fault as ErrStoreUnavailable
// while keeping the original fault readable in the message.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
