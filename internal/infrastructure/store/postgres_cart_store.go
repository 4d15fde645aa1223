package store

import (
	"context"
	"database/sql"
	"time"
)

// PostgresCartStore persists cart rows in the shopping_cart table:
//
//	shopping_cart(user_id, product_id, quantity, last_modified)
//	UNIQUE (user_id, product_id)
type PostgresCartStore struct {
	db *sql.DB
}

func NewPostgresCartStore(db *sql.DB) *PostgresCartStore {
	return &PostgresCartStore{db: db}
}

// Increment relies on the native upsert so the check-then-act is a single
// atomic statement: two concurrent increments for the same (user, product)
// both land, never losing an update.
func (s *PostgresCartStore) Increment(ctx context.Context, userID, productID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_cart (user_id, product_id, quantity, last_modified)
		 VALUES ($1, $2, 1, $3)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = shopping_cart.quantity + 1, last_modified = EXCLUDED.last_modified`,
		userID, productID, time.Now(),
	)
	if err != nil {
		return storeErr("increment cart row", err)
	}
	return nil
}

func (s *PostgresCartStore) SetQuantity(ctx context.Context, userID, productID, quantity int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`UPDATE shopping_cart SET quantity = $3, last_modified = $4
		 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity, time.Now(),
	)
	if err != nil {
		return storeErr("set cart row quantity", err)
	}
	return nil
}

func (s *PostgresCartStore) Remove(ctx context.Context, userID, productID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM shopping_cart WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return storeErr("remove cart row", err)
	}
	return nil
}

func (s *PostgresCartStore) Clear(ctx context.Context, userID int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM shopping_cart WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return storeErr("clear cart rows", err)
	}
	return nil
}

func (s *PostgresCartStore) RowsForUser(ctx context.Context, userID int) ([]CartRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, product_id, quantity, last_modified
		 FROM shopping_cart
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, storeErr("load cart rows", err)
	}
	defer rows.Close()

	var result []CartRow
	for rows.Next() {
		var r CartRow
		if err := rows.Scan(&r.UserID, &r.ProductID, &r.Quantity, &r.LastModified); err != nil {
			return nil, storeErr("scan cart row", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("load cart rows", err)
	}
	return result, nil
}
