package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Karla-castillo01/EasyShopApp/internal/domain/user"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for a unique constraint breach
const uniqueViolation = "23505"

// PostgresUserStore persists accounts in the users table
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// GetByUserName resolves an account. A missing username is a normal return.
func (s *PostgresUserStore) GetByUserName(ctx context.Context, username string) (user.User, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u user.User
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, email, role, hashed_password, created_at
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.HashedPassword, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, storeErr("load user", err)
	}
	return u, true, nil
}

// Create inserts a new account. A concurrent insert of the same username
// surfaces user.ErrUserExists via the unique constraint.
func (s *PostgresUserStore) Create(ctx context.Context, username, email, hashedPassword, role string) (user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now()
	var id int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, role, hashed_password, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING user_id`,
		username, email, role, hashedPassword, now,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return user.User{}, user.ErrUserExists
		}
		return user.User{}, storeErr("create user", err)
	}

	return user.User{
		ID:             id,
		Username:       username,
		Email:          email,
		Role:           role,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
	}, nil
}
