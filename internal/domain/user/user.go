package user

import (
	"context"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is an account on the shop
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Lookup resolves users by username. Absence is a normal return value.
type Lookup interface {
	GetByUserName(ctx context.Context, username string) (User, bool, error)
}

// Store is the durable user storage the service writes through
type Store interface {
	Lookup
	Create(ctx context.Context, username, email, hashedPassword, role string) (User, error)
}
