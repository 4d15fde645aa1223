package user

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Karla-castillo01/EasyShopApp/internal/auth"
)

var (
	ErrUserExists         = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// EventPublisher publishes account activity events. A nil publisher disables
// publishing.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, data any) error
}

// Service handles registration and credential checks
type Service struct {
	store  Store
	events EventPublisher
}

func NewService(store Store, events EventPublisher) *Service {
	return &Service{store: store, events: events}
}

// Register creates a new account with RoleUser. The password is stored only
// as a bcrypt hash.
func (s *Service) Register(ctx context.Context, username, email, password string) (User, error) {
	if _, exists, err := s.store.GetByUserName(ctx, username); err != nil {
		return User{}, err
	} else if exists {
		return User{}, ErrUserExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	u, err := s.store.Create(ctx, username, email, hash, RoleUser)
	if err != nil {
		return User{}, err
	}

	s.publish(ctx, u.Username, EventUserRegistered, UserRegistered{
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		RegisteredAt: time.Now(),
	})

	return u, nil
}

// Authenticate checks the username/password pair and returns the account.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, exists, err := s.store.GetByUserName(ctx, username)
	if err != nil {
		return User{}, err
	}
	if !exists || !auth.CheckPassword(password, u.HashedPassword) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByUserName exposes the lookup for callers that resolved a principal
// from a token and need the account behind it.
func (s *Service) GetByUserName(ctx context.Context, username string) (User, bool, error) {
	return s.store.GetByUserName(ctx, username)
}

func (s *Service) publish(ctx context.Context, key, eventType string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, eventType, data); err != nil {
		log.Printf("[User] Failed to publish %s event: %v", eventType, err)
	}
}
