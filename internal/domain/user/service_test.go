package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karla-castillo01/EasyShopApp/internal/auth"
)

// memoryUserStore is an in-memory Store for tests
type memoryUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[string]User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, users: make(map[string]User)}
}

func (s *memoryUserStore) GetByUserName(ctx context.Context, username string) (User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	return u, ok, nil
}

func (s *memoryUserStore) Create(ctx context.Context, username, email, hashedPassword, role string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return User{}, ErrUserExists
	}
	u := User{
		ID:             s.nextID,
		Username:       username,
		Email:          email,
		Role:           role,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
	}
	s.nextID++
	s.users[username] = u
	return u, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, key, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func TestService_Register_Success(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewService(newMemoryUserStore(), publisher)

	u, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEmpty(t, u.HashedPassword)
	assert.NotEqual(t, "s3cret-pass", u.HashedPassword)
	assert.True(t, auth.CheckPassword("s3cret-pass", u.HashedPassword))
	assert.Equal(t, []string{EventUserRegistered}, publisher.events)
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	svc := NewService(newMemoryUserStore(), nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "another-pass")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_Register_ShortPassword(t *testing.T) {
	svc := NewService(newMemoryUserStore(), nil)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "short")

	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestService_Authenticate_Success(t *testing.T) {
	svc := NewService(newMemoryUserStore(), nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.Equal(t, RoleUser, u.Role)
}

func TestService_Authenticate_WrongPassword(t *testing.T) {
	svc := NewService(newMemoryUserStore(), nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Authenticate_UnknownUser(t *testing.T) {
	svc := NewService(newMemoryUserStore(), nil)

	_, err := svc.Authenticate(context.Background(), "nobody", "whatever-pass")

	// Indistinguishable from a wrong password
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
