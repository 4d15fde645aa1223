package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karla-castillo01/EasyShopApp/internal/auth"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/cart"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/catalog"
	"github.com/Karla-castillo01/EasyShopApp/internal/domain/user"
	"github.com/Karla-castillo01/EasyShopApp/internal/infrastructure/store"
)

// base64("test-secret-key-for-testing-purposes")
const testSecret = "dGVzdC1zZWNyZXQta2V5LWZvci10ZXN0aW5nLXB1cnBvc2Vz"

type memoryUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[string]user.User
}

func (s *memoryUserStore) GetByUserName(ctx context.Context, username string) (user.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	return u, ok, nil
}

func (s *memoryUserStore) Create(ctx context.Context, username, email, hashedPassword, role string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[username]; ok {
		return user.User{}, user.ErrUserExists
	}
	u := user.User{
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

type stubCatalog struct {
	products map[int]catalog.Product
}

func (s *stubCatalog) GetByID(ctx context.Context, productID int) (catalog.Product, bool, error) {
	p, ok := s.products[productID]
	return p, ok, nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	codec := auth.NewTokenCodec(testSecret, 30*time.Minute)
	userStore := &memoryUserStore{nextID: 1, users: make(map[string]user.User)}
	userSvc := user.NewService(userStore, nil)

	hash, err := auth.HashPassword("admin-pass-123")
	require.NoError(t, err)
	_, err = userStore.Create(context.Background(), "admin", "admin@example.com", hash, user.RoleAdmin)
	require.NoError(t, err)

	products := &stubCatalog{products: map[int]catalog.Product{
		7:  {ProductID: 7, Name: "keyboard", Price: decimal.RequireFromString("19.99")},
		15: {ProductID: 15, Name: "monitor", Price: decimal.RequireFromString("120.00")},
	}}
	cartSvc := cart.NewService(store.NewMemoryCartStore(), products, nil)

	return NewRouter(RouterConfig{
		CartHandlers: NewCartHandlers(cartSvc, userSvc),
		AuthHandlers: NewAuthHandlers(userSvc, codec),
		Codec:        codec,
	})
}

func doJSON(t *testing.T, srv http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, srv http.Handler) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/register", "", RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAPI_RegisterLoginAndEmptyCart(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var c cart.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Empty(t, c.Lines)
	assert.True(t, c.Total.IsZero())
}

func TestAPI_Login_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/login", "", LoginRequest{
		Username: "alice",
		Password: "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Register_DuplicateUsername(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/register", "", RegisterRequest{
		Username: "alice",
		Email:    "alice2@example.com",
		Password: "another-pass",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_Cart_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_CartFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	// Add product 7 twice: quantity strictly increases
	rec := doJSON(t, srv, http.MethodPost, "/cart/products/7", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/cart/products/7", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var c cart.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, 2, c.Lines[7].Quantity)
	assert.True(t, c.Total.Equal(decimal.RequireFromString("39.98")), "total was %s", c.Total)

	// Set quantity to 5
	rec = doJSON(t, srv, http.MethodPut, "/cart/products/7", token, map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, 5, c.Lines[7].Quantity)

	// Remove it. Decode into a fresh value: json.Decode merges into a
	// non-nil map, which would keep the removed line visible here.
	rec = doJSON(t, srv, http.MethodDelete, "/cart/products/7", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	c = cart.Cart{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Empty(t, c.Lines)

	// A second removal fails: the line is gone
	rec = doJSON(t, srv, http.MethodDelete, "/cart/products/7", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_AddUnknownProduct(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/cart/products/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UpdateQuantity_NotInCart(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPut, "/cart/products/7", token, map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UpdateQuantity_Negative(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/cart/products/7", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPut, "/cart/products/7", token, map[string]int{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ClearCart(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/cart/products/7", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, srv, http.MethodPost, "/cart/products/15", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var c cart.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Empty(t, c.Lines)

	// Clearing again still succeeds
	rec = doJSON(t, srv, http.MethodDelete, "/cart", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func loginAs(t *testing.T, srv http.Handler, username, password string) string {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/login", "", LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAPI_AdminGetCart(t *testing.T) {
	srv := newTestServer(t)
	userToken := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/cart/products/7", userToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The admin account is seeded with user id 1; alice registered after it.
	adminToken := loginAs(t, srv, "admin", "admin-pass-123")
	rec = doJSON(t, srv, http.MethodGet, "/admin/carts/2", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var c cart.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, 2, c.UserID)
	assert.Equal(t, 1, c.Lines[7].Quantity)
}

func TestAPI_AdminGetCart_ForbiddenForRegularUser(t *testing.T) {
	srv := newTestServer(t)
	userToken := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodGet, "/admin/carts/1", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAPI_AdminGetCart_InvalidUserID(t *testing.T) {
	srv := newTestServer(t)
	adminToken := loginAs(t, srv, "admin", "admin-pass-123")

	rec := doJSON(t, srv, http.MethodGet, "/admin/carts/zero", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_InvalidProductID(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/cart/products/not-a-number", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
