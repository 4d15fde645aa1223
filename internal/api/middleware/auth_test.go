package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Karla-castillo01/EasyShopApp/internal/auth"
)

// base64("test-secret-key-for-testing-purposes")
const testSecret = "dGVzdC1zZWNyZXQta2V5LWZvci10ZXN0aW5nLXB1cnBvc2Vz"

func newTestCodec() *auth.TokenCodec {
	return auth.NewTokenCodec(testSecret, 30*time.Minute)
}

func TestAuth_ValidToken_Header(t *testing.T) {
	codec := newTestCodec()
	mw := Auth(codec)

	token, _, err := codec.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	var captured *auth.Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "alice", captured.Subject)
	assert.Equal(t, []string{"ROLE_USER"}, captured.Roles)
}

func TestAuth_ValidToken_Cookie(t *testing.T) {
	codec := newTestCodec()
	mw := Auth(codec)

	token, _, err := codec.Issue("bob", []string{"ROLE_ADMIN"})
	require.NoError(t, err)

	var captured *auth.Principal
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()

	mw(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "bob", captured.Subject)
}

func TestAuth_NoToken(t *testing.T) {
	mw := Auth(newTestCodec())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()

	mw(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	mw := Auth(newTestCodec())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	mw(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_TokenFromAnotherKey(t *testing.T) {
	otherCodec := auth.NewTokenCodec("b3RoZXItc2VjcmV0LWtleS1lbnRpcmVseS1kaWZmZXJlbnQ=", 30*time.Minute)
	token, _, err := otherCodec.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	mw := Auth(newTestCodec())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	codec := newTestCodec()
	token, _, err := codec.Issue("admin", []string{"ROLE_ADMIN"})
	require.NoError(t, err)

	handler := Auth(codec)(RequireRole("ROLE_ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	codec := newTestCodec()
	token, _, err := codec.Issue("alice", []string{"ROLE_USER"})
	require.NoError(t, err)

	handler := Auth(codec)(RequireRole("ROLE_ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	handler := RequireRole("ROLE_ADMIN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
