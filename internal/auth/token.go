package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures are mutually exclusive so callers can decide whether
// to prompt re-authentication (expired) or reject outright (everything else).
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpiredToken     = errors.New("token has expired")
	ErrUnsupportedToken = errors.New("unsupported token")
)

// rolesClaim carries the comma-joined role names inside the token.
const rolesClaim = "auth"

// Claims represents the JWT claims carried by an access token
type Claims struct {
	Roles string `json:"auth"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity reconstructed from a verified token
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the principal carries the given role
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenCodec issues and verifies signed, expiring authentication tokens.
// The signing key is fixed at construction and never mutated afterwards, so
// a single codec is safe for unlimited concurrent use.
type TokenCodec struct {
	key     []byte
	timeout time.Duration
	now     func() time.Time
}

// NewTokenCodec creates a codec from a base64-encoded secret. If the secret
// is not valid base64 the codec falls back to a freshly generated key for
// this process lifetime: tokens issued before a restart will then fail
// verification, which is the documented trade-off for staying up.
func NewTokenCodec(secret string, timeout time.Duration) *TokenCodec {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil || len(key) == 0 {
		log.Printf("[Auth] Configured token secret is not valid base64, falling back to a generated key: %v", err)
		key = generateKey()
	}
	return &TokenCodec{
		key:     key,
		timeout: timeout,
		now:     time.Now,
	}
}

// NewTokenCodecStrict is like NewTokenCodec but refuses an undecodable
// secret instead of falling back to a generated key.
func NewTokenCodecStrict(secret string, timeout time.Duration) (*TokenCodec, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("token secret is not valid base64: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("token secret is empty")
	}
	return &TokenCodec{
		key:     key,
		timeout: timeout,
		now:     time.Now,
	}, nil
}

func generateKey() []byte {
	key := make([]byte, 64)
	if _, err := rand.Read(key); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("auth: cannot generate signing key: %v", err))
	}
	return key
}

// Issue creates a signed token for the subject carrying the given roles.
// The expiry is the codec's fixed timeout from the current clock.
func (c *TokenCodec) Issue(subject string, roles []string) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.timeout)

	claims := Claims{
		Roles: strings.Join(roles, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokenString, err := token.SignedString(c.key)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify checks signature integrity and expiry, in that order, and
// reconstructs the principal. A tampered token is rejected with
// ErrInvalidSignature even when its expiry claim reads as unexpired.
func (c *TokenCodec) Verify(tokenString string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnsupportedToken
		}
		return c.key, nil
	}, jwt.WithTimeFunc(c.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		default:
			return nil, ErrUnsupportedToken
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformedToken
	}

	return &Principal{
		Subject: claims.Subject,
		Roles:   splitRoles(claims.Roles),
	}, nil
}

// Timeout returns the fixed token lifetime
func (c *TokenCodec) Timeout() time.Duration {
	return c.timeout
}

func splitRoles(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}
