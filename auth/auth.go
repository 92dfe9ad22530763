// Package auth issues and verifies HS256 bearer tokens whose subject is the
// user id, and provides the HTTP middleware that scopes requests to that user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned when a request carries no valid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// UserHeader carries the user id when token verification is disabled.
const UserHeader = "X-User-ID"

// Claims are the token claims understood by the API.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Verifier signs and validates tokens with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier returns a Verifier. An empty secret yields nil, which disables
// token checks in Middleware.
func NewVerifier(secret, issuer string) *Verifier {
	if secret == "" {
		return nil
	}
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Issue returns a signed token for userID valid for ttl.
func (v *Verifier) Issue(userID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify parses tokenStr and returns the user id it was issued for.
func (v *Verifier) Verify(tokenStr string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return claims.Subject, nil
}

type ctxKey struct{}

// WithUserID stores the user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the user id stored by Middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Middleware resolves the calling user and rejects anonymous requests. With
// a nil Verifier the user id is read from the X-User-ID header.
func Middleware(v *Verifier, onError func(w http.ResponseWriter, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolve(v, r)
			if err != nil {
				onError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func resolve(v *Verifier, r *http.Request) (string, error) {
	if v == nil {
		id := strings.TrimSpace(r.Header.Get(UserHeader))
		if id == "" {
			return "", fmt.Errorf("%w: missing %s header", ErrUnauthorized, UserHeader)
		}
		return id, nil
	}
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}
	return v.Verify(strings.TrimPrefix(h, "Bearer "))
}
