package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"animeapi/internal/domain"
	apperror "animeapi/internal/errors"
	"animeapi/internal/pkg/token"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the resolved authentication result attached to the request
// context by Authenticate.
type Identity struct {
	UserID string
	Roles  []string
}

// TokenValidator is the contract Authenticate needs from the token layer.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

// Authenticate validates the Bearer token and attaches the resolved identity
// to the request context. Requests without valid credentials are rejected
// with 401 before any handler, service or store code runs.
func Authenticate(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				apperror.Present(w, apperror.NewUnauthorizedError("missing or malformed authorization header"))
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				apperror.Present(w, apperror.NewUnauthorizedError("invalid or expired token"))
				return
			}

			identity := Identity{UserID: claims.UserID, Roles: claims.Roles}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext extracts the identity attached by Authenticate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// Rule is one row of the authorization policy table. Empty Methods matches
// every method, empty Prefix matches every path, and an empty Role only
// requires an authenticated identity.
type Rule struct {
	Methods []string
	Prefix  string
	Role    string
}

func (ru Rule) matches(r *http.Request) bool {
	if len(ru.Methods) > 0 && !slices.Contains(ru.Methods, r.Method) {
		return false
	}
	return strings.HasPrefix(r.URL.Path, ru.Prefix)
}

// Authorize evaluates the policy table top-down and enforces the role of the
// first matching rule. A denial short-circuits the request with 403.
func Authorize(policy []Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				// Authenticate was skipped or failed to attach claims.
				apperror.Present(w, apperror.NewUnauthorizedError("authentication required"))
				return
			}

			for _, rule := range policy {
				if !rule.matches(r) {
					continue
				}
				if !satisfies(identity.Roles, rule.Role) {
					apperror.Present(w, apperror.NewForbiddenError("insufficient role for this resource"))
					return
				}
				break
			}

			next.ServeHTTP(w, r)
		})
	}
}

// satisfies reports whether the identity's roles meet the requirement.
// USER is satisfied by any authenticated role; other roles require
// membership.
func satisfies(roles []string, required string) bool {
	switch required {
	case "":
		return true
	case domain.RoleUser:
		return len(roles) > 0
	default:
		return slices.Contains(roles, required)
	}
}
