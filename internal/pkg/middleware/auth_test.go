package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animeapi/internal/domain"
	"animeapi/internal/pkg/middleware"
	"animeapi/internal/pkg/token"
)

var testPolicy = []middleware.Rule{
	{Methods: []string{http.MethodPost, http.MethodPut, http.MethodDelete}, Prefix: "/anime", Role: domain.RoleAdmin},
	{Methods: []string{http.MethodGet}, Prefix: "/anime", Role: domain.RoleUser},
	{},
}

// gated builds the full authorization gate around a probe handler that
// records whether it was reached.
func gated(tokens *token.Service) (http.Handler, *bool) {
	reached := false
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	gate := middleware.Authenticate(tokens)
	authorize := middleware.Authorize(testPolicy)
	return gate(authorize(probe)), &reached
}

func bearer(t *testing.T, tokens *token.Service, roles []string) string {
	t.Helper()
	signed, err := tokens.GenerateToken("user-1", roles)
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestAuthenticate_MissingCredentialsDeniedBeforeHandler(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodGet, "/anime", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached, "denied request must never reach the handler")

	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusUnauthorized, body.Status)
}

func TestAuthenticate_InvalidTokenDenied(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodGet, "/anime", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAuthenticate_TokenSignedWithAnotherKeyDenied(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	other := token.NewService("other-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodGet, "/anime", nil)
	req.Header.Set("Authorization", bearer(t, other, []string{domain.RoleUser}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAuthorize_UserCanReadAnime(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodGet, "/anime", nil)
	req.Header.Set("Authorization", bearer(t, tokens, []string{domain.RoleUser}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

// A valid identity without the ADMIN role is denied writes before any
// handler code runs.
func TestAuthorize_UserCannotWriteAnime(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			handler, reached := gated(tokens)

			req := httptest.NewRequest(method, "/anime/1", nil)
			req.Header.Set("Authorization", bearer(t, tokens, []string{domain.RoleUser}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.False(t, *reached)

			var body domain.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, http.StatusForbidden, body.Status)
		})
	}
}

func TestAuthorize_AdminCanWriteAnime(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodPost, "/anime", nil)
	req.Header.Set("Authorization", bearer(t, tokens, []string{domain.RoleUser, domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

// Any authenticated role satisfies the read rule.
func TestAuthorize_AnyRoleSatisfiesRead(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodGet, "/anime/1", nil)
	req.Header.Set("Authorization", bearer(t, tokens, []string{domain.RoleAdmin}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}

func TestAuthorize_RolelessIdentityCannotRead(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodGet, "/anime", nil)
	req.Header.Set("Authorization", bearer(t, tokens, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *reached)
}

// Paths outside the resource only need an authenticated identity.
func TestAuthorize_OtherPathsNeedOnlyAuthentication(t *testing.T) {
	tokens := token.NewService("test-secret", time.Hour)
	handler, reached := gated(tokens)

	req := httptest.NewRequest(http.MethodGet, "/something-else", nil)
	req.Header.Set("Authorization", bearer(t, tokens, nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}
