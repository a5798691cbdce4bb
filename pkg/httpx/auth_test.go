package httpx_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/aussiebroadwan/uaa/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]*jwtx.Claims

func (f fakeVerifier) Verify(token string) (*jwtx.Claims, error) {
	if c, ok := f[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

func TestAuthenticateAndRequireAuthority(t *testing.T) {
	v := fakeVerifier{
		"admin": {RegisteredClaims: jwt.RegisteredClaims{Subject: "svc"}, Authorities: []string{"ROLE_ADMIN"}},
		"user":  {RegisteredClaims: jwt.RegisteredClaims{Subject: "bob"}, Authorities: []string{"ROLE_USER"}, UserID: "U1"},
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, found := httpx.ClaimsFromContext(r.Context())
		require.True(t, found)
		_, _ = w.Write([]byte(c.Subject))
	})

	adminOnly := httpx.Chain(ok, httpx.Authenticate(v), httpx.RequireAuthority("ROLE_ADMIN"))
	userOnly := httpx.Chain(ok, httpx.Authenticate(v), httpx.RequireUser())

	tests := []struct {
		name   string
		h      http.Handler
		header string
		status int
	}{
		{"no header", adminOnly, "", http.StatusUnauthorized},
		{"wrong scheme", adminOnly, "Basic abc", http.StatusUnauthorized},
		{"bad token", adminOnly, "Bearer nope", http.StatusUnauthorized},
		{"missing authority", adminOnly, "Bearer user", http.StatusForbidden},
		{"admin", adminOnly, "Bearer admin", http.StatusOK},
		{"lowercase scheme", adminOnly, "bearer admin", http.StatusOK},
		{"client token on user route", userOnly, "Bearer admin", http.StatusUnauthorized},
		{"user token on user route", userOnly, "Bearer user", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			tt.h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer error=")
			}
		})
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mw("a"), mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b", "handler"}, order)
}
