package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		query string
		want  httpx.PageRequest
	}{
		{"", httpx.PageRequest{Number: 0, Size: 20}},
		{"?page=2&size=5", httpx.PageRequest{Number: 2, Size: 5}},
		{"?page=-1&size=0", httpx.PageRequest{Number: 0, Size: 20}},
		{"?size=1000", httpx.PageRequest{Number: 0, Size: 100}},
		{"?page=x&size=y", httpx.PageRequest{Number: 0, Size: 20}},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/v1/clients"+tt.query, nil)
		require.Equal(t, tt.want, httpx.ParsePage(req, 20, 100), tt.query)
	}
}

func TestSetPaginationHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/clients?page=1&size=2", nil)
	rec := httptest.NewRecorder()

	httpx.SetPaginationHeaders(rec, req.URL, httpx.PageRequest{Number: 1, Size: 2}, 5)

	require.Equal(t, "5", rec.Header().Get("X-Total-Count"))
	link := rec.Header().Get("Link")
	require.Contains(t, link, `</v1/clients?page=2&size=2>; rel="next"`)
	require.Contains(t, link, `</v1/clients?page=0&size=2>; rel="prev"`)
	require.Contains(t, link, `</v1/clients?page=2&size=2>; rel="last"`)
	require.Contains(t, link, `</v1/clients?page=0&size=2>; rel="first"`)
}

func TestSetPaginationHeaders_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	rec := httptest.NewRecorder()

	httpx.SetPaginationHeaders(rec, req.URL, httpx.PageRequest{Size: 20}, 0)

	require.Equal(t, "0", rec.Header().Get("X-Total-Count"))
	require.NotContains(t, rec.Header().Get("Link"), `rel="next"`)
	require.NotContains(t, rec.Header().Get("Link"), `rel="prev"`)
}
