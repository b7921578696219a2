package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRoute(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/exports", "/api/v1/exports", true},
		{"/api/v1/exports/abc", "/api/v1/exports/*", true},
		{"/api/v1/exports/abc/files", "/api/v1/exports/*/files", true},
		{"/api/v1/exports/abc/errors", "/api/v1/exports/*/files", false},
		{"/api/v1/download/abc/geo.json", "/api/v1/download/*", true},
		{"/swagger/index.html", "/swagger/*", true},
		{"/swagger", "/swagger/*", false},
		{"/other", "/api/v1/exports", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchRoute(tc.path, tc.pattern), "%s vs %s", tc.path, tc.pattern)
	}
}

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.mux.ServeHTTP(rec, req)
	return rec
}

func TestDispatchRegistrationOrder(t *testing.T) {
	r := New()
	r.GET("/api/v1/exports/*/files", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("files"))
	})
	r.GET("/api/v1/exports/*", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("detail"))
	})

	rec := serve(r, http.MethodGet, "/api/v1/exports/abc/files")
	assert.Equal(t, "files", rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/v1/exports/abc")
	assert.Equal(t, "detail", rec.Body.String())
}

func TestDispatchMethodNotAllowed(t *testing.T) {
	r := New()
	r.GET("/api/v1/exports", func(w http.ResponseWriter, req *http.Request) {})

	rec := serve(r, http.MethodPost, "/api/v1/exports")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDispatchNotFound(t *testing.T) {
	r := New()
	r.GET("/api/v1/exports", func(w http.ResponseWriter, req *http.Request) {})

	rec := serve(r, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
