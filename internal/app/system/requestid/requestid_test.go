package requestid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/schoolhub/internal/app/system/requestid"
	"github.com/google/uuid"
)

func serve(t *testing.T, req *http.Request) (seen string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.From(r.Context())
	}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddleware_Generates(t *testing.T) {
	seen, rec := serve(t, httptest.NewRequest("GET", "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", seen, err)
	}
	if got := rec.Header().Get(requestid.Header); got != seen {
		t.Errorf("response header = %q, want %q", got, seen)
	}
}

func TestMiddleware_ReusesClientID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestid.Header, "abc-123")

	seen, _ := serve(t, req)
	if seen != "abc-123" {
		t.Errorf("id = %q, want abc-123", seen)
	}
}

func TestMiddleware_RejectsOversizedID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestid.Header, strings.Repeat("x", 500))

	seen, _ := serve(t, req)
	if len(seen) > 128 {
		t.Errorf("oversized client id was kept")
	}
}

func TestFrom_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := requestid.From(req.Context()); got != "" {
		t.Errorf("From() = %q, want empty", got)
	}
}
