package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"rink-live-service/internal/logging"
	"rink-live-service/internal/metrics"
)

func TestLoggingMiddlewarePreservesIncomingRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/games?rink=rink-main", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()

	LoggingMiddleware(nil, nil, next).ServeHTTP(rec, req)

	if seen != "abc-123" {
		t.Fatalf("expected request id propagated, got %q", seen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected request id echoed in response, got %q", got)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler status preserved, got %d", rec.Code)
	}
}

func TestLoggingMiddlewareGeneratesRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	LoggingMiddleware(nil, nil, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestLoggingMiddlewareRejectsMalformedRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces!!")
	rec := httptest.NewRecorder()

	LoggingMiddleware(nil, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	if got == "" || got == "bad id with spaces!!" {
		t.Fatalf("expected sanitized request id, got %q", got)
	}
}

func TestLoggingMiddlewareAttachesContextLogger(t *testing.T) {
	var hadLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hadLogger = logging.FromContext(r.Context(), nil) != nil
	})

	rec := httptest.NewRecorder()
	LoggingMiddleware(nil, nil, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !hadLogger {
		t.Fatal("expected request-scoped logger on context")
	}
}

func TestLoggingMiddlewareRecordsMetrics(t *testing.T) {
	recorder := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	LoggingMiddleware(nil, recorder, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/games/g1/events", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", rec.Code)
	}
}

func TestRequestIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := RequestIDFromContext(req.Context()); got != "" {
		t.Fatalf("expected empty request id, got %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/health":            "/health",
		"/ready":             "/ready",
		"/games":             "/games",
		"/games/g1":          "/games/:id",
		"/games/g1/events":   "/games/:id/events",
		"/games/g1/finalize": "/games/:id/finalize",
		"/metrics":           "/metrics",
	}
	for path, want := range cases {
		if got := normalizePath(path); got != want {
			t.Fatalf("normalizePath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSanitizeRequestID(t *testing.T) {
	if got := sanitizeRequestID("valid_ID-42"); got != "valid_ID-42" {
		t.Fatalf("expected valid id kept, got %q", got)
	}
	if got := sanitizeRequestID(""); got == "" {
		t.Fatal("expected generated id for empty input")
	}
	if got := sanitizeRequestID("has spaces"); got == "has spaces" {
		t.Fatal("expected invalid id replaced")
	}
}
