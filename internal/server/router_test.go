package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SupeeerMario/LowKey/internal/shared"
)

func TestBasicRouter(t *testing.T) {
	t.Run("Method Dispatch", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET /only-get", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/only-get", nil))
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 for GET, got %d", w.Code)
		}

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/only-get", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST, got %d", w.Code)
		}
	})

	t.Run("Path Value", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET /items/{id}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(r.PathValue("id")))
		}))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
		if w.Body.String() != "abc" {
			t.Errorf("expected path value abc, got %q", w.Body.String())
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("first"), tag("second"))
		router.Handle("GET /", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
			t.Errorf("unexpected execution order: %v", order)
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	router := NewBasicRouter()
	router.Use(Logging(logger))
	router.Handle("GET /teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))

	out := buf.String()
	if !strings.Contains(out, "/teapot") {
		t.Errorf("expected path in log output, got %s", out)
	}
	if !strings.Contains(out, "418") {
		t.Errorf("expected captured status in log output, got %s", out)
	}
}
