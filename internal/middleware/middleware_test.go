package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tdewolff/test"
)

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	test.T(t, rec.Code, http.StatusInternalServerError)
}

func TestLoggerKeepsStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	test.T(t, rec.Code, http.StatusTeapot)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := CORS([]string{"http://localhost:5173"})(next)

	req := httptest.NewRequest("OPTIONS", "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	test.T(t, rec.Code, http.StatusNoContent)
	test.T(t, rec.Header().Get("Access-Control-Allow-Origin"), "http://localhost:5173")

	req = httptest.NewRequest("POST", "/api/analyze", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	test.T(t, rec.Code, http.StatusOK)
	test.T(t, rec.Header().Get("Access-Control-Allow-Origin"), "")
}
