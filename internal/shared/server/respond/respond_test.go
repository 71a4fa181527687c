package respond

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"star-backend/internal/shared/telemetry"
)

func TestErrorWritesFlatBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Error(c, http.StatusInternalServerError, "Failed to evaluate answer", "upstream down")
	})
	r.GET("/y", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "Company not found", "")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"error":"Failed to evaluate answer","message":"upstream down"}` {
		t.Fatalf("unexpected body %s", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/y", nil))
	if got := w.Body.String(); got != `{"error":"Company not found"}` {
		t.Fatalf("expected message omitted, got %s", got)
	}
}

func TestRawJSONPassesBytesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	body := []byte(`{"b":2, "a":1}`)
	r.GET("/raw", func(c *gin.Context) {
		RawJSON(c, http.StatusOK, body)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/raw", nil))
	if w.Body.String() != string(body) {
		t.Fatalf("expected body unchanged, got %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
}
