package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "budgetree/internal/errors"
	"budgetree/internal/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.WithMessage(apperrors.ErrCycleDetected, "loop"))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	t.Run("app error keeps status and code", func(t *testing.T) {
		rec := serve(r, "GET", "/app", nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to parse body: %v", err)
		}
		if body.Error.Code != "CYCLE_DETECTED" || body.Error.Message != "loop" {
			t.Errorf("unexpected error body %+v", body.Error)
		}
	})

	t.Run("unexpected error is hidden", func(t *testing.T) {
		rec := serve(r, "GET", "/plain", nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("no error passes through", func(t *testing.T) {
		rec := serve(r, "GET", "/ok", nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.NoRoute(NotFound())
	r.GET("/known", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, "GET", "/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON envelope, got %q: %v", rec.Body.String(), err)
	}
	if body["error"]["code"] != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %v", body["error"])
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("issues an id", func(t *testing.T) {
		rec := serve(r, "GET", "/ping", nil)
		id := rec.Header().Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("expected a UUID request id, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("expected context id %q, got %q", id, rec.Body.String())
		}
	})

	t.Run("reuses a valid incoming id", func(t *testing.T) {
		incoming := uuid.New()
		rec := serve(r, "GET", "/ping", http.Header{requestIDHeader: {incoming}})
		if got := rec.Header().Get(requestIDHeader); got != incoming {
			t.Errorf("expected %q, got %q", incoming, got)
		}
	})

	t.Run("header name is case-insensitive", func(t *testing.T) {
		incoming := uuid.New()
		rec := serve(r, "GET", "/ping", http.Header{"x-request-id": {incoming}})
		if got := rec.Header().Get(requestIDHeader); got != incoming {
			t.Errorf("expected %q, got %q", incoming, got)
		}
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		rec := serve(r, "GET", "/ping", http.Header{requestIDHeader: {"not-an-id"}})
		got := rec.Header().Get(requestIDHeader)
		if _, err := uuid.Parse(got); err != nil || got == "not-an-id" {
			t.Errorf("expected a fresh UUID, got %q", got)
		}
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, "OPTIONS", "/x", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected wildcard origin")
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	rec := serve(r, "GET", "/panic", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body["error"]["code"] != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %v", body["error"])
	}
}
