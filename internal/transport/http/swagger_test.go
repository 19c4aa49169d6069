package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSwaggerDocServedAsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swagger.yaml")
	if err := os.WriteFile(path, []byte("swagger: \"2.0\"\ninfo:\n  title: Travel API\n"), 0o600); err != nil {
		t.Fatalf("write document: %v", err)
	}
	e := echo.New()
	RegisterSwagger(e, path)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swaggerDocPath, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var doc struct {
		Swagger string `json:"swagger"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("expected JSON body, got %v", err)
	}
	if doc.Swagger != "2.0" || doc.Info.Title != "Travel API" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestSwaggerDocMissingFile(t *testing.T) {
	e := echo.New()
	RegisterSwagger(e, filepath.Join(t.TempDir(), "missing.yaml"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swaggerDocPath, nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}
