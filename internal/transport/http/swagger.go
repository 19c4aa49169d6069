package http

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/batuwa-travels/travel-api/internal/util"
)

const swaggerDocPath = "/swagger/doc.json"

// RegisterSwagger serves the YAML document at specPath as JSON and mounts the
// Swagger UI under /swagger.
func RegisterSwagger(e *echo.Echo, specPath string) {
	spec := &swaggerSpec{path: specPath}
	e.GET(swaggerDocPath, spec.serve)
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL(swaggerDocPath)))
}

// swaggerSpec converts the document on first request and keeps the result.
type swaggerSpec struct {
	path string
	once sync.Once
	json []byte
	err  error
}

func (s *swaggerSpec) load() ([]byte, error) {
	s.once.Do(func() {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			s.err = fmt.Errorf("read %s: %w", s.path, err)
			return
		}
		if s.json, err = yaml.YAMLToJSON(raw); err != nil {
			s.err = fmt.Errorf("convert %s: %w", s.path, err)
		}
	})
	return s.json, s.err
}

func (s *swaggerSpec) serve(c echo.Context) error {
	doc, err := s.load()
	if err != nil {
		log.Printf("swagger: %v", err)
		return c.JSON(http.StatusServiceUnavailable, util.Error("API documentation is unavailable"))
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, doc)
}
