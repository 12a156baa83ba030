package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestExtractVersionFromPath(t *testing.T) {
	assert.Equal(t, "v1", extractVersionFromPath("/v1/orders"))
	assert.Equal(t, "v12", extractVersionFromPath("/v12/orders"))
	assert.Equal(t, "v2", extractVersionFromPath("/v2"))
	assert.Equal(t, "", extractVersionFromPath("/health"))
	assert.Equal(t, "", extractVersionFromPath("/vault/x"))
	assert.Equal(t, "", extractVersionFromPath("/"))
}

func TestVersionMiddleware(t *testing.T) {
	vm := NewVersionMiddleware()
	e := echo.New()
	e.Use(vm.APIVersionResolver())
	vm.VersionRoute(e, "v1").GET("/orders", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("api_version").(string))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/orders", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported API version")
}
