package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spaceapp/space-api/internal/core/domain"
)

func TestRequestLogger_IncludesCaller(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(zerolog.New(&buf)))
	e.GET("/api/planets", func(c echo.Context) error {
		c.Set(UserKey, &domain.User{Username: "staff", Role: domain.RoleStaff})
		c.Set(RoleKey, string(domain.RoleStaff))
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/planets", nil))

	line := buf.String()
	for _, want := range []string{`"user":"staff"`, `"role":"STAFF"`, `"status":200`, `"uri":"/api/planets"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in %q", want, line)
		}
	}
}
