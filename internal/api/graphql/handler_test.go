package graphql

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/spaceapp/space-api/internal/core/ports"
)

func TestHandler_Serve(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestExecutor(t, newStubUserService()))

	body := `{"query":"query Q($id: ID!) { userById(id: $id) { username } }","variables":{"id":1}}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(ports.WithActor(req.Context(), student))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Serve(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"data":{"userById":{"username":"admin"}}}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestHandler_InvalidJSON(t *testing.T) {
	e := echo.New()
	h := NewHandler(newTestExecutor(t, newStubUserService()))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":`))
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Serve(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
