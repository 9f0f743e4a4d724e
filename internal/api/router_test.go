package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/spaceapp/space-api/internal/api/handler"
	"github.com/spaceapp/space-api/internal/core/authz"
	"github.com/spaceapp/space-api/internal/core/service"
	"github.com/spaceapp/space-api/internal/infrastructure/db/sqlstore"
)

// newTestServer wires the full stack on an in-memory SQLite database seeded
// with the default users and planets.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()

	db, err := sqlstore.Open(ctx, sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: "file::memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlstore.Migrate(ctx, db, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tx := sqlstore.NewTransactor(db)
	planetRepo := sqlstore.NewPlanetRepository(db)
	moonRepo := sqlstore.NewMoonRepository(db)
	userRepo := sqlstore.NewUserRepository(db)

	planets := service.NewPlanetService(planetRepo, moonRepo, tx, log)
	moons := service.NewMoonService(moonRepo, planetRepo, tx, log)
	users := service.NewUserService(userRepo, tx, bcrypt.MinCost, log)
	auth := service.NewAuthService(userRepo, "test-secret", time.Hour)

	data := service.SeedData{
		Users:   service.DefaultSeedUsers("admin", "staff", "student"),
		Planets: service.DefaultSeedPlanets(),
	}
	if err := service.Seed(ctx, users, planets, moons, data, log); err != nil {
		t.Fatalf("seed: %v", err)
	}

	e, err := NewRouter(Deps{
		Planets:  planets,
		Moons:    moons,
		Users:    users,
		Auth:     auth,
		Policy:   authz.Default(),
		Checks:   map[string]handler.Check{"database": db.PingContext},
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if user != "" {
		req.SetBasicAuth(user, user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestAPI_SeededMoonCount(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodGet, "/api/moons/count?planetId=1", "student", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.TrimSpace(rec.Body.String()) != "1" {
		t.Fatalf("expected Earth to have 1 moon, got %s", rec.Body.String())
	}

	rec = do(t, e, http.MethodGet, "/api/moons/count?planetId=2", "student", "")
	if strings.TrimSpace(rec.Body.String()) != "2" {
		t.Fatalf("expected Jupiter to have 2 moons, got %s", rec.Body.String())
	}
}

func TestAPI_DeletePlanetCascades(t *testing.T) {
	e := newTestServer(t)

	if rec := do(t, e, http.MethodDelete, "/api/planets/1", "staff", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, e, http.MethodGet, "/api/planets/1", "student", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/api/moons/1", "student", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected owned moon to be gone, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/api/moons/2", "student", ""); rec.Code != http.StatusOK {
		t.Fatalf("moons of other planets must survive, got %d", rec.Code)
	}
}

func TestAPI_StudentCannotWrite(t *testing.T) {
	e := newTestServer(t)

	planet := `{"name":"Mars","type":"Terrestrial","radiusKm":3389.5,"massKg":6.39e23,"orbitalPeriodDays":687}`
	if rec := do(t, e, http.MethodPost, "/api/planets", "student", planet); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	var planets []map[string]any
	decode(t, do(t, e, http.MethodGet, "/api/planets", "student", ""), &planets)
	if len(planets) != 2 {
		t.Fatalf("planet count must be unchanged, got %d", len(planets))
	}

	body :=`{"name":"Titan","diameterKm":5149.5,"orbitalPeriodDays":15.95,"planetId":2}`
	rec := do(t, e, http.MethodPost, "/api/moons", "student", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, http.MethodGet, "/api/moons/count?planetId=2", "student", "")
	if strings.TrimSpace(rec.Body.String()) != "2" {
		t.Fatalf("moon count must be unchanged, got %s", rec.Body.String())
	}

	rec = do(t, e, http.MethodPost, "/api/moons", "staff", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected staff create 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var moon map[string]any
	decode(t, rec, &moon)
	if moon["planetName"] != "Jupiter" {
		t.Fatalf("unexpected moon: %v", moon)
	}
}

func TestAPI_Authentication(t *testing.T) {
	e := newTestServer(t)

	if rec := do(t, e, http.MethodGet, "/api/planets", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/planets", nil)
	req.SetBasicAuth("admin", "wrong")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", rec.Code)
	}

	rec = do(t, e, http.MethodPost, "/auth/login", "", `{"username":"student","password":"student"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, rec, &login)

	req = httptest.NewRequest(http.MethodGet, "/api/planets/names", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer: expected 200, got %d", rec.Code)
	}
	var names []string
	decode(t, rec, &names)
	if len(names) != 2 || names[0] != "Earth" || names[1] != "Jupiter" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestAPI_ValidationAndNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/planets", "admin", `{"name":"","type":"Ice","radiusKm":-1,"massKg":1,"orbitalPeriodDays":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorResponse
	decode(t, rec, &body)
	if body.Fields["name"] == "" || body.Fields["radiusKm"] == "" {
		t.Fatalf("expected field reasons, got %v", body.Fields)
	}

	rec = do(t, e, http.MethodPost, "/api/moons", "admin", `{"name":"Ghost","diameterKm":1,"orbitalPeriodDays":1,"planetId":99}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown planet, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, e, http.MethodGet, "/api/planets/abc", "admin", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a malformed id, got %d", rec.Code)
	}
}

func graphqlCall(t *testing.T, e *echo.Echo, user, query string) map[string]any {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"query": query})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec := do(t, e, http.MethodPost, "/graphql", user, string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("graphql: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out map[string]any
	decode(t, rec, &out)
	return out
}

func TestAPI_GraphQLCreateUser(t *testing.T) {
	e := newTestServer(t)
	mutation := `mutation { createUser(input: {username: "dave", password: "secret", role: STUDENT}) { id username role } }`

	out := graphqlCall(t, e, "staff", mutation)
	if out["data"] != nil {
		t.Fatalf("staff must not create users: %v", out)
	}
	errs, _ := out["errors"].([]any)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", out["errors"])
	}
	if class := errs[0].(map[string]any)["extensions"].(map[string]any)["classification"]; class != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %v", class)
	}

	out = graphqlCall(t, e, "admin", mutation)
	if out["errors"] != nil {
		t.Fatalf("unexpected errors: %v", out["errors"])
	}
	created := out["data"].(map[string]any)["createUser"].(map[string]any)
	if created["username"] != "dave" || created["role"] != "STUDENT" {
		t.Fatalf("unexpected user: %v", created)
	}
	if _, ok := created["password"]; ok {
		t.Fatalf("password must never be returned")
	}

	out = graphqlCall(t, e, "admin", mutation)
	errs, _ = out["errors"].([]any)
	if len(errs) != 1 || errs[0].(map[string]any)["extensions"].(map[string]any)["classification"] != "CONFLICT" {
		t.Fatalf("expected CONFLICT for a duplicate username, got %v", out)
	}

	out = graphqlCall(t, e, "student", `{ userById(id: 1) { username role } }`)
	user := out["data"].(map[string]any)["userById"].(map[string]any)
	if user["username"] != "admin" || user["role"] != "ADMIN" {
		t.Fatalf("unexpected user: %v", user)
	}
}

func TestAPI_GraphQLRequiresAuthentication(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/graphql", "", `{"query":"{ userById(id: 1) { id } }"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	e := newTestServer(t)

	if rec := do(t, e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	do(t, e, http.MethodGet, "/api/planets", "student", "")
	rec := do(t, e, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "space_api_http_requests_total") {
		t.Fatalf("expected http metrics, got %d", rec.Code)
	}
}
