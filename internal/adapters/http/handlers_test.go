package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	handler "github.com/autlan/recolecta/internal/adapters/http"
	"github.com/autlan/recolecta/internal/adapters/memory"
	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
	"github.com/autlan/recolecta/internal/mapview"
)

const testSecret = "test-secret"

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps, handler.Options{})
	return app
}

func makeDeps(store *memory.Store, opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Routes:        usecases.NewRouteService(store.Routes(), nil, nil),
		Neighborhoods: usecases.NewNeighborhoodService(store.Neighborhoods()),
		Trucks:        usecases.NewTruckService(store.Trucks()),
		Drivers:       usecases.NewDriverService(store.Drivers()),
		Assignments:   usecases.NewAssignmentService(store.Assignments(), store.Trucks(), store.Drivers(), store.Routes()),
		Articles:      usecases.NewArticleService(store.Articles(), nil),
		Roles:         usecases.NewRoleService(store.Roles(), store.Profiles()),
		Contact:       usecases.NewContactService(store.Contacts(), nil, nil, usecases.ContactLimits{PerHour: 10, Burst: 5}),
		Auth:          handler.NewAuthenticator(testSecret, ""),
		DB:            store,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func token(t *testing.T, sub, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           sub,
		"email":         email,
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]string{"full_name": "Ana Pérez"},
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func seedRoutes(t *testing.T, store *memory.Store) []domain.Route {
	t.Helper()
	routes := []domain.Route{
		{
			Neighborhood: "Centro", Schedule: "07:00 - 11:00", Days: []string{"Lunes"}, WasteType: domain.WasteOrganic,
			Path: domain.Path{{19.7709, -104.3661}, {19.772, -104.365}},
		},
		{
			Neighborhood: "Lomas de Autlán", Schedule: "12:00 - 15:00", Days: []string{"Martes"}, WasteType: domain.WasteInorganic,
			Path:  domain.Path{{19.78, -104.37}, {19.781, -104.371}},
			Stops: domain.Stops{{Lat: 19.78, Lng: -104.37}, {Lat: 19.781, Lng: -104.371}, {Lat: 19.782, Lng: -104.372}},
		},
		{Neighborhood: "El Mirador", Schedule: "08:00 - 10:00", Days: []string{"Miércoles"}, WasteType: domain.WasteMixed},
	}
	for i := range routes {
		if err := store.Routes().Create(context.Background(), &routes[i]); err != nil {
			t.Fatal(err)
		}
	}
	return routes
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, bearer string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, readBody(t, resp.Body)
}

// ---- Route handler tests ----

func TestListRoutes_FilterAndPagination(t *testing.T) {
	store := memory.NewStore()
	seedRoutes(t, store)
	app := setupApp(makeDeps(store))

	status, body := doJSON(t, app, "GET", "/v1/routes?q=lomas&limit=10", "", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var result struct {
		Data       []domain.RouteSummary `json:"data"`
		Pagination handler.Pagination    `json:"pagination"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pagination.Total != 1 || len(result.Data) != 1 {
		t.Fatalf("expected 1 route, got %+v", result.Pagination)
	}
	// stops outrank the 2-point path
	if result.Data[0].Neighborhood != "Lomas de Autlán" || result.Data[0].PointCount != 3 {
		t.Errorf("unexpected summary %+v", result.Data[0])
	}

	status, body = doJSON(t, app, "GET", "/v1/routes?offset=1&limit=1", "", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	_ = json.Unmarshal(body, &result)
	if result.Pagination.Total != 3 || len(result.Data) != 1 {
		t.Errorf("expected page of 1 out of 3, got %d of %d", len(result.Data), result.Pagination.Total)
	}
}

func TestListRoutes_QueryTooLong(t *testing.T) {
	app := setupApp(makeDeps(memory.NewStore()))
	status, _ := doJSON(t, app, "GET", "/v1/routes?q="+strings.Repeat("a", 201), "", "")
	if status != 400 {
		t.Errorf("expected 400, got %d", status)
	}
}

func TestGetRoute_NotFound(t *testing.T) {
	app := setupApp(makeDeps(memory.NewStore()))

	status, body := doJSON(t, app, "GET", "/v1/routes/missing", "", "")
	if status != 404 {
		t.Fatalf("expected 404, got %d", status)
	}
	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatal(err)
	}
	if apiErr.Code != "not_found" || apiErr.RequestID == "" {
		t.Errorf("unexpected error body %+v", apiErr)
	}
}

func TestLegacyRoutesAlias_Deprecated(t *testing.T) {
	store := memory.NewStore()
	routes := seedRoutes(t, store)
	app := setupApp(makeDeps(store))

	req := httptest.NewRequest("GET", "/v1/rutas/"+routes[0].ID, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Deprecation") != "true" || resp.Header.Get("Sunset") == "" {
		t.Errorf("missing deprecation headers: %v", resp.Header)
	}
	if !strings.Contains(resp.Header.Get("Link"), "/v1/routes/{id}") {
		t.Errorf("expected successor link, got %q", resp.Header.Get("Link"))
	}
}

// ---- Map handler tests ----

func TestMapScene_Selection(t *testing.T) {
	store := memory.NewStore()
	routes := seedRoutes(t, store)
	app := setupApp(makeDeps(store))

	status, body := doJSON(t, app, "GET", "/v1/map/scene?selected="+routes[0].ID, "", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var scene mapview.Scene
	if err := json.Unmarshal(body, &scene); err != nil {
		t.Fatal(err)
	}
	if len(scene.Polylines) != 2 {
		t.Fatalf("expected 2 polylines, got %d", len(scene.Polylines))
	}
	for _, pl := range scene.Polylines {
		if pl.RouteID == routes[0].ID {
			if pl.Style.Weight != 6 || pl.Style.Opacity != 1.0 || pl.Style.Color != "#22c55e" {
				t.Errorf("selected style wrong: %+v", pl.Style)
			}
		} else if pl.Style.Weight != 4 || pl.Style.Opacity != 0.3 {
			t.Errorf("dimmed style wrong: %+v", pl.Style)
		}
	}
	// one marker for the path-only route, three for the route with stops
	if len(scene.Markers) != 4 {
		t.Errorf("expected 4 markers, got %d", len(scene.Markers))
	}
}

func TestMapGeoJSON(t *testing.T) {
	store := memory.NewStore()
	seedRoutes(t, store)
	app := setupApp(makeDeps(store))

	req := httptest.NewRequest("GET", "/v1/map/routes.geojson?colonia=Centro", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/geo+json") {
		t.Errorf("unexpected content type %q", ct)
	}
	var doc mapview.FeatureCollectionDoc
	if err := json.Unmarshal(readBody(t, resp.Body), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Type != "FeatureCollection" || len(doc.Features) != 2 {
		t.Errorf("expected line and point features, got %+v", doc)
	}
}

// ---- Article handler tests ----

func TestGetArticle_RendersHTML(t *testing.T) {
	store := memory.NewStore()
	a := &domain.Article{
		Title: "Separar", Summary: "Guía", Body: "# Separar\n\n<script>x</script>Texto",
		Author: "Ecología", Category: "reciclaje", Published: true,
	}
	if err := store.Articles().Create(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	draft := &domain.Article{Title: "Borrador", Category: "reciclaje"}
	_ = store.Articles().Create(context.Background(), draft)
	app := setupApp(makeDeps(store))

	status, body := doJSON(t, app, "GET", "/v1/articles/"+a.ID, "", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var page domain.ArticlePage
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(page.HTML, "<h1") || strings.Contains(page.HTML, "<script>") {
		t.Errorf("unexpected html %q", page.HTML)
	}

	if status, _ := doJSON(t, app, "GET", "/v1/articles/"+draft.ID, "", ""); status != 404 {
		t.Errorf("draft should be hidden, got %d", status)
	}
}

func TestArticles_ETagNotModified(t *testing.T) {
	store := memory.NewStore()
	app := setupApp(makeDeps(store))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/articles/categories", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag")
	}

	req := httptest.NewRequest("GET", "/v1/articles/categories", nil)
	req.Header.Set("If-None-Match", etag)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

// ---- Contact handler tests ----

const contactBody = `{"nombre":"Luis","email":"luis@example.com","asunto":"horarios","departamento":"servicios","mensaje":"¿A qué hora pasa?"}`

func TestContact_Accepted(t *testing.T) {
	store := memory.NewStore()
	app := setupApp(makeDeps(store))

	status, body := doJSON(t, app, "POST", "/v1/contact", contactBody, "")
	if status != 202 {
		t.Fatalf("expected 202, got %d: %s", status, body)
	}
	stored, _ := store.Contacts().List(context.Background())
	if len(stored) != 1 || stored[0].Department != "servicios" {
		t.Errorf("request not stored: %+v", stored)
	}
}

func TestContact_ValidationFields(t *testing.T) {
	app := setupApp(makeDeps(memory.NewStore()))

	status, body := doJSON(t, app, "POST", "/v1/contact", `{"nombre":"","email":"nope","asunto":"x","departamento":"y","mensaje":""}`, "")
	if status != 400 {
		t.Fatalf("expected 400, got %d", status)
	}
	var apiErr handler.APIError
	_ = json.Unmarshal(body, &apiErr)
	if apiErr.Code != "bad_request" || len(apiErr.Fields) < 4 {
		t.Errorf("expected field errors, got %+v", apiErr)
	}
}

func TestContact_RateLimited(t *testing.T) {
	store := memory.NewStore()
	app := setupApp(makeDeps(store, func(d *handler.Dependencies) {
		d.Contact = usecases.NewContactService(store.Contacts(), nil, nil, usecases.ContactLimits{PerHour: 1, Burst: 1})
	}))

	if status, _ := doJSON(t, app, "POST", "/v1/contact", contactBody, ""); status != 202 {
		t.Fatalf("first submission: expected 202, got %d", status)
	}
	status, body := doJSON(t, app, "POST", "/v1/contact", contactBody, "")
	if status != 429 || !strings.Contains(string(body), "too_many_requests") {
		t.Errorf("expected 429 too_many_requests, got %d: %s", status, body)
	}
}

// ---- Auth and admin tests ----

func TestMe_RegistersProfile(t *testing.T) {
	store := memory.NewStore()
	app := setupApp(makeDeps(store))

	status, body := doJSON(t, app, "GET", "/v1/me", "", token(t, "user-1", "Ana@Autlan.gob.mx"))
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"is_admin":false`) {
		t.Errorf("unexpected body %s", body)
	}
	p, err := store.Profiles().GetByEmail(context.Background(), "ana@autlan.gob.mx")
	if err != nil || p.ID != "user-1" || p.DisplayName != "Ana Pérez" {
		t.Errorf("profile not mirrored: %+v, %v", p, err)
	}
}

func TestAdmin_Authorization(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_ = store.Profiles().Upsert(ctx, &domain.Profile{ID: "admin-1", Email: "admin@autlan.gob.mx"})
	_ = store.Roles().Create(ctx, &domain.UserRole{UserID: "admin-1", Role: domain.RoleAdmin})

	tests := []struct {
		name   string
		deps   func(*handler.Dependencies)
		bearer string
		want   int
	}{
		{"no token", nil, "", 401},
		{"bad signature", nil, "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.bad", 401},
		{"not admin", nil, token(t, "user-2", "vecino@example.com"), 403},
		{"admin", nil, token(t, "admin-1", "admin@autlan.gob.mx"), 200},
		{"auth disabled", func(d *handler.Dependencies) { d.Auth = nil }, token(t, "admin-1", "admin@autlan.gob.mx"), 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []func(*handler.Dependencies)
			if tt.deps != nil {
				opts = append(opts, tt.deps)
			}
			app := setupApp(makeDeps(store, opts...))
			status, body := doJSON(t, app, "GET", "/v1/admin/trucks", "", tt.bearer)
			if status != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, status, body)
			}
		})
	}
}

func TestAdmin_RouteLifecycle(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_ = store.Roles().Create(ctx, &domain.UserRole{UserID: "admin-1", Role: domain.RoleAdmin})
	app := setupApp(makeDeps(store))
	bearer := token(t, "admin-1", "admin@autlan.gob.mx")

	status, body := doJSON(t, app, "POST", "/v1/admin/routes",
		`{"colonia":"Centro","horario":"07:00","dias":["lunes"],"tipo":"organico","ruta":"[[19.77,-104.36],[19.78,-104.37]]"}`, bearer)
	if status != 201 {
		t.Fatalf("create: expected 201, got %d: %s", status, body)
	}
	var created domain.Route
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || len(created.Path) != 2 || created.Days[0] != "Lunes" {
		t.Errorf("unexpected created route %+v", created)
	}

	status, _ = doJSON(t, app, "PUT", "/v1/admin/routes/"+created.ID,
		`{"colonia":"Centro","horario":"08:00","dias":["Lunes"],"tipo":"mixto"}`, bearer)
	if status != 200 {
		t.Errorf("update: expected 200, got %d", status)
	}
	got, _ := store.Routes().GetByID(ctx, created.ID)
	if got.WasteType != domain.WasteMixed || got.Schedule != "08:00" {
		t.Errorf("update not stored: %+v", got)
	}

	status, body = doJSON(t, app, "POST", "/v1/admin/routes", `{"colonia":"","dias":[]}`, bearer)
	if status != 400 || !strings.Contains(string(body), `"fields"`) {
		t.Errorf("invalid create: expected 400 with fields, got %d: %s", status, body)
	}

	if status, _ = doJSON(t, app, "DELETE", "/v1/admin/routes/"+created.ID, "", bearer); status != 204 {
		t.Errorf("delete: expected 204, got %d", status)
	}
	if status, _ = doJSON(t, app, "DELETE", "/v1/admin/routes/"+created.ID, "", bearer); status != 404 {
		t.Errorf("second delete: expected 404, got %d", status)
	}
}

func TestAdmin_NeighborhoodConflict(t *testing.T) {
	store := memory.NewStore()
	_ = store.Roles().Create(context.Background(), &domain.UserRole{UserID: "admin-1", Role: domain.RoleAdmin})
	app := setupApp(makeDeps(store))
	bearer := token(t, "admin-1", "admin@autlan.gob.mx")

	if status, _ := doJSON(t, app, "POST", "/v1/admin/neighborhoods", `{"name":"Centro"}`, bearer); status != 201 {
		t.Fatalf("expected 201, got %d", status)
	}
	status, body := doJSON(t, app, "POST", "/v1/admin/neighborhoods", `{"name":"Centro"}`, bearer)
	if status != 409 {
		t.Errorf("expected 409, got %d: %s", status, body)
	}
}

func TestAdmin_AssignRole(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	_ = store.Roles().Create(ctx, &domain.UserRole{UserID: "admin-1", Role: domain.RoleAdmin})
	_ = store.Profiles().Upsert(ctx, &domain.Profile{ID: "user-2", Email: "mod@autlan.gob.mx"})
	app := setupApp(makeDeps(store))
	bearer := token(t, "admin-1", "admin@autlan.gob.mx")

	status, body := doJSON(t, app, "POST", "/v1/admin/roles", `{"email":"MOD@autlan.gob.mx","role":"moderator"}`, bearer)
	if status != 201 {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}
	if ok, _ := store.Roles().HasRole(ctx, "user-2", domain.RoleModerator); !ok {
		t.Error("role not granted")
	}

	status, _ = doJSON(t, app, "POST", "/v1/admin/roles", `{"email":"nadie@autlan.gob.mx","role":"moderator"}`, bearer)
	if status != 404 {
		t.Errorf("unknown email: expected 404, got %d", status)
	}
}

// ---- GraphQL ----

func TestGraphQL_MapScene(t *testing.T) {
	store := memory.NewStore()
	seedRoutes(t, store)
	app := setupApp(makeDeps(store))

	q := `{"query":"{ mapScene(colonia: \"Centro\") { polylines { route_id style { color weight opacity } points { lat lng } } markers { label } } }"}`
	status, body := doJSON(t, app, "POST", "/graphql", q, "")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	var result struct {
		Data struct {
			MapScene struct {
				Polylines []struct {
					Style struct {
						Color  string `json:"color"`
						Weight int    `json:"weight"`
					} `json:"style"`
					Points []struct {
						Lat float64 `json:"lat"`
						Lng float64 `json:"lng"`
					} `json:"points"`
				} `json:"polylines"`
				Markers []struct {
					Label string `json:"label"`
				} `json:"markers"`
			} `json:"mapScene"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("graphql errors: %v", result.Errors)
	}
	scene := result.Data.MapScene
	if len(scene.Polylines) != 1 || scene.Polylines[0].Style.Color != "#22c55e" || scene.Polylines[0].Style.Weight != 4 {
		t.Errorf("unexpected polylines %+v", scene.Polylines)
	}
	if len(scene.Polylines[0].Points) != 2 || scene.Polylines[0].Points[0].Lat != 19.7709 {
		t.Errorf("unexpected points %+v", scene.Polylines[0].Points)
	}
	if len(scene.Markers) != 1 || scene.Markers[0].Label != "Route start" {
		t.Errorf("unexpected markers %+v", scene.Markers)
	}
}

// ---- Health ----

func TestReady(t *testing.T) {
	app := setupApp(makeDeps(memory.NewStore()))
	status, body := doJSON(t, app, "GET", "/v1/ready", "", "")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(string(body), `"database":"ok"`) || !strings.Contains(string(body), `"nats":"not configured"`) {
		t.Errorf("unexpected checks %s", body)
	}

	app = setupApp(makeDeps(memory.NewStore(), func(d *handler.Dependencies) { d.DB = nil }))
	if status, _ := doJSON(t, app, "GET", "/v1/ready", "", ""); status != 503 {
		t.Errorf("expected 503 without a store, got %d", status)
	}
}
