//go:build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	handler "github.com/autlan/recolecta/internal/adapters/http"
	"github.com/autlan/recolecta/internal/adapters/postgres"
	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
	"github.com/autlan/recolecta/internal/mapview"
	"github.com/autlan/recolecta/migrations"
)

// setupTestDB connects to RECOLECTA_TEST_DSN and rebuilds the schema.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	dsn := os.Getenv("RECOLECTA_TEST_DSN")
	if dsn == "" {
		t.Skip("RECOLECTA_TEST_DSN not set")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	down, err := migrations.Down()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Pool.Exec(ctx, down.SQL); err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	up, err := migrations.Up()
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range up {
		if _, err := db.Pool.Exec(ctx, m.SQL); err != nil {
			t.Fatalf("apply %s: %v", m.Name, err)
		}
	}
	return db
}

// setupTestDeps creates dependencies with real repos, no cache or broker.
func setupTestDeps(db *postgres.DB) *handler.Dependencies {
	routes := postgres.NewRouteRepo(db)
	trucks := postgres.NewTruckRepo(db)
	drivers := postgres.NewDriverRepo(db)
	return &handler.Dependencies{
		Routes:        usecases.NewRouteService(routes, nil, nil),
		Neighborhoods: usecases.NewNeighborhoodService(postgres.NewNeighborhoodRepo(db)),
		Trucks:        usecases.NewTruckService(trucks),
		Drivers:       usecases.NewDriverService(drivers),
		Assignments:   usecases.NewAssignmentService(postgres.NewAssignmentRepo(db), trucks, drivers, routes),
		Articles:      usecases.NewArticleService(postgres.NewArticleRepo(db), nil),
		Roles:         usecases.NewRoleService(postgres.NewRoleRepo(db), postgres.NewProfileRepo(db)),
		Contact:       usecases.NewContactService(postgres.NewContactRepo(db), nil, nil, usecases.ContactLimits{PerHour: 5, Burst: 3}),
		Auth:          handler.NewAuthenticator(testSecret, ""),
		DB:            db,
	}
}

func TestIntegration_MapSceneFromLegacyGeometry(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// geometry stored as a JSON string, the way older rows were written
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO routes (colonia, horario, dias, tipo, ruta)
		VALUES ('Centro', '07:00', ARRAY['Lunes'], 'organico', to_jsonb('[[19.77,-104.36],[19.78,-104.37]]'::text))`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	app := setupApp(setupTestDeps(db))
	resp, err := app.Test(httptest.NewRequest("GET", "/v1/map/scene", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var scene mapview.Scene
	if err := json.NewDecoder(resp.Body).Decode(&scene); err != nil {
		t.Fatal(err)
	}
	if len(scene.Polylines) != 1 || len(scene.Polylines[0].Points) != 2 {
		t.Errorf("expected decoded polyline, got %+v", scene.Polylines)
	}
}

func TestIntegration_ContactAndReady(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(setupTestDeps(db))

	req := httptest.NewRequest("POST", "/v1/contact", strings.NewReader(contactBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 202 {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	var status string
	if err := db.Pool.QueryRow(context.Background(), `SELECT estado FROM contact_requests LIMIT 1`).Scan(&status); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if status != string(domain.ContactReceived) {
		t.Errorf("expected received, got %q", status)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("expected ready, got %d", resp.StatusCode)
	}
}
