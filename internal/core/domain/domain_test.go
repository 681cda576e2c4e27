package domain_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/pkg/geospatial"
)

func TestRouteUnmarshal_GeometryEncodings(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantPath  int
		wantStops int
	}{
		{
			name:     "array path",
			body:     `{"colonia":"Centro","ruta":[[19.7709,-104.3661],[19.772,-104.365]]}`,
			wantPath: 2,
		},
		{
			name:     "string path",
			body:     `{"colonia":"Centro","ruta":"[[19.7709,-104.3661],[\"x\",2],[1,2]]"}`,
			wantPath: 2,
		},
		{
			name:     "empty form default",
			body:     `{"colonia":"Centro","ruta":{"coordinates":[]}}`,
			wantPath: 0,
		},
		{
			name:      "stops as string",
			body:      `{"colonia":"Centro","ruta":[],"puntos_especificos":"[{\"lat\":1,\"lng\":2},{\"lat\":3,\"lng\":4}]"}`,
			wantStops: 2,
		},
		{
			name:     "garbage geometry",
			body:     `{"colonia":"Centro","ruta":"{{{","puntos_especificos":7}`,
			wantPath: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r domain.Route
			if err := json.Unmarshal([]byte(tt.body), &r); err != nil {
				t.Fatalf("unmarshal must not fail on geometry: %v", err)
			}
			if len(r.Path) != tt.wantPath {
				t.Errorf("expected %d path points, got %d", tt.wantPath, len(r.Path))
			}
			if len(r.Stops) != tt.wantStops {
				t.Errorf("expected %d stops, got %d", tt.wantStops, len(r.Stops))
			}
		})
	}
}

func TestRouteMarshal_CanonicalGeometry(t *testing.T) {
	r := domain.Route{ID: "r1", Neighborhood: "Centro"}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"ruta":[]`) {
		t.Errorf("empty path should marshal as [], got %s", b)
	}
	if strings.Contains(string(b), "puntos_especificos") {
		t.Errorf("empty stops should be omitted, got %s", b)
	}

	var back domain.Route
	r.Path = domain.Path{{19.77, -104.36}}
	r.Stops = domain.Stops{{Lat: 1, Lng: 2}}
	b, _ = json.Marshal(r)
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if len(back.Path) != 1 || back.Path[0][0] != 19.77 || len(back.Stops) != 1 || back.Stops[0].Lng != 2 {
		t.Errorf("unexpected geometry after round trip: %+v", back)
	}
}

func TestRouteSummarize(t *testing.T) {
	tests := []struct {
		name  string
		route domain.Route
		want  int
	}{
		{"path only", domain.Route{Path: domain.Path{{19.78, -104.37}, {19.781, -104.371}}}, 2},
		{"stops outrank path", domain.Route{
			Path:  domain.Path{{19.78, -104.37}, {19.781, -104.371}},
			Stops: domain.Stops{{Lat: 19.78, Lng: -104.37}, {Lat: 19.781, Lng: -104.371}, {Lat: 19.782, Lng: -104.372}},
		}, 3},
		{"no geometry", domain.Route{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.route.Summarize()
			if s.PointCount != tt.want {
				t.Errorf("expected %d points, got %d", tt.want, s.PointCount)
			}
			if tt.want >= 2 && s.LengthMeters <= 0 {
				t.Errorf("expected positive length, got %f", s.LengthMeters)
			}
		})
	}
}

func TestStopsFromPairs(t *testing.T) {
	if got := domain.StopsFromPairs(nil); got != nil {
		t.Errorf("expected nil stops, got %v", got)
	}
	got := domain.StopsFromPairs([]geospatial.Pair{{19.78, -104.37}, {19.79, -104.38}})
	if len(got) != 2 || got[1] != (domain.GeoPoint{Lat: 19.79, Lng: -104.38}) {
		t.Errorf("unexpected stops %v", got)
	}
}

func TestRoutePoints_StopsTakePrecedence(t *testing.T) {
	r := domain.Route{
		Path:  domain.Path{{10, 10}, {11, 11}, {12, 12}},
		Stops: domain.Stops{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}},
	}
	pts := r.Points()
	if len(pts) != 2 || pts[0].Lat() != 1 {
		t.Errorf("expected stop points, got %v", pts)
	}

	s := r.Summarize()
	if s.PointCount != 2 || s.LengthMeters <= 0 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestNormalizeDays(t *testing.T) {
	days, err := domain.NormalizeDays([]string{"lunes", "MIERCOLES", " viernes ", "Sábado"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Lunes", "Miércoles", "Viernes", "Sábado"}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("day %d: expected %q, got %q", i, want[i], days[i])
		}
	}

	if _, err := domain.NormalizeDays([]string{"Lunes", "lunes"}); err == nil {
		t.Error("expected error for duplicate day")
	}
	if _, err := domain.NormalizeDays([]string{"Funday"}); err == nil {
		t.Error("expected error for unknown day")
	}
}

func TestRouteValidate(t *testing.T) {
	r := domain.Route{Neighborhood: " Centro ", Schedule: "07:00 - 11:00", Days: []string{"martes"}, WasteType: domain.WasteMixed}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Neighborhood != "Centro" || r.Days[0] != "Martes" {
		t.Errorf("route not normalised: %+v", r)
	}

	bad := domain.Route{WasteType: "plastico"}
	err := bad.Validate()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(verr.Fields), verr)
	}
}

func TestTruckValidate_Year(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	year := func(y int) *int { return &y }

	tests := []struct {
		year    *int
		wantErr bool
	}{
		{nil, false},
		{year(1950), false},
		{year(2026), false},
		{year(1949), true},
		{year(2027), true},
	}
	for _, tt := range tests {
		tr := domain.Truck{Plate: "jal-123", Model: "International", Year: tt.year}
		err := tr.Validate(now)
		if (err != nil) != tt.wantErr {
			t.Errorf("year %v: wantErr=%v, got %v", tt.year, tt.wantErr, err)
		}
		if err == nil && (tr.Plate != "JAL-123" || tr.Status != domain.TruckActive) {
			t.Errorf("truck not normalised: %+v", tr)
		}
	}
}

func TestAssignmentValidate(t *testing.T) {
	base := func() domain.Assignment {
		return domain.Assignment{
			TruckID: "t", DriverID: "d", RouteID: "r",
			StartDate: "2025-01-01", StartTime: "06:00", EndTime: "10:30",
			Days: []string{"lunes", "jueves"},
		}
	}

	a := base()
	if err := a.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != domain.AssignmentActive {
		t.Errorf("expected default status activa, got %q", a.Status)
	}

	a = base()
	a.EndTime = "05:00"
	if err := a.Validate(); err == nil {
		t.Error("expected error when end time precedes start time")
	}

	a = base()
	a.EndDate = "2024-12-31"
	if err := a.Validate(); err == nil {
		t.Error("expected error when end date precedes start date")
	}

	a = base()
	a.StartTime = "6am"
	if err := a.Validate(); err == nil {
		t.Error("expected error for malformed time")
	}
}

func TestContactValidate(t *testing.T) {
	c := domain.ContactRequest{
		Name: "Ana", Email: " Ana@Example.com ", Subject: "horarios",
		Department: "servicios", Message: "¿Cuándo pasa el camión?",
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Email != "ana@example.com" {
		t.Errorf("email not normalised: %q", c.Email)
	}

	c.Email = "Ana <ana@example.com>"
	if err := c.Validate(); err == nil {
		t.Error("expected error for display-name address")
	}

	c.Email = "ana@example.com"
	c.Message = strings.Repeat("a", domain.MaxContactMessage+1)
	if err := c.Validate(); err == nil {
		t.Error("expected error for long message")
	}

	c.Message = "hola"
	c.Department = "finanzas"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unknown department")
	}
}
