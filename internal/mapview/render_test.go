package mapview_test

import (
	"encoding/json"
	"testing"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/mapview"
)

func sampleRoutes() []domain.Route {
	return []domain.Route{
		{
			ID: "centro", Neighborhood: "Centro", Schedule: "07:00 - 11:00",
			Days: []string{"Lunes", "Jueves"}, WasteType: domain.WasteOrganic,
			Path: domain.Path{{19.7709, -104.3661}, {19.7720, -104.3650}, {19.7730, -104.3640}},
		},
		{
			ID: "lomas", Neighborhood: "Lomas", Schedule: "12:00 - 15:00",
			Days: []string{"Martes"}, WasteType: domain.WasteInorganic,
			Path: domain.Path{{19.78, -104.37}, {19.781, -104.371}},
		},
	}
}

func TestRender_StopsTakePrecedence(t *testing.T) {
	r := domain.Route{
		ID:    "r1",
		Path:  domain.Path{{10, 10}, {11, 11}, {12, 12}},
		Stops: domain.Stops{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}},
	}
	scene := mapview.Render([]domain.Route{r}, mapview.Selection{})

	if len(scene.Markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(scene.Markers))
	}
	if scene.Markers[0].Label != "Point 1" || scene.Markers[1].Label != "Point 2" {
		t.Errorf("unexpected labels %q, %q", scene.Markers[0].Label, scene.Markers[1].Label)
	}
	if scene.Markers[1].Position.Lat() != 3 {
		t.Errorf("marker not at stop: %v", scene.Markers[1].Position)
	}
	if len(scene.Polylines) != 1 || len(scene.Polylines[0].Points) != 2 {
		t.Errorf("polyline should follow the stops, got %+v", scene.Polylines)
	}
}

func TestRender_PointCounts(t *testing.T) {
	one := domain.Route{ID: "one", Path: domain.Path{{19.77, -104.36}}}
	none := domain.Route{ID: "none"}

	scene := mapview.Render([]domain.Route{one, none}, mapview.Selection{})
	if len(scene.Polylines) != 0 {
		t.Errorf("expected no polylines, got %d", len(scene.Polylines))
	}
	if len(scene.Markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(scene.Markers))
	}
	if scene.Markers[0].RouteID != "one" || scene.Markers[0].Label != "Route start" {
		t.Errorf("unexpected marker %+v", scene.Markers[0])
	}

	empty := mapview.Render([]domain.Route{none}, mapview.Selection{})
	if len(empty.Polylines) != 0 || len(empty.Markers) != 0 || empty.Bounds != nil {
		t.Errorf("expected empty scene, got %+v", empty)
	}
}

func TestRender_SelectionEmphasis(t *testing.T) {
	routes := sampleRoutes()

	plain := mapview.Render(routes, mapview.Selection{})
	for _, pl := range plain.Polylines {
		if pl.Style.Weight != 4 || pl.Style.Opacity != 0.8 {
			t.Errorf("unselected scene should be uniform, got %+v", pl.Style)
		}
	}

	selected := mapview.Render(routes, mapview.Selection{RouteID: "lomas"})
	if selected.Selected != "lomas" {
		t.Errorf("expected selected lomas, got %q", selected.Selected)
	}
	var sel, other mapview.Style
	for _, pl := range selected.Polylines {
		if pl.RouteID == "lomas" {
			sel = pl.Style
		} else {
			other = pl.Style
		}
	}
	if sel.Weight <= other.Weight || sel.Opacity <= other.Opacity {
		t.Errorf("selected route not emphasised: selected=%+v other=%+v", sel, other)
	}
	if sel.Weight != 6 || other.Opacity != 0.3 {
		t.Errorf("unexpected styles selected=%+v other=%+v", sel, other)
	}

	deselected := mapview.Render(routes, mapview.Selection{})
	for i := range plain.Polylines {
		if deselected.Polylines[i].Style != plain.Polylines[i].Style {
			t.Errorf("deselecting should restore uniform style")
		}
	}
}

func TestRender_UnknownSelectionIsNoSelection(t *testing.T) {
	scene := mapview.Render(sampleRoutes(), mapview.Selection{RouteID: "missing"})
	if scene.Selected != "" {
		t.Errorf("expected no selection, got %q", scene.Selected)
	}
	for _, pl := range scene.Polylines {
		if pl.Style.Opacity != 0.8 {
			t.Errorf("expected uniform opacity, got %v", pl.Style.Opacity)
		}
	}
}

func TestColorFor(t *testing.T) {
	tests := map[domain.WasteType]string{
		domain.WasteOrganic:   "#22c55e",
		domain.WasteInorganic: "#3b82f6",
		domain.WasteMixed:     "#f59e0b",
		"desconocido":         "#22c55e",
	}
	for tipo, want := range tests {
		if got := mapview.ColorFor(tipo); got != want {
			t.Errorf("ColorFor(%q) = %q, want %q", tipo, got, want)
		}
	}
}

func TestRender_Bounds(t *testing.T) {
	scene := mapview.Render(sampleRoutes(), mapview.Selection{})
	if scene.Bounds == nil {
		t.Fatal("expected bounds")
	}
	if scene.Bounds.MinLat != 19.7709 || scene.Bounds.MaxLat != 19.781 {
		t.Errorf("unexpected bounds %+v", scene.Bounds)
	}
}

func TestFeatureCollection(t *testing.T) {
	scene := mapview.Render(sampleRoutes(), mapview.Selection{RouteID: "centro"})
	doc := mapview.FeatureCollection(scene)

	if doc.Type != "FeatureCollection" {
		t.Errorf("unexpected type %q", doc.Type)
	}
	if len(doc.Features) != 4 {
		t.Fatalf("expected 2 lines and 2 points, got %d features", len(doc.Features))
	}

	b, err := json.Marshal(doc.Features[0])
	if err != nil {
		t.Fatal(err)
	}
	var f struct {
		Geometry struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatal(err)
	}
	if f.Geometry.Type != "LineString" {
		t.Errorf("expected LineString, got %q", f.Geometry.Type)
	}
	if f.Geometry.Coordinates[0] != [2]float64{-104.3661, 19.7709} {
		t.Errorf("expected [lng, lat] order, got %v", f.Geometry.Coordinates[0])
	}
	if f.Properties["weight"] != float64(6) {
		t.Errorf("expected selected weight 6, got %v", f.Properties["weight"])
	}
}
