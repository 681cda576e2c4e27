// Package mapview turns collection routes into map overlays: polylines for the
// route geometry and markers for its stops, styled by waste type and by the
// client's current selection.
package mapview

import (
	"strconv"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/pkg/geospatial"
)

const (
	DefaultColor = "#22c55e"

	weightNormal   = 4
	weightSelected = 6

	opacityNormal   = 0.8
	opacitySelected = 1.0
	opacityDimmed   = 0.3

	labelRouteStart = "Route start"
)

var wasteColors = map[domain.WasteType]string{
	domain.WasteOrganic:   "#22c55e",
	domain.WasteInorganic: "#3b82f6",
	domain.WasteMixed:     "#f59e0b",
}

// ColorFor returns the stroke color for a waste type.
func ColorFor(t domain.WasteType) string {
	if c, ok := wasteColors[t]; ok {
		return c
	}
	return DefaultColor
}

// Selection is the route a client has highlighted. The zero value selects nothing.
type Selection struct {
	RouteID string
}

// Style controls how a polyline is stroked.
type Style struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// Polyline is the drawn geometry of one route.
type Polyline struct {
	RouteID string            `json:"route_id"`
	Points  []geospatial.Pair `json:"points"`
	Style   Style             `json:"style"`
}

// Popup is the information shown when a marker is opened.
type Popup struct {
	Neighborhood string           `json:"colonia"`
	Schedule     string           `json:"horario"`
	Days         []string         `json:"dias"`
	WasteType    domain.WasteType `json:"tipo"`
}

// Marker is a labelled point on a route.
type Marker struct {
	RouteID  string          `json:"route_id"`
	Position geospatial.Pair `json:"position"`
	Label    string          `json:"label"`
	Color    string          `json:"color"`
	Popup    Popup           `json:"popup"`
}

// Scene is everything needed to draw a set of routes.
type Scene struct {
	Polylines []Polyline         `json:"polylines"`
	Markers   []Marker           `json:"markers"`
	Selected  string             `json:"selected,omitempty"`
	Bounds    *geospatial.Bounds `json:"bounds,omitempty"`
}

// Render builds the scene for routes. Routes with stops are drawn through
// their stops, one marker per stop; otherwise the path is drawn and a single
// marker marks its first point. A polyline needs at least two points.
//
// A selection only takes effect when it names one of the rendered routes.
func Render(routes []domain.Route, sel Selection) Scene {
	scene := Scene{
		Polylines: []Polyline{},
		Markers:   []Marker{},
	}

	active := false
	if sel.RouteID != "" {
		for _, r := range routes {
			if r.ID == sel.RouteID {
				active = true
				break
			}
		}
	}
	if active {
		scene.Selected = sel.RouteID
	}

	var bounds geospatial.Bounds
	haveBounds := false

	for _, r := range routes {
		pts := r.Points()
		if len(pts) == 0 {
			continue
		}

		color := ColorFor(r.WasteType)
		if len(pts) >= 2 {
			scene.Polylines = append(scene.Polylines, Polyline{
				RouteID: r.ID,
				Points:  pts,
				Style:   styleFor(r.ID, color, active, sel),
			})
		}

		popup := Popup{Neighborhood: r.Neighborhood, Schedule: r.Schedule, Days: r.Days, WasteType: r.WasteType}
		if len(r.Stops) > 0 {
			for i, p := range pts {
				scene.Markers = append(scene.Markers, Marker{
					RouteID:  r.ID,
					Position: p,
					Label:    "Point " + strconv.Itoa(i+1),
					Color:    color,
					Popup:    popup,
				})
			}
		} else {
			scene.Markers = append(scene.Markers, Marker{
				RouteID:  r.ID,
				Position: pts[0],
				Label:    labelRouteStart,
				Color:    color,
				Popup:    popup,
			})
		}

		if b, ok := geospatial.BoundsOf(pts); ok {
			if haveBounds {
				bounds = bounds.Extend(b)
			} else {
				bounds, haveBounds = b, true
			}
		}
	}

	if haveBounds {
		scene.Bounds = &bounds
	}
	return scene
}

func styleFor(routeID, color string, active bool, sel Selection) Style {
	switch {
	case !active:
		return Style{Color: color, Weight: weightNormal, Opacity: opacityNormal}
	case routeID == sel.RouteID:
		return Style{Color: color, Weight: weightSelected, Opacity: opacitySelected}
	default:
		return Style{Color: color, Weight: weightNormal, Opacity: opacityDimmed}
	}
}
