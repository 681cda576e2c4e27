package domain

import (
	"encoding/json"

	"github.com/autlan/recolecta/internal/pkg/geospatial"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Path is the decoded route geometry: an ordered list of valid [lat, lng] pairs.
// It accepts every stored encoding on input and always emits the array form.
type Path []geospatial.Pair

func (p *Path) UnmarshalJSON(data []byte) error {
	*p = geospatial.DecodePath(data)
	return nil
}

func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]geospatial.Pair(p))
}

// Stops is the decoded list of named stop points.
type Stops []GeoPoint

func (s *Stops) UnmarshalJSON(data []byte) error {
	*s = StopsFromPairs(geospatial.DecodeStops(data))
	return nil
}

// StopsFromPairs builds stops from decoded pairs. No pairs gives nil.
func StopsFromPairs(pairs []geospatial.Pair) Stops {
	if len(pairs) == 0 {
		return nil
	}
	out := make(Stops, len(pairs))
	for i, p := range pairs {
		out[i] = GeoPoint{Lat: p.Lat(), Lng: p.Lng()}
	}
	return out
}

// Pairs converts the stops to coordinate pairs.
func (s Stops) Pairs() []geospatial.Pair {
	if len(s) == 0 {
		return nil
	}
	out := make([]geospatial.Pair, len(s))
	for i, p := range s {
		out[i] = geospatial.Pair{p.Lat, p.Lng}
	}
	return out
}

// Points returns the coordinates used to draw the route: the stops when any
// exist, otherwise the path.
func (r Route) Points() []geospatial.Pair {
	if len(r.Stops) > 0 {
		return r.Stops.Pairs()
	}
	return []geospatial.Pair(r.Path)
}

// Summarize derives point count and length from the route geometry.
func (r Route) Summarize() RouteSummary {
	pts := r.Points()
	return RouteSummary{
		Route:        r,
		PointCount:   len(pts),
		LengthMeters: geospatial.PathLength(pts),
	}
}
