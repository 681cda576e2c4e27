package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// PathLength returns the length in meters of the polyline through points.
func PathLength(points []Pair) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		total += Haversine(a.Lat(), a.Lng(), b.Lat(), b.Lng())
	}
	return total
}

// Bounds is a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf returns the bounding box of points. ok is false for an empty input.
func BoundsOf(points []Pair) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b = Bounds{MinLat: points[0].Lat(), MaxLat: points[0].Lat(), MinLng: points[0].Lng(), MaxLng: points[0].Lng()}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat())
		b.MaxLat = math.Max(b.MaxLat, p.Lat())
		b.MinLng = math.Min(b.MinLng, p.Lng())
		b.MaxLng = math.Max(b.MaxLng, p.Lng())
	}
	return b, true
}

// Extend grows b to include o.
func (b Bounds) Extend(o Bounds) Bounds {
	return Bounds{
		MinLat: math.Min(b.MinLat, o.MinLat),
		MinLng: math.Min(b.MinLng, o.MinLng),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
		MaxLng: math.Max(b.MaxLng, o.MaxLng),
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
