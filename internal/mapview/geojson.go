package mapview

// FeatureCollectionDoc is a GeoJSON FeatureCollection.
type FeatureCollectionDoc struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON Feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON Point or LineString. Positions are [lng, lat].
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// FeatureCollection exports a scene as GeoJSON: a LineString per polyline
// carrying its stroke style, and a Point per marker.
func FeatureCollection(scene Scene) FeatureCollectionDoc {
	doc := FeatureCollectionDoc{Type: "FeatureCollection", Features: []Feature{}}

	for _, pl := range scene.Polylines {
		coords := make([][2]float64, len(pl.Points))
		for i, p := range pl.Points {
			coords[i] = [2]float64{p.Lng(), p.Lat()}
		}
		doc.Features = append(doc.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "LineString", Coordinates: coords},
			Properties: map[string]any{
				"route_id": pl.RouteID,
				"stroke":   pl.Style.Color,
				"weight":   pl.Style.Weight,
				"opacity":  pl.Style.Opacity,
			},
		})
	}

	for _, m := range scene.Markers {
		doc.Features = append(doc.Features, Feature{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: [2]float64{m.Position.Lng(), m.Position.Lat()}},
			Properties: map[string]any{
				"route_id":     m.RouteID,
				"label":        m.Label,
				"marker-color": m.Color,
				"colonia":      m.Popup.Neighborhood,
				"horario":      m.Popup.Schedule,
				"dias":         m.Popup.Days,
				"tipo":         m.Popup.WasteType,
			},
		})
	}
	return doc
}
