package telemetry

// Span attribute keys.
const (
	AttrRouteCount  = "recolecta.route.count"
	AttrSelectedID  = "recolecta.route.selected"
	AttrDepartment  = "recolecta.contact.department"
	AttrOverlayDiff = "recolecta.map.overlays"
)
