package mapview

import "sync"

// LayerID identifies an overlay on a Surface.
type LayerID string

// OverlayKind tells a surface what an overlay draws.
type OverlayKind string

const (
	KindPolyline OverlayKind = "polyline"
	KindMarker   OverlayKind = "marker"
)

// Overlay is a single drawable element. Exactly one of Polyline and Marker is set.
type Overlay struct {
	Kind     OverlayKind `json:"kind"`
	Polyline *Polyline   `json:"polyline,omitempty"`
	Marker   *Marker     `json:"marker,omitempty"`
}

// Overlays flattens the scene into drawable elements, polylines first.
func (s Scene) Overlays() []Overlay {
	out := make([]Overlay, 0, len(s.Polylines)+len(s.Markers))
	for i := range s.Polylines {
		out = append(out, Overlay{Kind: KindPolyline, Polyline: &s.Polylines[i]})
	}
	for i := range s.Markers {
		out = append(out, Overlay{Kind: KindMarker, Marker: &s.Markers[i]})
	}
	return out
}

// Surface is anything overlays can be drawn on: a browser map behind a
// websocket, or an in-memory canvas.
type Surface interface {
	Add(o Overlay) LayerID
	Remove(id LayerID)
}

// Layer owns the overlays it drew on a surface. Each Draw replaces the
// previous drawing entirely, so overlays never accumulate.
type Layer struct {
	mu      sync.Mutex
	surface Surface
	drawn   []LayerID
}

func NewLayer(s Surface) *Layer {
	return &Layer{surface: s}
}

// Draw removes everything previously drawn and adds the overlays of scene.
func (l *Layer) Draw(scene Scene) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clearLocked()
	for _, o := range scene.Overlays() {
		l.drawn = append(l.drawn, l.surface.Add(o))
	}
}

// Clear removes every overlay this layer drew.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearLocked()
}

// Len returns the number of overlays currently drawn.
func (l *Layer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.drawn)
}

func (l *Layer) clearLocked() {
	for _, id := range l.drawn {
		l.surface.Remove(id)
	}
	l.drawn = l.drawn[:0]
}
