package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/autlan/recolecta/internal/core/domain"
	"github.com/autlan/recolecta/internal/core/usecases"
	"github.com/autlan/recolecta/internal/mapview"
	"github.com/autlan/recolecta/internal/pkg/geospatial"
	"github.com/autlan/recolecta/internal/pkg/metrics"
)

// wsMessage is sent by the browser map to drive its session.
type wsMessage struct {
	Action  string `json:"action"`   // "select" | "filter" | "refresh"
	RouteID string `json:"route_id"` // select: "" clears the selection
	Query   string `json:"q"`        // filter
	Colonia string `json:"colonia"`  // filter
}

// wsOverlayOp tells the browser to add or remove one overlay.
type wsOverlayOp struct {
	Op      string           `json:"op"` // "add" | "remove"
	Layer   mapview.LayerID  `json:"layer"`
	Overlay *mapview.Overlay `json:"overlay,omitempty"`
}

// wsSceneDone closes a batch of overlay operations.
type wsSceneDone struct {
	Op       string             `json:"op"` // "scene"
	Selected string             `json:"selected,omitempty"`
	Overlays int                `json:"overlays"`
	Bounds   *geospatial.Bounds `json:"bounds,omitempty"`
	Reason   string             `json:"reason"`
}

// wsSurface is a mapview.Surface backed by a websocket connection. Overlay
// IDs are allocated locally and mirrored by the browser.
type wsSurface struct {
	mu    sync.Mutex
	seq   int
	write func(v interface{}) error
}

func (s *wsSurface) Add(o mapview.Overlay) mapview.LayerID {
	s.mu.Lock()
	s.seq++
	id := mapview.LayerID("l" + strconv.Itoa(s.seq))
	s.mu.Unlock()

	if err := s.write(wsOverlayOp{Op: "add", Layer: id, Overlay: &o}); err != nil {
		slog.Debug("ws overlay add not delivered", "layer", id, "error", err)
	}
	return id
}

func (s *wsSurface) Remove(id mapview.LayerID) {
	if err := s.write(wsOverlayOp{Op: "remove", Layer: id}); err != nil {
		slog.Debug("ws overlay remove not delivered", "layer", id, "error", err)
	}
}

// mapSession is the state of one connected map.
type mapSession struct {
	routes *usecases.RouteService
	layer  *mapview.Layer
	write  func(v interface{}) error

	drawMu   sync.Mutex
	mu       sync.Mutex
	filter   usecases.RouteFilter
	selected string
}

// redraw renders the current filter and selection and replaces what the
// browser shows.
func (s *mapSession) redraw(ctx context.Context, reason string) error {
	s.drawMu.Lock()
	defer s.drawMu.Unlock()

	s.mu.Lock()
	f, sel := s.filter, s.selected
	s.mu.Unlock()

	scene, err := s.routes.Scene(ctx, f, sel)
	if err != nil {
		return err
	}
	s.layer.Draw(scene)
	metrics.MapRenders.WithLabelValues("ws").Inc()

	return s.write(wsSceneDone{
		Op:       "scene",
		Selected: scene.Selected,
		Overlays: s.layer.Len(),
		Bounds:   scene.Bounds,
		Reason:   reason,
	})
}

// WebSocketHandler serves the live map. Each connection owns a layer on the
// browser's map; client actions and route changes from other instances
// redraw it.
// Clients send JSON such as {"action":"select","route_id":"..."} or
// {"action":"filter","q":"centro","colonia":"all"}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		logger := slog.Default().With("remote_addr", remoteAddr)
		logger.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		session := &mapSession{
			routes: deps.Routes,
			layer:  mapview.NewLayer(&wsSurface{write: writeJSON}),
			write:  writeJSON,
		}

		if err := session.redraw(ctx, "initial"); err != nil {
			logger.Error("ws initial render failed", "error", err)
			_ = writeJSON(map[string]string{"error": "map unavailable"})
			return
		}

		if deps.Events != nil {
			err := deps.Events.SubscribeRouteChanges(ctx, func(ctx context.Context, change domain.RouteChange) error {
				return session.redraw(ctx, "route_"+string(change.Op))
			})
			if err != nil {
				logger.Warn("ws live updates unavailable", "error", err)
			}
		}

		// Keep-alive ping
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "select":
				session.mu.Lock()
				session.selected = m.RouteID
				session.mu.Unlock()
			case "filter":
				if len(m.Query) > maxQueryLen || len(m.Colonia) > maxQueryLen {
					_ = writeJSON(map[string]string{"error": "query too long"})
					continue
				}
				session.mu.Lock()
				session.filter = usecases.RouteFilter{Query: m.Query, Neighborhood: m.Colonia}
				session.mu.Unlock()
			case "refresh":
			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
				continue
			}

			if err := session.redraw(ctx, m.Action); err != nil {
				logger.Error("ws render failed", "action", m.Action, "error", err)
				_ = writeJSON(map[string]string{"error": "render failed"})
			}
		}

		logger.Info("ws client disconnected")
	}
}
