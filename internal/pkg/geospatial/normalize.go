package geospatial

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// Pair is a validated (latitude, longitude) coordinate.
type Pair [2]float64

// Lat returns the latitude component.
func (p Pair) Lat() float64 { return p[0] }

// Lng returns the longitude component.
func (p Pair) Lng() float64 { return p[1] }

// OnDropped, when set, is called with the number of entries discarded by a
// decode. It lets callers count malformed input without this package
// depending on a metrics backend.
var OnDropped func(n int)

// DecodePath decodes route path geometry. Accepted encodings:
//
//	[[lat, lng], ...]                  array of pairs
//	"[[lat, lng], ...]"                the same array serialized into a JSON string
//	{"coordinates": [[lat, lng], ...]} object wrapper
//
// Malformed input yields an empty slice and is logged, never returned as an error.
// Entries that are not two finite numbers are skipped; order is preserved.
func DecodePath(raw []byte) []Pair {
	entries, err := unwrapArray(raw)
	if err != nil {
		slog.Warn("malformed route path", "error", err)
		return nil
	}

	var out []Pair
	dropped := 0
	for _, e := range entries {
		p, ok := decodePair(e)
		if !ok {
			dropped++
			continue
		}
		out = append(out, p)
	}
	reportDropped(dropped)
	return out
}

// ParsePath decodes the serialized (string) form of a path.
func ParsePath(s string) []Pair {
	return DecodePath([]byte(s))
}

// DecodeStops decodes a list of named stop points ({"lat": .., "lng": ..}),
// either as a JSON array or serialized into a JSON string. Same failure
// contract as DecodePath.
func DecodeStops(raw []byte) []Pair {
	entries, err := unwrapArray(raw)
	if err != nil {
		slog.Warn("malformed route stops", "error", err)
		return nil
	}

	var out []Pair
	dropped := 0
	for _, e := range entries {
		var obj struct {
			Lat json.RawMessage `json:"lat"`
			Lng json.RawMessage `json:"lng"`
		}
		if err := json.Unmarshal(e, &obj); err != nil {
			dropped++
			continue
		}
		lat, ok1 := decodeNumber(obj.Lat)
		lng, ok2 := decodeNumber(obj.Lng)
		if !ok1 || !ok2 {
			dropped++
			continue
		}
		out = append(out, Pair{lat, lng})
	}
	reportDropped(dropped)
	return out
}

// ValidPair reports whether both components are finite.
func ValidPair(lat, lng float64) bool {
	return finite(lat) && finite(lng)
}

// unwrapArray peels the tolerated wrappers off raw and returns the array elements.
// An absent value (empty or null) is an empty array, not an error.
func unwrapArray(raw []byte) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decode string geometry: %w", err)
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return nil, nil
		}
		// Serialized content is decoded once; a string inside a string is rejected.
		if inner[0] == '"' {
			return nil, fmt.Errorf("doubly serialized geometry")
		}
		return unwrapArray([]byte(inner))
	case '{':
		var obj struct {
			Coordinates json.RawMessage `json:"coordinates"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode geometry object: %w", err)
		}
		c := bytes.TrimSpace(obj.Coordinates)
		if len(c) == 0 || bytes.Equal(c, []byte("null")) {
			return nil, nil
		}
		if c[0] != '[' {
			return nil, fmt.Errorf("coordinates must be an array")
		}
		raw = c
	case '[':
	default:
		return nil, fmt.Errorf("unexpected geometry value %q", truncate(raw, 32))
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode geometry array: %w", err)
	}
	return entries, nil
}

func decodePair(raw json.RawMessage) (Pair, bool) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) != 2 {
		return Pair{}, false
	}
	lat, ok := decodeNumber(parts[0])
	if !ok {
		return Pair{}, false
	}
	lng, ok := decodeNumber(parts[1])
	if !ok {
		return Pair{}, false
	}
	return Pair{lat, lng}, true
}

// decodeNumber accepts only JSON number tokens; numeric strings such as "1" are rejected.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, finite(f)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func reportDropped(n int) {
	if n == 0 {
		return
	}
	slog.Debug("dropped malformed coordinates", "count", n)
	if OnDropped != nil {
		OnDropped(n)
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
