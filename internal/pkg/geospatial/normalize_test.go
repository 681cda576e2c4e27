package geospatial

import (
	"math"
	"testing"
)

func TestParsePath_DropsMalformedEntries(t *testing.T) {
	got := ParsePath(`[[19.77,-104.36],["x",2],[1,2]]`)
	if len(got) != 2 {
		t.Fatalf("expected 2 pairs, got %d: %v", len(got), got)
	}
	if got[0] != (Pair{19.77, -104.36}) {
		t.Errorf("unexpected first pair %v", got[0])
	}
	if got[1] != (Pair{1, 2}) {
		t.Errorf("unexpected second pair %v", got[1])
	}
}

func TestDecodePath_Encodings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"array", `[[19.7709,-104.3661],[19.772,-104.365]]`, 2},
		{"serialized string", `"[[19.7709,-104.3661],[19.772,-104.365],[19.773,-104.364]]"`, 3},
		{"coordinates object", `{"coordinates":[[1,2]]}`, 1},
		{"empty coordinates object", `{"coordinates":[]}`, 0},
		{"null", `null`, 0},
		{"empty", ``, 0},
		{"garbage string", `"not json"`, 0},
		{"number", `42`, 0},
		{"truncated", `[[1,2],[3`, 0},
		{"doubly serialized", `"\"[[1,2]]\""`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodePath([]byte(tt.raw)); len(got) != tt.want {
				t.Errorf("expected %d pairs, got %d (%v)", tt.want, len(got), got)
			}
		})
	}
}

func TestDecodePath_ElementValidation(t *testing.T) {
	raw := `[[1,2],[1,2,3],[1],["1","2"],null,{"lat":1,"lng":2},[3,4],[true,1],[5,-6]]`
	got := DecodePath([]byte(raw))
	want := []Pair{{1, 2}, {3, 4}, {5, -6}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pair %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	for _, p := range got {
		if !ValidPair(p.Lat(), p.Lng()) {
			t.Errorf("non-finite pair retained: %v", p)
		}
	}
}

func TestDecodeStops(t *testing.T) {
	got := DecodeStops([]byte(`[{"lat":1,"lng":2},{"lat":"x","lng":2},{"lat":3},{"lat":3,"lng":4}]`))
	if len(got) != 2 || got[0] != (Pair{1, 2}) || got[1] != (Pair{3, 4}) {
		t.Fatalf("unexpected stops %v", got)
	}

	got = DecodeStops([]byte(`"[{\"lat\":5,\"lng\":6}]"`))
	if len(got) != 1 || got[0] != (Pair{5, 6}) {
		t.Fatalf("unexpected serialized stops %v", got)
	}
}

func TestOnDroppedHook(t *testing.T) {
	var dropped int
	OnDropped = func(n int) { dropped += n }
	defer func() { OnDropped = nil }()

	DecodePath([]byte(`[[1,2],["a","b"],[3]]`))
	if dropped != 2 {
		t.Errorf("expected 2 dropped, got %d", dropped)
	}
}

func TestValidPair(t *testing.T) {
	if ValidPair(math.NaN(), 1) {
		t.Error("NaN latitude accepted")
	}
	if ValidPair(1, math.Inf(1)) {
		t.Error("infinite longitude accepted")
	}
	if !ValidPair(19.77, -104.36) {
		t.Error("finite pair rejected")
	}
}

func TestPathLengthAndBounds(t *testing.T) {
	pts := []Pair{{19.7709, -104.3661}, {19.7720, -104.3650}, {19.7730, -104.3640}}
	length := PathLength(pts)
	if length < 200 || length > 400 {
		t.Errorf("unexpected path length %.1f m", length)
	}
	if PathLength(pts[:1]) != 0 {
		t.Error("single point path should have zero length")
	}

	b, ok := BoundsOf(pts)
	if !ok {
		t.Fatal("expected bounds")
	}
	if b.MinLat != 19.7709 || b.MaxLat != 19.7730 || b.MinLng != -104.3661 || b.MaxLng != -104.3640 {
		t.Errorf("unexpected bounds %+v", b)
	}
	if _, ok := BoundsOf(nil); ok {
		t.Error("empty input should have no bounds")
	}
}
