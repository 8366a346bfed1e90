package geometry

import (
	"math"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/errors"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearPoint(p, q r2.Point) bool { return near(p.X, q.X) && near(p.Y, q.Y) }

var unitSquare = geom.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   geom.Geometry
		want []Kind
	}{
		{"point", geom.Point{1, 2}, []Kind{KindPoint}},
		{"pointer line", &geom.LineString{{0, 0}, {1, 1}}, []Kind{KindLine}},
		{"multipoint", geom.MultiPoint{{0, 0}, {1, 1}}, []Kind{KindPoint, KindPoint}},
		{"multiline with empty", geom.MultiLineString{{{0, 0}, {1, 0}}, {}}, []Kind{KindLine}},
		{"multipolygon", geom.MultiPolygon{unitSquare, unitSquare}, []Kind{KindPolygon, KindPolygon}},
		{"nested collection", geom.Collection{
			geom.Point{0, 0},
			geom.Collection{geom.LineString{{0, 0}, {2, 0}}, unitSquare},
		}, []Kind{KindPoint, KindLine, KindPolygon}},
		{"nil pointer", (*geom.Point)(nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := Split(tt.in)
			if len(parts) != len(tt.want) {
				t.Fatalf("Split returned %d parts, want %d", len(parts), len(tt.want))
			}
			for i, p := range parts {
				if KindOf(p) != tt.want[i] {
					t.Errorf("part %d kind = %v, want %v", i, KindOf(p), tt.want[i])
				}
			}
		})
	}
}

func TestPartsClosesRings(t *testing.T) {
	open := geom.Polygon{{{0, 0}, {4, 0}, {4, 4}, {0, 4}}}
	parts := Parts(open)
	if len(parts) != 1 || len(parts[0]) != 5 {
		t.Fatalf("Parts = %v, want one closed ring of 5 points", parts)
	}
	if Length(parts[0]) != 16 {
		t.Errorf("ring length = %v, want 16", Length(parts[0]))
	}
}

func TestBoundsAndSize(t *testing.T) {
	b, ok := Bounds(geom.LineString{{1, 5}, {3, -2}})
	if !ok || b.X.Lo != 1 || b.X.Hi != 3 || b.Y.Lo != -2 || b.Y.Hi != 5 {
		t.Errorf("Bounds = %v, %v", b, ok)
	}
	if _, ok := Bounds(geom.MultiPoint{}); ok {
		t.Error("Bounds of empty geometry should fail")
	}
	if s := Size(unitSquare); s != 1 {
		t.Errorf("Size(square) = %v, want 1", s)
	}
	if s := Size(geom.LineString{{0, 0}, {3, 4}}); s != 5 {
		t.Errorf("Size(line) = %v, want 5", s)
	}
}

func TestLargest(t *testing.T) {
	big := geom.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
	g, ok := Largest(geom.MultiPolygon{unitSquare, big})
	if !ok || Size(g) != 100 {
		t.Errorf("Largest = %v, want the 10x10 square", g)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(geom.LineString{{0, 0}, {1, 1}}); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	err := Validate(geom.LineString{{0, 0}, {math.NaN(), 1}})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("Validate(NaN) = %v, want INVALID_GEOMETRY", err)
	}
	if err := Validate(geom.Collection{}); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("Validate(empty) = %v, want INVALID_GEOMETRY", err)
	}
}
