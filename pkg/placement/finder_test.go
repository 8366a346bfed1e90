package placement

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-spatial/geom"
	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/collision"
	"github.com/matzehuels/maplabel/pkg/spatial"
)

func newFinder(opts ...Option) *Finder {
	return NewFinder(collision.NewCache(spatial.Box(0, 0, 1024, 1024)), opts...)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func nearPoint(a, b r2.Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func nearRect(a, b r2.Rect) bool {
	return near(a.X.Lo, b.X.Lo) && near(a.X.Hi, b.X.Hi) && near(a.Y.Lo, b.Y.Lo) && near(a.Y.Hi, b.Y.Hi)
}

func marker(key string, size float64) Layout {
	return Layout{Key: key, Width: size, Height: size}
}

func text(key string, advances ...float64) Layout {
	l := Layout{Key: key, Height: 10, Advances: advances}
	for _, a := range advances {
		l.Width += a
	}
	return l
}

func markerLine(spacing float64) Params {
	p := DefaultParams()
	p.Kind = KindMarker
	p.Strategy = StrategyLine
	p.Spacing = spacing
	return p
}

func TestMarkerLineSpacing(t *testing.T) {
	f := newFinder()
	line := geom.LineString{{0, 100}, {1000, 100}}

	got := f.Place(line, marker("dot", 10), markerLine(100))
	if len(got) != 10 {
		t.Fatalf("placed %d markers, want 10", len(got))
	}
	if !near(got[0].Position.X, 50) {
		t.Errorf("first marker at %v, want x=50", got[0].Position)
	}
	for i := 1; i < len(got); i++ {
		if d := got[i].Position.X - got[i-1].Position.X; !near(d, 100) {
			t.Errorf("gap %d = %v, want 100", i, d)
		}
	}
	if f.Stats().Placed != 10 || len(f.Placements()) != 10 {
		t.Errorf("stats = %+v, placements = %d", f.Stats(), len(f.Placements()))
	}
}

func TestMarkerLineShorterThanSpacing(t *testing.T) {
	f := newFinder()
	got := f.Place(geom.LineString{{0, 0}, {60, 0}}, marker("dot", 4), markerLine(100))
	if len(got) != 1 {
		t.Fatalf("placed %d markers, want 1", len(got))
	}
	if got[0].Position.X < 30-1e-9 {
		t.Errorf("first marker at %v, want x >= 30", got[0].Position.X)
	}
}

func TestMarkerLineScaleFactor(t *testing.T) {
	f := newFinder(WithScaleFactor(2))
	got := f.Place(geom.LineString{{0, 100}, {1000, 100}}, marker("dot", 10), markerLine(100))
	if len(got) != 5 || !near(got[0].Position.X, 100) {
		t.Errorf("got %d markers starting at %v, want 5 starting at x=100", len(got), got[0].Position)
	}
}

func TestTextRejectsShortLine(t *testing.T) {
	f := newFinder()
	p := DefaultParams()
	p.Strategy = StrategyLine

	got := f.Place(geom.LineString{{0, 0}, {20, 0}}, text("Main St", 10, 10, 10, 10, 10), p)
	if len(got) != 0 {
		t.Errorf("placed %d labels on a line shorter than the label", len(got))
	}
	if f.Stats().Unplaced != 1 {
		t.Errorf("Unplaced = %d, want 1", f.Stats().Unplaced)
	}

	p.MinimumPathLength = 500
	got = f.Place(geom.LineString{{0, 0}, {200, 0}}, text("Main St", 10, 10), p)
	if len(got) != 0 {
		t.Errorf("placed %d labels below the minimum path length", len(got))
	}
}

func TestTextAlongPath(t *testing.T) {
	f := newFinder()
	p := DefaultParams()
	p.Strategy = StrategyLine

	got := f.Place(geom.LineString{{0, 50}, {200, 50}}, text("abc", 10, 10, 10), p)
	if len(got) != 1 {
		t.Fatalf("placed %d labels, want 1", len(got))
	}
	pl := got[0]
	if !near(pl.Position.X, 100) || len(pl.Boxes) != 3 {
		t.Fatalf("placement = %+v", pl)
	}
	want := spatial.Box(85, 45, 115, 55)
	if !nearRect(pl.Box, want) {
		t.Errorf("Box = %v, want %v", pl.Box, want)
	}
	if !near(pl.Boxes[0].Center().X, 90) || !near(pl.Boxes[2].Center().X, 110) {
		t.Errorf("glyph boxes = %v", pl.Boxes)
	}
}

func TestTextFlipsOnReversedPath(t *testing.T) {
	f := newFinder()
	p := DefaultParams()
	p.Strategy = StrategyLine
	p.Direction = DirectionAuto

	got := f.Place(geom.LineString{{200, 50}, {0, 50}}, text("abc", 10, 10, 10), p)
	if len(got) != 1 {
		t.Fatalf("placed %d labels, want 1", len(got))
	}
	if !near(got[0].Angle, 0) {
		t.Errorf("Angle = %v, want 0", got[0].Angle)
	}
	// first glyph is leftmost when reading upright
	if got[0].Boxes[0].Center().X >= got[0].Boxes[2].Center().X {
		t.Errorf("glyph order = %v", got[0].Boxes)
	}
}

func TestTextSpacingDistributesLabels(t *testing.T) {
	f := newFinder()
	p := DefaultParams()
	p.Strategy = StrategyLine
	p.Spacing = 100

	got := f.Place(geom.LineString{{0, 500}, {1000, 500}}, text("abc", 10, 10, 10), p)
	// floor(1000 / (100 + 30)) = 7 labels
	if len(got) != 7 {
		t.Fatalf("placed %d labels, want 7", len(got))
	}
	step := 1000.0 / 7
	if !near(got[0].Position.X, step/2) || !near(got[1].Position.X-got[0].Position.X, step) {
		t.Errorf("positions %v, %v", got[0].Position, got[1].Position)
	}
}

func TestTextHAlign(t *testing.T) {
	tests := []struct {
		halign HAlign
		dx     float64
		want   float64
	}{
		{HAlignMiddle, 0, 100},
		{HAlignAdjust, 0, 100},
		{HAlignLeft, 20, 20},
		{HAlignMiddle, 30, 130},
		{HAlignMiddle, 500, 100},
	}
	for _, tt := range tests {
		t.Run(string(tt.halign), func(t *testing.T) {
			f := newFinder()
			p := DefaultParams()
			p.Strategy = StrategyLine
			p.HAlign = tt.halign
			p.Dx = tt.dx
			p.PositionTolerance = 1

			got := f.Place(geom.LineString{{0, 50}, {200, 50}}, text("ab", 10, 10), p)
			if len(got) != 1 || !near(got[0].Position.X, tt.want) {
				t.Errorf("placements = %+v, want one at x=%v", got, tt.want)
			}
		})
	}
}

func TestToleranceShiftsAroundObstacle(t *testing.T) {
	f := newFinder()
	f.Cache().Insert(spatial.Box(45, 0, 55, 200), "", nil)

	p := markerLine(100)
	p.MaxError = 0.5
	got := f.Place(geom.LineString{{0, 100}, {100, 100}}, marker("dot", 4), p)
	if len(got) != 1 {
		t.Fatalf("placed %d markers, want 1", len(got))
	}
	if x := got[0].Position.X; x > 43+1e-9 && x < 57-1e-9 {
		t.Errorf("marker at %v overlaps the obstacle", x)
	}
	if f.Stats().Collisions == 0 {
		t.Error("expected collisions before the shifted candidate")
	}
}

func TestRepeatDistanceOnLines(t *testing.T) {
	p := markerLine(100)
	p.RepeatDistance = 50

	f := newFinder()
	first := f.Place(geom.LineString{{0, 100}, {200, 100}}, marker("shield", 10), p)
	second := f.Place(geom.LineString{{0, 120}, {200, 120}}, marker("shield", 10), p)
	other := f.Place(geom.LineString{{0, 140}, {200, 140}}, marker("other", 10), p)

	if len(first) != 2 {
		t.Errorf("first line: %d markers, want 2", len(first))
	}
	if len(second) != 0 {
		t.Errorf("second line: %d markers, want 0 within repeat distance", len(second))
	}
	if len(other) == 0 {
		t.Error("a different key should not be blocked by the repeat distance")
	}
}

func TestRepeatDistanceAcrossLayers(t *testing.T) {
	f := newFinder()
	plain := DefaultParams()
	plain.Layer = "streets"
	repeat := DefaultParams()
	repeat.Layer = "labels"
	repeat.RepeatDistance = 200

	if got := f.Place(geom.Point{100, 100}, text("Main St", 10, 10), plain); len(got) != 1 {
		t.Fatalf("first label: %d placements, want 1", len(got))
	}
	if got := f.Place(geom.Point{200, 100}, text("Main St", 10, 10), repeat); len(got) != 0 {
		t.Errorf("same text within repeat distance placed %d times, want 0", len(got))
	}
	if got := f.Place(geom.Point{200, 100}, text("Elm St", 10, 10), repeat); len(got) != 1 {
		t.Errorf("different text: %d placements, want 1", len(got))
	}

	for _, e := range f.cache.Default().Elements() {
		if e.Key == "" {
			t.Errorf("box %v stored without its label text", e.Box)
		}
	}
}

func TestMaxAngleAtCorner(t *testing.T) {
	f := newFinder()
	p := markerLine(10)
	p.MaxAngle = 30
	p.MaxAngleDistance = 20

	got := f.Place(geom.LineString{{0, 0}, {100, 0}, {100, 100}}, marker("dot", 2), p)
	if len(got) == 0 {
		t.Fatal("expected markers away from the corner")
	}
	for _, pl := range got {
		var fromCorner float64
		if near(pl.Position.Y, 0) {
			fromCorner = 100 - pl.Position.X
		} else {
			fromCorner = pl.Position.Y
		}
		if fromCorner < 20-1e-9 {
			t.Errorf("marker at %v is within the bend distance of the corner", pl.Position)
		}
	}
}

func TestLinePlacementOnPoint(t *testing.T) {
	f := newFinder()
	got := f.Place(geom.Point{40, 60}, marker("dot", 4), markerLine(100))
	if len(got) != 1 || got[0].Position != (r2.Point{X: 40, Y: 60}) {
		t.Errorf("placements = %+v, want one at the point", got)
	}
}

func TestPointStrategy(t *testing.T) {
	tests := []struct {
		name string
		g    geom.Geometry
		want r2.Point
	}{
		{"point", geom.Point{10, 20}, r2.Point{X: 10, Y: 20}},
		{"line middle", geom.LineString{{0, 0}, {100, 0}}, r2.Point{X: 50, Y: 0}},
		{"polygon centroid", geom.Polygon{{{0, 0}, {40, 0}, {40, 40}, {0, 40}}}, r2.Point{X: 20, Y: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFinder()
			got := f.Place(tt.g, text("x", 8), DefaultParams())
			if len(got) != 1 || !nearPoint(got[0].Position, tt.want) {
				t.Errorf("placements = %+v, want one at %v", got, tt.want)
			}
		})
	}
}

func TestInteriorStrategy(t *testing.T) {
	u := geom.Polygon{{{0, 0}, {100, 0}, {100, 100}, {70, 100}, {70, 30}, {30, 30}, {30, 100}, {0, 100}}}
	p := DefaultParams()
	p.Kind = KindMarker
	p.Strategy = StrategyInterior

	f := newFinder()
	got := f.Place(u, marker("dot", 2), p)
	if len(got) != 1 {
		t.Fatalf("placed %d, want 1", len(got))
	}
	pos := got[0].Position
	if pos.X >= 30 && pos.X <= 70 && pos.Y > 30 {
		t.Errorf("interior position %v lies in the notch", pos)
	}
}

func TestVertexStrategies(t *testing.T) {
	line := geom.LineString{{0, 0}, {10, 0}, {10, 10}}
	tests := []struct {
		strategy Strategy
		want     []r2.Point
		angles   []float64
	}{
		{StrategyVertex, []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, []float64{0, math.Pi / 2, math.Pi / 2}},
		{StrategyVertexFirst, []r2.Point{{X: 0, Y: 0}}, []float64{0}},
		{StrategyVertexLast, []r2.Point{{X: 10, Y: 10}}, []float64{math.Pi / 2}},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			p := DefaultParams()
			p.Kind = KindMarker
			p.Strategy = tt.strategy

			got := newFinder().Place(line, marker("dot", 2), p)
			if len(got) != len(tt.want) {
				t.Fatalf("placed %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Position != tt.want[i] || !near(got[i].Angle, tt.angles[i]) {
					t.Errorf("placement %d = %v @ %v, want %v @ %v", i, got[i].Position, got[i].Angle, tt.want[i], tt.angles[i])
				}
			}
		})
	}

	p := DefaultParams()
	p.Kind = KindMarker
	p.Strategy = StrategyVertex
	square := geom.Polygon{{{0, 0}, {50, 0}, {50, 50}, {0, 50}}}
	if got := newFinder().Place(square, marker("dot", 2), p); len(got) != 4 {
		t.Errorf("polygon vertices placed = %d, want 4", len(got))
	}
}

func TestGridStrategy(t *testing.T) {
	square := geom.Polygon{{{0, 0}, {100, 0}, {100, 100}, {0, 100}}}
	p := DefaultParams()
	p.Kind = KindMarker
	p.Strategy = StrategyGrid
	p.GridDx = 50
	p.GridDy = 50

	got := newFinder().Place(square, marker("tree", 10), p)
	want := []r2.Point{{X: 25, Y: 25}, {X: 75, Y: 25}, {X: 25, Y: 75}, {X: 75, Y: 75}}
	if len(got) != len(want) {
		t.Fatalf("placed %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !nearPoint(got[i].Position, want[i]) {
			t.Errorf("placement %d at %v, want %v", i, got[i].Position, want[i])
		}
	}
}

func TestMultiPolicy(t *testing.T) {
	lines := geom.MultiLineString{{{0, 0}, {10, 0}}, {{0, 100}, {50, 100}}}
	tests := []struct {
		policy MultiPolicy
		g      geom.Geometry
		want   []r2.Point
	}{
		{MultiEach, lines, []r2.Point{{X: 5, Y: 0}, {X: 25, Y: 100}}},
		{MultiLargest, lines, []r2.Point{{X: 25, Y: 100}}},
		{MultiWhole, geom.MultiPoint{{10, 10}, {30, 10}}, []r2.Point{{X: 20, Y: 10}}},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			p := DefaultParams()
			p.Kind = KindMarker
			p.Multi = tt.policy

			got := newFinder().Place(tt.g, marker("dot", 2), p)
			if len(got) != len(tt.want) {
				t.Fatalf("placed %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if !nearPoint(got[i].Position, tt.want[i]) {
					t.Errorf("placement %d at %v, want %v", i, got[i].Position, tt.want[i])
				}
			}
		})
	}
}

func TestLayoutAlternatives(t *testing.T) {
	p := DefaultParams()
	p.Strategy = StrategyLine

	f := newFinder()
	long := text("Boulevard", 20, 20, 20, 20, 20)
	short := text("Blvd", 10, 10, 10)
	got := f.PlaceAlternatives(geom.LineString{{0, 0}, {40, 0}}, []Layout{long, short}, p)
	if len(got) != 1 || got[0].Key != "Blvd" {
		t.Errorf("placements = %+v, want the short alternative", got)
	}

	// parts placed by the first layout are not retried
	f = newFinder()
	parts := geom.MultiLineString{{{0, 0}, {200, 0}}, {{0, 100}, {40, 100}}}
	got = f.PlaceAlternatives(parts, []Layout{long, short}, p)
	if len(got) != 2 || got[0].Key != "Boulevard" || got[1].Key != "Blvd" {
		t.Errorf("placements = %+v", got)
	}
}

func TestCollisionPartitions(t *testing.T) {
	f := newFinder()
	p := DefaultParams()
	p.Kind = KindMarker
	p.InsertKeys = []string{"pois"}

	if got := f.Place(geom.Point{100, 100}, marker("a", 10), p); len(got) != 1 {
		t.Fatal("first marker should be placed")
	}

	p.InsertKeys = nil
	p.DetectKeys = []string{"roads"}
	if got := f.Place(geom.Point{100, 100}, marker("b", 10), p); len(got) != 1 {
		t.Error("a marker detecting another partition should not be blocked")
	}

	p.DetectKeys = []string{"pois"}
	if got := f.Place(geom.Point{100, 100}, marker("c", 10), p); len(got) != 0 {
		t.Error("a marker detecting the pois partition should be blocked")
	}
}

func TestFlags(t *testing.T) {
	p := DefaultParams()
	p.Kind = KindMarker

	t.Run("allow overlap", func(t *testing.T) {
		f := newFinder()
		f.Place(geom.Point{100, 100}, marker("a", 10), p)
		q := p
		q.AllowOverlap = true
		if got := f.Place(geom.Point{100, 100}, marker("b", 10), q); len(got) != 1 {
			t.Error("allow_overlap should skip detection")
		}
	})

	t.Run("ignore placement", func(t *testing.T) {
		f := newFinder()
		q := p
		q.IgnorePlacement = true
		f.Place(geom.Point{100, 100}, marker("a", 10), q)
		if f.Cache().Default().Len() != 0 {
			t.Error("ignore_placement should not insert")
		}
		if got := f.Place(geom.Point{100, 100}, marker("b", 10), p); len(got) != 1 {
			t.Error("a label after an ignored one should fit")
		}
	})

	t.Run("avoid edges", func(t *testing.T) {
		f := newFinder()
		q := p
		q.AvoidEdges = true
		if got := f.Place(geom.Point{2, 100}, marker("a", 10), q); len(got) != 0 {
			t.Error("a box crossing the extent edge should be rejected")
		}
		if got := f.Place(geom.Point{20, 100}, marker("a", 10), q); len(got) != 1 {
			t.Error("a box inside the extent should be accepted")
		}
	})

	t.Run("margin", func(t *testing.T) {
		f := newFinder()
		f.Place(geom.Point{100, 100}, marker("a", 10), p)
		q := p
		q.Margin = 10
		if got := f.Place(geom.Point{115, 100}, marker("b", 10), q); len(got) != 0 {
			t.Error("a box within the margin should be rejected")
		}
		if got := f.Place(geom.Point{130, 100}, marker("b", 10), q); len(got) != 1 {
			t.Error("a box outside the margin should be accepted")
		}
	})
}

func TestObstacleLayer(t *testing.T) {
	f := newFinder()
	p := DefaultParams()
	p.Kind = KindCollision
	p.IgnorePlacement = true

	got := f.Place(geom.Point{100, 100}, marker("", 20), p)
	if len(got) != 1 || !got[0].Obstacle {
		t.Fatalf("obstacle placements = %+v", got)
	}
	if got := f.Place(geom.Point{105, 100}, text("label", 10), DefaultParams()); len(got) != 0 {
		t.Error("labels must not overlap obstacles")
	}
}

func TestDeterministic(t *testing.T) {
	run := func() []Placement {
		f := newFinder()
		p := markerLine(30)
		for i := 0; i < 5; i++ {
			y := float64(100 + i*5)
			f.Place(geom.LineString{{0, y}, {500, y + 40}}, marker("dot", 8), p)
		}
		return f.Placements()
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("runs differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Position != b[i].Position || a[i].Box != b[i].Box {
			t.Errorf("placement %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestFinderLogsUnplaced(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	f := newFinder(WithLogger(logger))
	p := DefaultParams()
	p.Layer, p.Feature = "roads", "r1"
	p.Strategy = StrategyLine
	f.Place(geom.LineString{{0, 0}, {5, 0}}, text("too long", 10, 10), p)

	if !strings.Contains(buf.String(), "no placement found") || !strings.Contains(buf.String(), "r1") {
		t.Errorf("log = %q", buf.String())
	}
	f.Reset()
	if len(f.Placements()) != 0 || f.Stats() != (Stats{}) {
		t.Error("Reset should clear placements and stats")
	}
}
