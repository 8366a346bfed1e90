package placement

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/errors"
)

// Params holds the style constraints of one labelling request. Distances
// are in style units and are multiplied by the finder's scale factor;
// layout sizes are already in pixels.
type Params struct {
	Layer   string // copied into every placement
	Feature string // copied into every placement

	Kind     Kind
	Strategy Strategy

	Spacing           float64 // distance between repeated labels along a line
	MaxError          float64 // marker position tolerance as a fraction of spacing
	PositionTolerance float64 // text position tolerance; 0 means spacing/2
	MinimumPathLength float64 // shorter sub-paths carry no text
	Margin            float64 // minimum clearance to any other label
	RepeatDistance    float64 // minimum distance to labels with the same repeat key
	RepeatKey         string  // defaults to the layout key when RepeatDistance > 0

	MaxAngle         float64 // largest bend under a label, in degrees; 0 disables the check
	MaxAngleDistance float64 // how far the bend check reaches; 0 means the layout width

	HAlign    HAlign
	Dx        float64 // displacement along the path
	Direction Direction

	AvoidEdges      bool
	AllowOverlap    bool
	IgnorePlacement bool

	DetectKeys []string // collision partitions to test against
	InsertKeys []string // collision partitions to insert into

	GridDx float64
	GridDy float64

	Multi MultiPolicy
}

// DefaultParams returns the parameters used when a style leaves a field
// unset.
func DefaultParams() Params {
	return Params{
		Kind:      KindText,
		Strategy:  StrategyPoint,
		MaxError:  0.2,
		HAlign:    HAlignAuto,
		Direction: DirectionRight,
		Multi:     MultiEach,
	}
}

// withDefaults fills empty enumerations.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Kind == "" {
		p.Kind = d.Kind
	}
	if p.Strategy == "" {
		p.Strategy = d.Strategy
	}
	if p.HAlign == "" {
		p.HAlign = d.HAlign
	}
	if p.Direction == "" {
		p.Direction = d.Direction
	}
	if p.Multi == "" {
		p.Multi = d.Multi
	}
	return p
}

// Validate rejects negative or non-finite distances and unknown
// enumerations.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"spacing", p.Spacing},
		{"max_error", p.MaxError},
		{"position_tolerance", p.PositionTolerance},
		{"minimum_path_length", p.MinimumPathLength},
		{"margin", p.Margin},
		{"repeat_distance", p.RepeatDistance},
		{"max_angle", p.MaxAngle},
		{"max_angle_distance", p.MaxAngleDistance},
		{"grid_dx", p.GridDx},
		{"grid_dy", p.GridDy},
	}
	for _, f := range fields {
		if err := errors.ValidateNonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	if math.IsNaN(p.Dx) || math.IsInf(p.Dx, 0) {
		return errors.New(errors.ErrCodeInvalidStyle, "dx must be finite, got %v", p.Dx)
	}
	return p.ValidateEnums()
}

// Layout is the measured shape of a label.
type Layout struct {
	Key    string // label text or marker name
	Width  float64
	Height float64

	// Advances holds per-glyph widths for text. When empty the label is
	// treated as one rigid box.
	Advances []float64
}

// Placement is one accepted label position.
type Placement struct {
	Layer    string
	Feature  string
	Key      string
	Position r2.Point
	Angle    float64
	Box      r2.Rect   // union of Boxes
	Boxes    []r2.Rect // one per glyph for text along a path, otherwise one
	Obstacle bool      // placed by a collision layer, not drawn
}

// Stats counts work done by a finder.
type Stats struct {
	Candidates int // candidate positions tested
	Collisions int // candidates rejected by edges, direction or the collision cache
	Placed     int // accepted placements
	Unplaced   int // geometry parts that received no placement
	CapHits    int // tolerance searches stopped by the value cap
}

// Add returns the sum of two stats.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Candidates: s.Candidates + o.Candidates,
		Collisions: s.Collisions + o.Collisions,
		Placed:     s.Placed + o.Placed,
		Unplaced:   s.Unplaced + o.Unplaced,
		CapHits:    s.CapHits + o.CapHits,
	}
}

// Sub returns s minus o.
func (s Stats) Sub(o Stats) Stats {
	return Stats{
		Candidates: s.Candidates - o.Candidates,
		Collisions: s.Collisions - o.Collisions,
		Placed:     s.Placed - o.Placed,
		Unplaced:   s.Unplaced - o.Unplaced,
		CapHits:    s.CapHits - o.CapHits,
	}
}
