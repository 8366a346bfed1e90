// Package collision decides whether a candidate label box may be placed.
//
// A [Detector] wraps one [spatial.Grid] and answers placement predicates
// with optional margin and repeat-distance semantics. A [Cache] groups
// several detectors into named partitions ("collision cache" keys) so that
// some label categories can share an occlusion domain while others stay
// independent.
//
// Neither type retries or searches; rejection is a plain false result.
// Callers own the retry policy.
package collision

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/spatial"
)

// cellsPerSide is the number of grid cells along the shorter extent axis.
const cellsPerSide = 16

// Detector tracks occupied label boxes over a fixed extent.
type Detector struct {
	extent  r2.Rect
	grid    *spatial.Grid[string]
	queries int
}

// NewDetector creates an empty detector covering extent.
func NewDetector(extent r2.Rect) *Detector {
	cell := math.Min(extent.X.Length(), extent.Y.Length()) / cellsPerSide
	return &Detector{
		extent: extent,
		grid:   spatial.New[string](extent, cell),
	}
}

// Extent returns the area covered by the detector.
func (d *Detector) Extent() r2.Rect { return d.extent }

// Len returns the number of stored boxes.
func (d *Detector) Len() int { return d.grid.Len() }

// QueryCount returns how many placement predicates have been evaluated.
func (d *Detector) QueryCount() int { return d.queries }

// Elements returns the accumulated occupancy in insertion order.
func (d *Detector) Elements() []spatial.Element[string] { return d.grid.Elements() }

// HasPlacement reports whether box intersects no stored box.
func (d *Detector) HasPlacement(box r2.Rect) bool {
	d.queries++
	return !d.grid.HitTest(box)
}

// HasPlacementMargin reports whether box, grown by margin on every side,
// intersects no stored box.
func (d *Detector) HasPlacementMargin(box r2.Rect, margin float64) bool {
	d.queries++
	return !d.grid.HitTest(expand(box, margin))
}

// HasPlacementRepeat extends HasPlacementMargin with repeat avoidance: a
// stored box carrying the same text blocks the placement whenever it lies
// within repeatDistance, even without overlapping. Other boxes only block
// within margin.
func (d *Detector) HasPlacementRepeat(box r2.Rect, margin float64, text string, repeatDistance float64) bool {
	if repeatDistance <= margin {
		return d.HasPlacementMargin(box, margin)
	}
	d.queries++

	marginBox := expand(box, margin)
	for _, e := range d.grid.QueryElements(expand(box, repeatDistance)) {
		if e.Box.Intersects(marginBox) || e.Key == text {
			return false
		}
	}
	return true
}

// Insert stores box with an empty key.
func (d *Detector) Insert(box r2.Rect) {
	d.grid.Insert("", box)
}

// InsertText stores box keyed by text for later repeat checks.
func (d *Detector) InsertText(box r2.Rect, text string) {
	d.grid.Insert(text, box)
}

// Clear removes every stored box.
func (d *Detector) Clear() {
	d.grid.Clear()
}

func expand(box r2.Rect, margin float64) r2.Rect {
	if margin <= 0 {
		return box
	}
	return box.ExpandedByMargin(margin)
}
