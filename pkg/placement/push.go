package placement

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/pathcursor"
	"github.com/matzehuels/maplabel/pkg/spatial"
)

// locator returns the point and tangent at an offset from the anchor.
type locator func(offset float64) (r2.Point, float64, bool)

// push tests one candidate and, when it fits, inserts and records it.
func (f *Finder) push(r *run, loc locator) bool {
	f.stats.Candidates++
	p, tangent, ok := loc(0)
	if !ok {
		f.stats.Collisions++
		return false
	}
	angle, ok := applyDirection(tangent, r.params.Direction)
	if !ok {
		f.stats.Collisions++
		return false
	}
	boxes, ok := r.boxes(loc, p, tangent, angle)
	if !ok || !f.fits(r, boxes) {
		f.stats.Collisions++
		return false
	}

	obstacle := r.params.Kind == KindCollision
	if obstacle || !r.params.IgnorePlacement {
		for _, b := range boxes {
			f.cache.Insert(b, r.insertKey, r.params.InsertKeys)
		}
	}

	union := r2.EmptyRect()
	for _, b := range boxes {
		union = union.Union(b)
	}
	r.placed = append(r.placed, Placement{
		Layer:    r.params.Layer,
		Feature:  r.params.Feature,
		Key:      r.layout.Key,
		Position: p,
		Angle:    angle,
		Box:      union,
		Boxes:    boxes,
		Obstacle: obstacle,
	})
	f.stats.Placed++
	return true
}

func (f *Finder) fits(r *run, boxes []r2.Rect) bool {
	if r.params.AvoidEdges {
		extent := f.cache.Extent()
		for _, b := range boxes {
			if !extent.Contains(b) {
				return false
			}
		}
	}
	if r.params.AllowOverlap {
		return true
	}
	for _, b := range boxes {
		var free bool
		if r.repeatKey != "" {
			free = f.cache.HasPlacementRepeat(b, r.margin, r.repeatKey, r.repeatDistance, r.params.DetectKeys)
		} else {
			free = f.cache.HasPlacementMargin(b, r.margin, r.params.DetectKeys)
		}
		if !free {
			return false
		}
	}
	return true
}

// boxes builds the candidate boxes. Text with glyph advances is laid out
// along the locator, centred on the anchor and read in the direction of
// angle; everything else is one rotated box.
func (r *run) boxes(loc locator, p r2.Point, tangent, angle float64) ([]r2.Rect, bool) {
	w, h := r.layout.Width, r.layout.Height
	if r.params.Kind != KindText || len(r.layout.Advances) == 0 {
		return []r2.Rect{rotatedBox(p, w, h, angle)}, true
	}

	sign, turn := 1.0, 0.0
	if math.Abs(pathcursor.NormalizeAngle(angle-tangent)) > math.Pi/2 {
		sign, turn = -1, math.Pi
	}
	total := 0.0
	for _, adv := range r.layout.Advances {
		total += adv
	}

	boxes := make([]r2.Rect, 0, len(r.layout.Advances))
	offset := -total / 2
	for _, adv := range r.layout.Advances {
		q, a, ok := loc(sign * (offset + adv/2))
		if !ok {
			return nil, false
		}
		boxes = append(boxes, rotatedBox(q, adv, h, a+turn))
		offset += adv
	}
	return boxes, true
}

// rotatedBox returns the axis-aligned bounds of a w x h rectangle centred
// on c and rotated by angle.
func rotatedBox(c r2.Point, w, h, angle float64) r2.Rect {
	cos, sin := math.Abs(math.Cos(angle)), math.Abs(math.Sin(angle))
	hw := (w*cos + h*sin) / 2
	hh := (w*sin + h*cos) / 2
	return spatial.Box(c.X-hw, c.Y-hh, c.X+hw, c.Y+hh)
}

// applyDirection turns the path tangent into the label angle. It reports
// false when the direction forbids the tangent.
func applyDirection(tangent float64, dir Direction) (float64, bool) {
	a := pathcursor.NormalizeAngle(tangent)
	switch dir {
	case DirectionUp:
		return 0, true
	case DirectionDown:
		return math.Pi, true
	case DirectionAuto:
		if math.Abs(a) > math.Pi/2 {
			a += math.Pi
		}
	case DirectionAutoDown:
		if math.Abs(a) < math.Pi/2 {
			a += math.Pi
		}
	case DirectionLeft:
		a += math.Pi
	case DirectionLeftOnly:
		a = pathcursor.NormalizeAngle(a + math.Pi)
		return a, math.Abs(a) <= math.Pi/2
	case DirectionRightOnly:
		return a, math.Abs(a) <= math.Pi/2
	}
	return pathcursor.NormalizeAngle(a), true
}
