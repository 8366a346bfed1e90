// Package pathcursor walks a polyline by linear distance.
//
// A [Cursor] wraps an ordered list of sub-paths and keeps one linear
// position inside the current sub-path. It supports forward walking,
// relative seeking, bend-limited seeking and explicit snapshot/restore for
// speculative moves. Failed moves never change the position.
//
// Snapshots are opt-in: a [ScopedState] only rolls back when Restore is
// called. Abandoning it keeps whatever moves happened in between.
package pathcursor

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// State is a snapshot of the cursor position.
type State struct {
	Subpath  int
	Position float64
}

type subpath struct {
	points []r2.Point
	// dist[i] is the linear position of points[i].
	dist []float64
}

func newSubpath(points []r2.Point) subpath {
	sp := subpath{points: points, dist: make([]float64, len(points))}
	for i := 1; i < len(points); i++ {
		sp.dist[i] = sp.dist[i-1] + points[i].Sub(points[i-1]).Norm()
	}
	return sp
}

func (sp *subpath) length() float64 {
	if len(sp.dist) == 0 {
		return 0
	}
	return sp.dist[len(sp.dist)-1]
}

// segment returns the index of the segment holding pos.
func (sp *subpath) segment(pos float64) int {
	n := len(sp.points) - 1
	if n < 1 {
		return 0
	}
	i := sort.Search(len(sp.dist), func(i int) bool { return sp.dist[i] > pos }) - 1
	return min(max(i, 0), n-1)
}

func (sp *subpath) segmentAngle(i int) (float64, bool) {
	if i < 0 || i+1 >= len(sp.points) {
		return 0, false
	}
	d := sp.points[i+1].Sub(sp.points[i])
	if d.X == 0 && d.Y == 0 {
		return 0, false
	}
	return math.Atan2(d.Y, d.X), true
}

func (sp *subpath) pointAt(pos float64) r2.Point {
	switch len(sp.points) {
	case 0:
		return r2.Point{}
	case 1:
		return sp.points[0]
	}
	i := sp.segment(pos)
	a, b := sp.points[i], sp.points[i+1]
	seg := sp.dist[i+1] - sp.dist[i]
	if seg == 0 {
		return a
	}
	return a.Add(b.Sub(a).Mul((pos - sp.dist[i]) / seg))
}

// angleAt returns the direction of the segment at pos, skipping zero-length
// segments.
func (sp *subpath) angleAt(pos float64) float64 {
	i := sp.segment(pos)
	for j := i; j+1 < len(sp.points); j++ {
		if a, ok := sp.segmentAngle(j); ok {
			return a
		}
	}
	for j := i - 1; j >= 0; j-- {
		if a, ok := sp.segmentAngle(j); ok {
			return a
		}
	}
	return 0
}

// Cursor is a stateful position over a sequence of sub-paths.
type Cursor struct {
	parts []subpath
	state State
}

// New creates a cursor positioned before the first sub-path. Call
// NextSubpath to enter it.
func New(parts ...[]r2.Point) *Cursor {
	c := &Cursor{state: State{Subpath: -1}}
	for _, p := range parts {
		c.parts = append(c.parts, newSubpath(p))
	}
	return c
}

func (c *Cursor) current() *subpath {
	if c.state.Subpath < 0 || c.state.Subpath >= len(c.parts) {
		return nil
	}
	return &c.parts[c.state.Subpath]
}

// NumSubpaths returns the number of sub-paths.
func (c *Cursor) NumSubpaths() int { return len(c.parts) }

// SubpathIndex returns the index of the current sub-path, or -1 before the
// first call to NextSubpath.
func (c *Cursor) SubpathIndex() int { return c.state.Subpath }

// Subpath returns the vertices of the current sub-path.
func (c *Cursor) Subpath() []r2.Point {
	if sp := c.current(); sp != nil {
		return sp.points
	}
	return nil
}

// NextSubpath enters the next sub-path at position 0. It returns false once
// all sub-paths are used up.
func (c *Cursor) NextSubpath() bool {
	if c.state.Subpath+1 >= len(c.parts) {
		c.state = State{Subpath: len(c.parts)}
		return false
	}
	c.state = State{Subpath: c.state.Subpath + 1}
	return true
}

// Rewind moves the cursor back before the first sub-path.
func (c *Cursor) Rewind() {
	c.state = State{Subpath: -1}
}

// Length returns the length of the current sub-path.
func (c *Cursor) Length() float64 {
	if sp := c.current(); sp != nil {
		return sp.length()
	}
	return 0
}

// LinearPosition returns the distance from the start of the current
// sub-path.
func (c *Cursor) LinearPosition() float64 { return c.state.Position }

// Forward advances by distance. It fails for negative distances and when
// the end of the sub-path would be passed.
func (c *Cursor) Forward(distance float64) bool {
	if distance < 0 {
		return false
	}
	return c.Move(distance)
}

// Move seeks by distance in either direction. It fails, leaving the cursor
// unchanged, if the target lies outside the current sub-path.
func (c *Cursor) Move(distance float64) bool {
	sp := c.current()
	if sp == nil {
		return false
	}
	target := c.state.Position + distance
	if target < 0 || target > sp.length() {
		return false
	}
	c.state.Position = target
	return true
}

// MoveMaxAngle is Move with a bend limit: it also fails if any segment
// crossed on the way differs in direction from the tangent at the start
// position by more than maxAngle radians.
func (c *Cursor) MoveMaxAngle(distance, maxAngle float64) bool {
	sp := c.current()
	if sp == nil {
		return false
	}
	target := c.state.Position + distance
	if target < 0 || target > sp.length() {
		return false
	}

	start := sp.angleAt(c.state.Position)
	from, to := sp.segment(c.state.Position), sp.segment(target)
	if from > to {
		from, to = to, from
	}
	for i := from; i <= to; i++ {
		a, ok := sp.segmentAngle(i)
		if !ok {
			continue
		}
		if math.Abs(NormalizeAngle(a-start)) > maxAngle {
			return false
		}
	}
	c.state.Position = target
	return true
}

// CurrentPosition returns the point at the cursor position.
func (c *Cursor) CurrentPosition() r2.Point {
	if sp := c.current(); sp != nil {
		return sp.pointAt(c.state.Position)
	}
	return r2.Point{}
}

// Angle returns the tangent direction at the cursor position in radians.
func (c *Cursor) Angle() float64 {
	if sp := c.current(); sp != nil {
		return sp.angleAt(c.state.Position)
	}
	return 0
}

// PositionAt returns the point and tangent at offset from the cursor
// position without moving. ok is false if the offset leaves the sub-path.
func (c *Cursor) PositionAt(offset float64) (p r2.Point, angle float64, ok bool) {
	sp := c.current()
	if sp == nil {
		return r2.Point{}, 0, false
	}
	pos := c.state.Position + offset
	if pos < 0 || pos > sp.length() {
		return r2.Point{}, 0, false
	}
	return sp.pointAt(pos), sp.angleAt(pos), true
}

// NormalizeAngle maps an angle into [-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	switch {
	case a > math.Pi:
		a -= 2 * math.Pi
	case a < -math.Pi:
		a += 2 * math.Pi
	}
	return a
}
