// Package spatial provides a uniform grid index over axis-aligned boxes.
//
// A [Grid] divides a fixed rectangular extent into equally sized cells. Every
// inserted box is registered in each cell it overlaps, so overlap queries only
// look at the elements stored in the cells a query box touches. For roughly
// uniformly distributed label boxes this answers "does X hit anything" and
// "what does X hit" in near-constant time.
//
// # Coordinates
//
// Boxes are [r2.Rect] values in pixel space. Intersection is closed on both
// ends: boxes that merely touch intersect, and zero-area boxes are legal.
// Inverted boxes (Lo > Hi on an axis) are empty and intersect nothing.
// Boxes that extend past the extent are clamped into the border cells.
//
// # Usage
//
//	g := spatial.New[string](spatial.Box(0, 0, 256, 256), 16)
//	g.Insert("Main St", spatial.Box(10, 10, 60, 22))
//	if g.HitTest(spatial.Box(50, 12, 80, 20)) {
//	    // overlaps an existing label
//	}
//
// Grids are not safe for concurrent use.
package spatial

import (
	"math"
	"slices"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Box builds a rectangle from its corner coordinates without normalizing
// them, so an inverted input yields an empty rectangle.
func Box(minx, miny, maxx, maxy float64) r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: minx, Hi: maxx},
		Y: r1.Interval{Lo: miny, Hi: maxy},
	}
}

// Element is one stored entry of a grid.
type Element[K any] struct {
	Box r2.Rect
	Key K
}

// Grid is a uniform grid index keyed by an opaque label identity K.
// Keys are not required to be unique.
type Grid[K any] struct {
	extent r2.Rect
	nx, ny int
	sx, sy float64

	cells    [][]int32
	elements []Element[K]

	// stamps[i] == gen marks element i as visited by the running query.
	stamps []uint32
	gen    uint32
}

// New creates a grid covering extent with square cells of the given size.
// A non-positive cell size collapses the grid into a single cell.
func New[K any](extent r2.Rect, cellSize float64) *Grid[K] {
	w, h := extent.X.Length(), extent.Y.Length()
	nx, ny := cellCount(w, cellSize), cellCount(h, cellSize)
	return &Grid[K]{
		extent: extent,
		nx:     nx,
		ny:     ny,
		sx:     cellScale(nx, w),
		sy:     cellScale(ny, h),
		cells:  make([][]int32, nx*ny),
	}
}

func cellCount(length, cellSize float64) int {
	if length <= 0 || cellSize <= 0 {
		return 1
	}
	return max(int(math.Ceil(length/cellSize)), 1)
}

func cellScale(n int, length float64) float64 {
	if length <= 0 {
		return 0
	}
	return float64(n) / length
}

// Extent returns the rectangle covered by the grid.
func (g *Grid[K]) Extent() r2.Rect { return g.extent }

// Cells returns the number of cells along each axis.
func (g *Grid[K]) Cells() (nx, ny int) { return g.nx, g.ny }

// Len returns the number of stored elements.
func (g *Grid[K]) Len() int { return len(g.elements) }

// Empty reports whether the grid holds no elements.
func (g *Grid[K]) Empty() bool { return len(g.elements) == 0 }

// Elements returns a copy of the element table in insertion order.
func (g *Grid[K]) Elements() []Element[K] { return slices.Clone(g.elements) }

// Insert appends (key, box) to the element table and registers it in every
// cell the box overlaps.
func (g *Grid[K]) Insert(key K, box r2.Rect) {
	idx := int32(len(g.elements))
	g.elements = append(g.elements, Element[K]{Box: box, Key: key})
	g.stamps = append(g.stamps, 0)

	x0, y0, x1, y1 := g.cellRange(box)
	for y := y0; y <= y1; y++ {
		row := y * g.nx
		for x := x0; x <= x1; x++ {
			g.cells[row+x] = append(g.cells[row+x], idx)
		}
	}
}

// HitTest reports whether any stored box intersects box. It stops at the
// first match.
func (g *Grid[K]) HitTest(box r2.Rect) bool {
	if g.noIntersection(box) {
		return false
	}
	if g.completeIntersection(box) {
		return len(g.elements) > 0
	}
	hit := false
	g.visit(box, func(e *Element[K]) bool {
		hit = true
		return false
	})
	return hit
}

// Query returns the key of every stored box intersecting box. A key shows up
// once per insertion that matches, never more.
func (g *Grid[K]) Query(box r2.Rect) []K {
	if g.noIntersection(box) {
		return nil
	}
	if g.completeIntersection(box) {
		keys := make([]K, len(g.elements))
		for i := range g.elements {
			keys[i] = g.elements[i].Key
		}
		return keys
	}
	var keys []K
	g.visit(box, func(e *Element[K]) bool {
		keys = append(keys, e.Key)
		return true
	})
	return keys
}

// QueryElements is like Query but returns the stored boxes with their keys.
func (g *Grid[K]) QueryElements(box r2.Rect) []Element[K] {
	if g.noIntersection(box) {
		return nil
	}
	if g.completeIntersection(box) {
		return slices.Clone(g.elements)
	}
	var out []Element[K]
	g.visit(box, func(e *Element[K]) bool {
		out = append(out, *e)
		return true
	})
	return out
}

// Clear removes every element. Cell storage is kept for reuse.
func (g *Grid[K]) Clear() {
	clear(g.elements)
	g.elements = g.elements[:0]
	g.stamps = g.stamps[:0]
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// visit calls fn for every distinct element intersecting box until fn
// returns false.
func (g *Grid[K]) visit(box r2.Rect, fn func(*Element[K]) bool) {
	g.nextGeneration()
	x0, y0, x1, y1 := g.cellRange(box)
	for y := y0; y <= y1; y++ {
		row := y * g.nx
		for x := x0; x <= x1; x++ {
			for _, idx := range g.cells[row+x] {
				if g.stamps[idx] == g.gen {
					continue
				}
				g.stamps[idx] = g.gen
				e := &g.elements[idx]
				if e.Box.Intersects(box) && !fn(e) {
					return
				}
			}
		}
	}
}

func (g *Grid[K]) nextGeneration() {
	g.gen++
	if g.gen == 0 {
		clear(g.stamps)
		g.gen = 1
	}
}

// cellRange returns the inclusive range of cells touched by box.
func (g *Grid[K]) cellRange(box r2.Rect) (x0, y0, x1, y1 int) {
	x0 = cellIndex(box.X.Lo, g.extent.X.Lo, g.sx, g.nx)
	x1 = cellIndex(box.X.Hi, g.extent.X.Lo, g.sx, g.nx)
	y0 = cellIndex(box.Y.Lo, g.extent.Y.Lo, g.sy, g.ny)
	y1 = cellIndex(box.Y.Hi, g.extent.Y.Lo, g.sy, g.ny)
	return x0, y0, x1, y1
}

func cellIndex(v, origin, scale float64, n int) int {
	f := math.Floor((v - origin) * scale)
	switch {
	case f < 0:
		return 0
	case f > float64(n-1):
		return n - 1
	}
	return int(f)
}

// noIntersection reports whether box lies entirely outside the extent.
func (g *Grid[K]) noIntersection(box r2.Rect) bool {
	e := g.extent
	return box.X.Hi < e.X.Lo || box.X.Lo >= e.X.Hi ||
		box.Y.Hi < e.Y.Lo || box.Y.Lo >= e.Y.Hi
}

// completeIntersection reports whether box covers the whole extent.
func (g *Grid[K]) completeIntersection(box r2.Rect) bool {
	e := g.extent
	return box.X.Lo <= e.X.Lo && box.Y.Lo <= e.Y.Lo &&
		e.X.Hi <= box.X.Hi && e.Y.Hi <= box.Y.Hi
}
