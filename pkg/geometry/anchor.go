package geometry

import (
	"math"
	"sort"

	"github.com/go-spatial/geom"
	"github.com/golang/geo/r2"
)

// polygonArea returns the signed area summed over every ring. Holes wound
// opposite to the shell subtract.
func polygonArea(poly geom.Polygon) float64 {
	a := 0.0
	for _, ring := range poly {
		pts := Ring(ring)
		for i := 1; i < len(pts); i++ {
			a += pts[i-1].Cross(pts[i])
		}
	}
	return a / 2
}

// Centroid returns the centre of mass of g: area weighted for polygons,
// length weighted for lines, the mean for points. Multi-part geometries use
// the parts of the highest dimension present.
func Centroid(g geom.Geometry) (r2.Point, bool) {
	parts := Split(g)
	if len(parts) == 0 {
		return r2.Point{}, false
	}

	top := KindPoint
	for _, p := range parts {
		if k := KindOf(p); k > top {
			top = k
		}
	}

	var sum r2.Point
	weight := 0.0
	for _, p := range parts {
		if KindOf(p) != top {
			continue
		}
		c, w := partCentroid(p)
		sum = sum.Add(c.Mul(w))
		weight += w
	}
	if weight == 0 {
		c, _ := partCentroid(parts[0])
		return c, true
	}
	return sum.Mul(1 / weight), true
}

// partCentroid returns the centroid of a single part and its weight.
func partCentroid(g geom.Geometry) (r2.Point, float64) {
	switch v := g.(type) {
	case geom.Point:
		return r2.Point{X: v[0], Y: v[1]}, 1
	case geom.LineString:
		return lineCentroid(Points(v))
	case geom.Polygon:
		return polygonCentroid(v)
	}
	return r2.Point{}, 0
}

func lineCentroid(pts []r2.Point) (r2.Point, float64) {
	if len(pts) == 0 {
		return r2.Point{}, 0
	}
	var sum r2.Point
	total := 0.0
	for i := 1; i < len(pts); i++ {
		l := pts[i].Sub(pts[i-1]).Norm()
		sum = sum.Add(pts[i].Add(pts[i-1]).Mul(l / 2))
		total += l
	}
	if total == 0 {
		return pts[0], 0
	}
	return sum.Mul(1 / total), total
}

// polygonCentroid uses the shoelace formula relative to the first vertex to
// limit cancellation. Degenerate polygons fall back to their shell outline.
func polygonCentroid(poly geom.Polygon) (r2.Point, float64) {
	shell := Ring(poly[0])
	origin := shell[0]

	area, cx, cy := 0.0, 0.0, 0.0
	for _, ring := range poly {
		pts := Ring(ring)
		for i := 1; i < len(pts); i++ {
			p0, p1 := pts[i-1].Sub(origin), pts[i].Sub(origin)
			ai := p0.Cross(p1)
			area += ai
			cx += (p0.X + p1.X) * ai
			cy += (p0.Y + p1.Y) * ai
		}
	}
	if area == 0 {
		c, _ := lineCentroid(shell)
		return c, 0
	}
	return r2.Point{X: cx/(3*area) + origin.X, Y: cy/(3*area) + origin.Y}, math.Abs(area / 2)
}

// MiddlePoint returns the point halfway along a path together with the
// direction of the segment it falls on.
func MiddlePoint(pts []r2.Point) (r2.Point, float64, bool) {
	switch len(pts) {
	case 0:
		return r2.Point{}, 0, false
	case 1:
		return pts[0], 0, true
	}
	half := Length(pts) / 2
	walked := 0.0
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		l := d.Norm()
		if l > 0 && walked+l >= half {
			return pts[i-1].Add(d.Mul((half - walked) / l)), math.Atan2(d.Y, d.X), true
		}
		walked += l
	}
	return pts[len(pts)-1], 0, true
}

// Contains reports whether p lies inside poly under the even-odd rule, so
// points inside holes are outside.
func Contains(poly geom.Polygon, p r2.Point) bool {
	inside := false
	for _, ring := range poly {
		pts := Ring(ring)
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			if (a.Y <= p.Y) != (b.Y <= p.Y) {
				x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
				if p.X < x {
					inside = !inside
				}
			}
		}
	}
	return inside
}

// Interior returns a point inside poly suitable for a label. It casts a
// horizontal and a vertical line through the centroid and picks the middle
// of the widest inside span.
func Interior(poly geom.Polygon) (r2.Point, bool) {
	if len(poly) == 0 || len(poly[0]) == 0 {
		return r2.Point{}, false
	}
	c, _ := polygonCentroid(poly)

	best, bestWidth := c, -1.0
	for _, horizontal := range []bool{true, false} {
		crossings := scan(poly, c, horizontal)
		for i := 1; i < len(crossings); i += 2 {
			if w := crossings[i] - crossings[i-1]; w > bestWidth {
				mid := (crossings[i] + crossings[i-1]) / 2
				bestWidth = w
				if horizontal {
					best = r2.Point{X: mid, Y: c.Y}
				} else {
					best = r2.Point{X: c.X, Y: mid}
				}
			}
		}
	}
	return best, true
}

// scan returns the sorted coordinates where the axis-parallel line through
// c crosses the polygon boundary.
func scan(poly geom.Polygon, c r2.Point, horizontal bool) []float64 {
	var out []float64
	for _, ring := range poly {
		pts := Ring(ring)
		for i := 1; i < len(pts); i++ {
			a, b := pts[i-1], pts[i]
			if !horizontal {
				a, b = r2.Point{X: a.Y, Y: a.X}, r2.Point{X: b.Y, Y: b.X}
			}
			level := c.Y
			if !horizontal {
				level = c.X
			}
			if (a.Y <= level) != (b.Y <= level) {
				out = append(out, a.X+(level-a.Y)*(b.X-a.X)/(b.Y-a.Y))
			}
		}
	}
	sort.Float64s(out)
	return out
}

// GridPoints returns a lattice of points spaced dx by dy inside poly,
// centred in its bounding box. With alternating set, odd rows shift by
// half a column.
func GridPoints(poly geom.Polygon, dx, dy float64, alternating bool) []r2.Point {
	if dx <= 0 || dy <= 0 {
		return nil
	}
	box, ok := Bounds(poly)
	if !ok {
		return nil
	}
	w, h := box.X.Length(), box.Y.Length()
	nx, ny := int(w/dx), int(h/dy)
	x0 := box.X.Lo + (w-dx*float64(nx))/2 + dx/2
	y0 := box.Y.Lo + (h-dy*float64(ny))/2 + dy/2

	var out []r2.Point
	for j := range ny {
		shift := 0.0
		if alternating && j%2 == 1 {
			shift = dx / 2
		}
		for i := range nx {
			p := r2.Point{X: x0 + dx*float64(i) + shift, Y: y0 + dy*float64(j)}
			if Contains(poly, p) {
				out = append(out, p)
			}
		}
	}
	return out
}
