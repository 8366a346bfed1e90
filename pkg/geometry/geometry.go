// Package geometry adapts go-spatial geometries for label placement.
//
// Placement works on single-part geometries in pixel space. This package
// splits multi-part geometries and collections, converts parts into
// [r2.Point] sequences for path walking, and computes the anchor points the
// placement strategies need: centroid, middle point, interior position,
// vertices and grid lattices.
//
// Both value and pointer forms of the go-spatial types are accepted.
package geometry

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/errors"
)

// Kind is the dimension class of a single-part geometry.
type Kind int

const (
	KindUnknown Kind = iota
	KindPoint
	KindLine
	KindPolygon
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	}
	return "unknown"
}

// deref turns pointer geometries into values so callers only switch on
// value types.
func deref(g geom.Geometry) geom.Geometry {
	switch v := g.(type) {
	case *geom.Point:
		if v != nil {
			return *v
		}
	case *geom.MultiPoint:
		if v != nil {
			return *v
		}
	case *geom.LineString:
		if v != nil {
			return *v
		}
	case *geom.MultiLineString:
		if v != nil {
			return *v
		}
	case *geom.Polygon:
		if v != nil {
			return *v
		}
	case *geom.MultiPolygon:
		if v != nil {
			return *v
		}
	case *geom.Collection:
		if v != nil {
			return *v
		}
	default:
		return g
	}
	return nil
}

// KindOf reports the kind of a single-part geometry. Multi-part geometries
// and collections report KindUnknown; Split them first.
func KindOf(g geom.Geometry) Kind {
	switch deref(g).(type) {
	case geom.Point:
		return KindPoint
	case geom.LineString:
		return KindLine
	case geom.Polygon:
		return KindPolygon
	}
	return KindUnknown
}

// Split flattens multi-part geometries and collections into single parts in
// their original order. Empty parts are dropped.
func Split(g geom.Geometry) []geom.Geometry {
	var out []geom.Geometry
	split(deref(g), &out)
	return out
}

func split(g geom.Geometry, out *[]geom.Geometry) {
	switch v := g.(type) {
	case geom.Point:
		*out = append(*out, v)
	case geom.MultiPoint:
		for _, p := range v {
			*out = append(*out, geom.Point(p))
		}
	case geom.LineString:
		if len(v) > 0 {
			*out = append(*out, v)
		}
	case geom.MultiLineString:
		for _, ls := range v {
			if len(ls) > 0 {
				*out = append(*out, geom.LineString(ls))
			}
		}
	case geom.Polygon:
		if len(v) > 0 && len(v[0]) > 0 {
			*out = append(*out, v)
		}
	case geom.MultiPolygon:
		for _, poly := range v {
			if len(poly) > 0 && len(poly[0]) > 0 {
				*out = append(*out, geom.Polygon(poly))
			}
		}
	case geom.Collection:
		for _, child := range v {
			split(deref(child), out)
		}
	}
}

// Points converts coordinate pairs to r2 points.
func Points(coords [][2]float64) []r2.Point {
	out := make([]r2.Point, len(coords))
	for i, c := range coords {
		out[i] = r2.Point{X: c[0], Y: c[1]}
	}
	return out
}

// Ring returns the vertices of a polygon ring, closed so that the last point
// repeats the first.
func Ring(coords [][2]float64) []r2.Point {
	pts := Points(coords)
	if len(pts) > 1 && pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return pts
}

// Parts returns the walkable paths of a geometry: the line itself, every
// ring of a polygon, or a one-point path for a point. Multi-part input is
// split first.
func Parts(g geom.Geometry) [][]r2.Point {
	var parts [][]r2.Point
	for _, single := range Split(g) {
		switch v := single.(type) {
		case geom.Point:
			parts = append(parts, []r2.Point{{X: v[0], Y: v[1]}})
		case geom.LineString:
			parts = append(parts, Points(v))
		case geom.Polygon:
			for _, ring := range v {
				if len(ring) > 0 {
					parts = append(parts, Ring(ring))
				}
			}
		}
	}
	return parts
}

// Length returns the total length of a path.
func Length(pts []r2.Point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Sub(pts[i-1]).Norm()
	}
	return total
}

// Bounds returns the bounding rectangle of every coordinate in g.
func Bounds(g geom.Geometry) (r2.Rect, bool) {
	r := r2.EmptyRect()
	for _, part := range Parts(g) {
		for _, p := range part {
			r = r.AddPoint(p)
		}
	}
	return r, !r.IsEmpty()
}

// Size is the measure used to compare parts: area for polygons, length for
// lines and zero for points.
func Size(g geom.Geometry) float64 {
	switch v := deref(g).(type) {
	case geom.LineString:
		return Length(Points(v))
	case geom.Polygon:
		return math.Abs(polygonArea(v))
	}
	return 0
}

// Largest returns the part of g with the greatest Size. Ties keep the
// earliest part.
func Largest(g geom.Geometry) (geom.Geometry, bool) {
	parts := Split(g)
	if len(parts) == 0 {
		return nil, false
	}
	best, bestSize := parts[0], Size(parts[0])
	for _, p := range parts[1:] {
		if s := Size(p); s > bestSize {
			best, bestSize = p, s
		}
	}
	return best, true
}

// Validate rejects geometries with non-finite coordinates.
func Validate(g geom.Geometry) error {
	parts := Parts(g)
	if len(parts) == 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "geometry has no coordinates")
	}
	for _, part := range parts {
		for _, p := range part {
			if !finite(p.X) || !finite(p.Y) {
				return errors.New(errors.ErrCodeInvalidGeometry, "non-finite coordinate (%v, %v)", p.X, p.Y)
			}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
