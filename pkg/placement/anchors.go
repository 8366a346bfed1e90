package placement

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/geometry"
)

type anchor struct {
	point r2.Point
	angle float64
}

// pointAnchor returns the single anchor of a part under the point and
// interior strategies. Grid strategies on non-polygons land here too.
func pointAnchor(part geom.Geometry, s Strategy) (anchor, bool) {
	switch v := part.(type) {
	case geom.Point:
		return anchor{point: r2.Point{X: v[0], Y: v[1]}}, true
	case geom.LineString:
		p, angle, ok := geometry.MiddlePoint(geometry.Points(v))
		return anchor{point: p, angle: angle}, ok
	case geom.Polygon:
		if s == StrategyInterior {
			p, ok := geometry.Interior(v)
			return anchor{point: p}, ok
		}
		p, ok := geometry.Centroid(v)
		return anchor{point: p}, ok
	}
	return anchor{}, false
}

// vertexAnchors returns the vertices selected by a vertex strategy. Each
// vertex carries the direction of its outgoing segment; the last vertex of
// an open line uses the incoming one.
func vertexAnchors(part geom.Geometry, s Strategy) []anchor {
	var paths [][]r2.Point
	var closed bool
	switch v := part.(type) {
	case geom.Point:
		return []anchor{{point: r2.Point{X: v[0], Y: v[1]}}}
	case geom.LineString:
		paths = [][]r2.Point{geometry.Points(v)}
	case geom.Polygon:
		closed = true
		for _, ring := range v {
			if len(ring) > 0 {
				paths = append(paths, geometry.Ring(ring))
			}
		}
	}

	var out []anchor
	for _, pts := range paths {
		vs := vertices(pts, closed)
		if len(vs) == 0 {
			continue
		}
		switch s {
		case StrategyVertexFirst:
			out = append(out, vs[0])
		case StrategyVertexLast:
			out = append(out, vs[len(vs)-1])
		default:
			out = append(out, vs...)
		}
	}
	return out
}

func vertices(pts []r2.Point, closed bool) []anchor {
	n := len(pts)
	if closed && n > 1 {
		// drop the repeated closing vertex, its segment is already the
		// outgoing segment of the last distinct vertex
		n--
	}
	out := make([]anchor, 0, n)
	for i := 0; i < n; i++ {
		var d r2.Point
		switch {
		case i+1 < len(pts):
			d = pts[i+1].Sub(pts[i])
		case i > 0:
			d = pts[i].Sub(pts[i-1])
		}
		out = append(out, anchor{point: pts[i], angle: math.Atan2(d.Y, d.X)})
	}
	return out
}
