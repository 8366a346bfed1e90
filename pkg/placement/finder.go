// Package placement decides where labels go.
//
// A [Finder] takes geometries one at a time in caller order, generates
// candidate anchors with the selected [Strategy], and accepts the first
// candidate that survives the collision cache. Accepted boxes are inserted
// into the cache, so earlier labels always win over later ones.
//
// Along lines the finder walks each sub-path at spacing intervals and, for
// every anchor, tries the offsets of a [tolerance.Iterator] until one
// fits. Text follows the path glyph by glyph; markers and obstacles occupy
// one rotated box.
//
// Rejection is never an error: a label that finds no room simply produces
// no placement.
package placement

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-spatial/geom"
	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/collision"
	"github.com/matzehuels/maplabel/pkg/geometry"
	"github.com/matzehuels/maplabel/pkg/pathcursor"
)

// Finder places labels against one collision cache.
//
// A Finder is not safe for concurrent use.
type Finder struct {
	cache  *collision.Cache
	logger *log.Logger
	scale  float64

	placements []Placement
	stats      Stats
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets the logger for diagnostics such as the tolerance cap
// warning.
func WithLogger(l *log.Logger) Option {
	return func(f *Finder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithScaleFactor multiplies every style distance. Non-positive values are
// ignored.
func WithScaleFactor(s float64) Option {
	return func(f *Finder) {
		if s > 0 && !math.IsInf(s, 0) {
			f.scale = s
		}
	}
}

// NewFinder creates a finder that tests and inserts into cache.
func NewFinder(cache *collision.Cache, opts ...Option) *Finder {
	f := &Finder{
		cache:  cache,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		scale:  1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Cache returns the collision cache the finder works against.
func (f *Finder) Cache() *collision.Cache { return f.cache }

// ScaleFactor returns the distance multiplier.
func (f *Finder) ScaleFactor() float64 { return f.scale }

// Placements returns every placement accepted so far, in order.
func (f *Finder) Placements() []Placement { return f.placements }

// Stats returns the counters accumulated so far.
func (f *Finder) Stats() Stats { return f.stats }

// Reset forgets recorded placements and counters. The collision cache is
// left as is.
func (f *Finder) Reset() {
	f.placements = nil
	f.stats = Stats{}
}

// Place labels g with a single layout. It returns the placements accepted
// for this call.
func (f *Finder) Place(g geom.Geometry, layout Layout, params Params) []Placement {
	return f.PlaceAlternatives(g, []Layout{layout}, params)
}

// PlaceAlternatives tries each layout in order. A layout is only tried on
// the geometry parts that none of the previous layouts could place.
func (f *Finder) PlaceAlternatives(g geom.Geometry, layouts []Layout, params Params) []Placement {
	params = params.withDefaults()
	parts, whole := split(g, params.Multi)

	var out []Placement
	for _, layout := range layouts {
		if len(parts) == 0 {
			break
		}
		r := f.newRun(layout, params)
		var left []geom.Geometry
		for _, part := range parts {
			n := len(r.placed)
			if whole {
				f.placeWhole(r, part)
			} else {
				f.placePart(r, part)
			}
			if len(r.placed) == n {
				left = append(left, part)
			}
		}
		out = append(out, r.placed...)
		parts = left
	}

	if len(parts) > 0 {
		f.stats.Unplaced += len(parts)
		f.logger.Debug("no placement found", "layer", params.Layer, "feature", params.Feature, "parts", len(parts))
	}
	f.placements = append(f.placements, out...)
	return out
}

func split(g geom.Geometry, multi MultiPolicy) ([]geom.Geometry, bool) {
	switch multi {
	case MultiLargest:
		if part, ok := geometry.Largest(g); ok {
			return []geom.Geometry{part}, false
		}
		return nil, false
	case MultiWhole:
		if parts := geometry.Split(g); len(parts) > 1 {
			return []geom.Geometry{g}, true
		}
	}
	return geometry.Split(g), false
}

// run carries the derived values of one layout/params pair.
type run struct {
	layout    Layout
	params    Params
	repeatKey string // non-empty selects the repeat predicate
	insertKey string

	margin         float64
	repeatDistance float64
	maxAngle       float64 // radians
	angleDistance  float64

	placed []Placement
}

func (f *Finder) newRun(layout Layout, params Params) *run {
	r := &run{
		layout:         layout,
		params:         params,
		repeatKey:      params.RepeatKey,
		margin:         params.Margin * f.scale,
		repeatDistance: params.RepeatDistance * f.scale,
		maxAngle:       params.MaxAngle * math.Pi / 180,
		angleDistance:  params.MaxAngleDistance * f.scale,
	}
	if r.repeatKey == "" && params.RepeatDistance > 0 {
		r.repeatKey = layout.Key
	}
	r.insertKey = r.repeatKey
	if r.insertKey == "" {
		r.insertKey = layout.Key
	}
	if r.angleDistance <= 0 {
		r.angleDistance = layout.Width
	}
	return r
}

func (f *Finder) placeWhole(r *run, g geom.Geometry) {
	if c, ok := geometry.Centroid(g); ok {
		f.pushPoint(r, c, 0)
	}
}

func (f *Finder) placePart(r *run, part geom.Geometry) {
	kind := geometry.KindOf(part)
	switch s := r.params.Strategy; {
	case s == StrategyLine:
		if kind == geometry.KindPoint {
			// points under line placement sit on the point itself
			f.placeWhole(r, part)
			return
		}
		f.placeLine(r, part)
	case s.IsVertex():
		for _, a := range vertexAnchors(part, s) {
			f.pushPoint(r, a.point, r.anchorAngle(a.angle))
		}
	case s.IsGrid() && kind == geometry.KindPolygon:
		dx, dy := f.gridSpacing(r)
		for _, p := range geometry.GridPoints(part.(geom.Polygon), dx, dy, s == StrategyAlternatingGrid) {
			f.pushPoint(r, p, 0)
		}
	default:
		if a, ok := pointAnchor(part, s); ok {
			f.pushPoint(r, a.point, r.anchorAngle(a.angle))
		}
	}
}

// anchorAngle keeps text horizontal outside line placement.
func (r *run) anchorAngle(a float64) float64 {
	if r.params.Kind == KindText {
		return 0
	}
	return a
}

func (f *Finder) gridSpacing(r *run) (dx, dy float64) {
	dx = r.params.GridDx * f.scale
	if dx <= 0 {
		dx = max(r.params.Spacing*f.scale, r.layout.Width)
	}
	dy = r.params.GridDy * f.scale
	if dy <= 0 {
		dy = dx
	}
	return dx, dy
}

func (f *Finder) placeLine(r *run, part geom.Geometry) {
	c := pathcursor.New(geometry.Parts(part)...)
	f.searchLine(r, c, f.linePolicy(r))
}

// pushPoint pushes a candidate anchored at p, with text running straight
// along angle.
func (f *Finder) pushPoint(r *run, p r2.Point, angle float64) bool {
	dir := r2.Point{X: math.Cos(angle), Y: math.Sin(angle)}
	return f.push(r, func(offset float64) (r2.Point, float64, bool) {
		return p.Add(dir.Mul(offset)), angle, true
	})
}
