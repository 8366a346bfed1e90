package placement

import (
	"math"

	"github.com/matzehuels/maplabel/pkg/pathcursor"
	"github.com/matzehuels/maplabel/pkg/tolerance"
)

// linePolicy supplies the kind-specific rules of the line walk.
type linePolicy interface {
	// checkSize reports whether the current sub-path can carry a label.
	checkSize(c *pathcursor.Cursor) bool
	// align moves to the first anchor of the current sub-path.
	align(c *pathcursor.Cursor) bool
	// tolerance bounds the offsets tried around each anchor.
	tolerance() float64
	// anchorSpacing is the anchor distance on the current sub-path.
	anchorSpacing() float64
	// move shifts the cursor to a tolerance offset.
	move(c *pathcursor.Cursor, d float64) bool
	// forward advances to the next anchor.
	forward(c *pathcursor.Cursor, success bool) bool
}

// searchLine walks every sub-path of c. The success flag stays set once
// any anchor was placed, which switches forward steps to full spacing.
func (f *Finder) searchLine(r *run, c *pathcursor.Cursor, pol linePolicy) bool {
	success := false
	for c.NextSubpath() {
		if !pol.checkSize(c) {
			continue
		}
		if !pol.align(c) {
			continue
		}
		it := tolerance.New(pol.tolerance(), nil, tolerance.WithLogger(f.logger), tolerance.WithSpacing(pol.anchorSpacing()))
		for {
			if f.tryOffsets(r, c, pol, it) {
				success = true
			}
			if !pol.forward(c, success) {
				break
			}
		}
	}
	return success
}

// tryOffsets tests the tolerance offsets around the current anchor. The
// first accepted offset leaves the cursor where it was placed.
func (f *Finder) tryOffsets(r *run, c *pathcursor.Cursor, pol linePolicy, it *tolerance.Iterator) bool {
	it.Reset()
	for it.Next() {
		state := c.Scoped()
		if pol.move(c, it.Value()) && r.bendFits(c) && f.push(r, c.PositionAt) {
			return true
		}
		state.Restore()
	}
	if it.CapHit() {
		f.stats.CapHits++
	}
	return false
}

// bendFits probes angleDistance in both directions and rejects positions
// where the path turns by more than maxAngle. The cursor never moves.
func (r *run) bendFits(c *pathcursor.Cursor) bool {
	if r.maxAngle <= 0 {
		return true
	}
	saved := c.SaveState()
	ok := c.MoveMaxAngle(-r.angleDistance, r.maxAngle)
	c.RestoreState(saved)
	if !ok {
		return false
	}
	ok = c.MoveMaxAngle(r.angleDistance, r.maxAngle)
	c.RestoreState(saved)
	return ok
}

func (f *Finder) linePolicy(r *run) linePolicy {
	switch r.params.Kind {
	case KindMarker:
		spacing := r.params.Spacing * f.scale
		if spacing < 1 {
			spacing = 100
		}
		return &markerPolicy{
			spacing: spacing,
			tol:     spacing * r.params.MaxError,
			width:   r.layout.Width,
		}
	case KindCollision:
		return &markerPolicy{spacing: max(r.params.Spacing*f.scale, 1)}
	}
	return &textPolicy{
		spacing:       r.params.Spacing * f.scale,
		minPathLength: r.params.MinimumPathLength * f.scale,
		positionTol:   r.params.PositionTolerance * f.scale,
		width:         r.layout.Width,
		halign:        r.params.HAlign,
		dx:            r.params.Dx * f.scale,
	}
}

// markerPolicy spaces rigid boxes evenly along a path.
type markerPolicy struct {
	spacing float64
	tol     float64
	width   float64
}

func (p *markerPolicy) checkSize(*pathcursor.Cursor) bool { return true }

func (p *markerPolicy) align(c *pathcursor.Cursor) bool {
	return c.Forward(min(p.spacing, c.Length()) / 2)
}

func (p *markerPolicy) tolerance() float64 { return p.tol }

func (p *markerPolicy) anchorSpacing() float64 { return p.spacing }

func (p *markerPolicy) move(c *pathcursor.Cursor, d float64) bool {
	return c.Move(d) && c.LinearPosition()+p.width/2 < c.Length()
}

func (p *markerPolicy) forward(c *pathcursor.Cursor, success bool) bool {
	if success {
		return c.Forward(p.spacing)
	}
	return c.Forward(p.spacing / 2)
}

// textPolicy distributes labels over each sub-path so that the last one
// ends as close to the path end as the first starts to its beginning.
type textPolicy struct {
	spacing       float64
	minPathLength float64
	positionTol   float64
	width         float64
	halign        HAlign
	dx            float64

	// current is the spacing on the current sub-path.
	current float64
}

func (p *textPolicy) checkSize(c *pathcursor.Cursor) bool {
	length := c.Length()
	if length < p.minPathLength || length < p.width {
		return false
	}
	labels := 1
	if p.spacing > 0 && p.halign != HAlignAdjust {
		labels = max(int(math.Floor(length/(p.spacing+p.width))), 1)
	}
	p.current = length / float64(labels)
	return true
}

func (p *textPolicy) align(c *pathcursor.Cursor) bool {
	switch p.halign {
	case HAlignRight:
		if !c.Forward(c.Length()) {
			return false
		}
	case HAlignAdjust:
		if !c.Forward(c.Length() / 2) {
			return false
		}
	case HAlignLeft:
	default:
		if !c.Forward(p.current / 2) {
			return false
		}
	}
	if p.dx != 0 {
		state := c.Scoped()
		if !c.Move(p.dx) {
			state.Restore()
		}
	}
	return true
}

func (p *textPolicy) tolerance() float64 {
	if p.positionTol > 0 {
		return p.positionTol
	}
	return p.current / 2
}

func (p *textPolicy) anchorSpacing() float64 { return p.current }

func (p *textPolicy) move(c *pathcursor.Cursor, d float64) bool { return c.Move(d) }

func (p *textPolicy) forward(c *pathcursor.Cursor, success bool) bool {
	if success {
		return c.Forward(p.current)
	}
	return c.Forward(p.current / 2)
}
