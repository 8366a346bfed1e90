package sink

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/golang/geo/r2"

	pkgio "github.com/matzehuels/maplabel/pkg/io"
)

const (
	svgGeometryStyle = "fill:none;stroke:#c8c8c8;stroke-width:1"
	svgBoxStyle      = "fill:none;stroke:#d62728;stroke-width:1"
	svgObstacleStyle = "fill:none;stroke:#7f7f7f;stroke-width:1;stroke-dasharray:3,2"
	svgTextStyle     = "font-family:monospace;font-size:10px;text-anchor:middle;dominant-baseline:middle;fill:#222"
	svgAnchorStyle   = "fill:#1f77b4"
)

// RenderSVG draws the document as SVG.
func RenderSVG(doc *pkgio.Document, opts ...Option) []byte {
	o := newOptions(opts...)
	f := newFrame(doc.Bounds())

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(f.width, f.height)
	canvas.Title(o.title)

	if shapes := sceneShapes(o.scene); len(shapes) > 0 {
		canvas.Gid("geometry")
		for _, s := range shapes {
			drawShapeSVG(canvas, f, s)
		}
		canvas.Gend()
	}

	canvas.Gid("labels")
	for _, rec := range records(doc, o) {
		style := svgBoxStyle
		if rec.Obstacle {
			style = svgObstacleStyle
		}
		for _, b := range rec.Rects() {
			r := f.rect(b)
			canvas.Rect(round(r.X.Lo), round(r.Y.Lo), round(r.X.Length()), round(r.Y.Length()), style)
		}
		if rec.Obstacle {
			continue
		}
		p := f.point(r2.Point{X: rec.X, Y: rec.Y})
		x, y := round(p.X), round(p.Y)
		canvas.Circle(x, y, 1, svgAnchorStyle)
		if rec.Angle != 0 {
			canvas.Gtransform(fmt.Sprintf("rotate(%.2f %d %d)", degrees(rec.Angle), x, y))
			canvas.Text(x, y, rec.Key, svgTextStyle)
			canvas.Gend()
		} else {
			canvas.Text(x, y, rec.Key, svgTextStyle)
		}
	}
	canvas.Gend()

	canvas.End()
	return buf.Bytes()
}

func drawShapeSVG(canvas *svg.SVG, f frame, s shape) {
	if len(s.points) == 1 {
		p := f.point(s.points[0])
		canvas.Circle(round(p.X), round(p.Y), 2, svgGeometryStyle)
		return
	}
	xs := make([]int, len(s.points))
	ys := make([]int, len(s.points))
	for i, pt := range s.points {
		p := f.point(pt)
		xs[i], ys[i] = round(p.X), round(p.Y)
	}
	if s.closed {
		canvas.Polygon(xs, ys, svgGeometryStyle)
		return
	}
	canvas.Polyline(xs, ys, svgGeometryStyle)
}

func round(v float64) int { return int(math.Round(v)) }
