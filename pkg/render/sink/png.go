package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"

	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/text"
)

// RenderPNG draws the document as a PNG image, scaled by [WithScale].
// Label text uses the same bitmap face that measured it.
func RenderPNG(doc *pkgio.Document, opts ...Option) ([]byte, error) {
	o := newOptions(opts...)
	f := newFrame(doc.Bounds())

	w := max(int(float64(f.width)*o.scale), 1)
	h := max(int(float64(f.height)*o.scale), 1)
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Scale(o.scale, o.scale)
	dc.SetFontFace(text.Face)
	dc.SetLineWidth(1 / o.scale)

	dc.SetRGB255(200, 200, 200)
	for _, s := range sceneShapes(o.scene) {
		drawShapePNG(dc, f, s)
	}

	for _, rec := range records(doc, o) {
		if rec.Obstacle {
			dc.SetRGB255(127, 127, 127)
			dc.SetDash(3, 2)
		} else {
			dc.SetRGB255(214, 39, 40)
			dc.SetDash()
		}
		for _, b := range rec.Rects() {
			r := f.rect(b)
			dc.DrawRectangle(r.X.Lo, r.Y.Lo, r.X.Length(), r.Y.Length())
			dc.Stroke()
		}
		if rec.Obstacle {
			continue
		}
		p := f.point(r2.Point{X: rec.X, Y: rec.Y})
		dc.SetRGB255(34, 34, 34)
		dc.Push()
		dc.RotateAbout(rec.Angle, p.X, p.Y)
		dc.DrawStringAnchored(rec.Key, p.X, p.Y, 0.5, 0.5)
		dc.Pop()
	}
	dc.SetDash()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawShapePNG(dc *gg.Context, f frame, s shape) {
	if len(s.points) == 1 {
		p := f.point(s.points[0])
		dc.DrawCircle(p.X, p.Y, 2)
		dc.Stroke()
		return
	}
	for i, pt := range s.points {
		p := f.point(pt)
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
	if s.closed {
		dc.ClosePath()
	}
	dc.Stroke()
}
