package sink

import (
	"math"
	"slices"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/errors"
	"github.com/matzehuels/maplabel/pkg/geometry"
	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/scene"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Formats lists every format [Render] accepts.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON}

// Extension returns the file extension for a format.
func Extension(format string) string { return "." + format }

// Option configures rendering.
type Option func(*options)

type options struct {
	scene     *scene.Scene
	obstacles bool
	scale     float64
	title     string
}

// WithScene draws the scene geometry under the labels.
func WithScene(s *scene.Scene) Option { return func(o *options) { o.scene = s } }

// WithObstacles draws the boxes of collision layers.
func WithObstacles() Option { return func(o *options) { o.obstacles = true } }

// WithScale sets the PNG pixel ratio (default 1). SVG output is unaffected.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithTitle sets the SVG document title.
func WithTitle(t string) Option { return func(o *options) { o.title = t } }

func newOptions(opts ...Option) options {
	o := options{scale: 1, title: "placements"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render renders doc in the named format.
func Render(format string, doc *pkgio.Document, opts ...Option) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(doc, opts...), nil
	case FormatPNG:
		return RenderPNG(doc, opts...)
	case FormatJSON:
		return RenderJSON(doc)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported render format %q", format)
}

// ValidateFormats checks a list of format names.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "at least one output format is required")
	}
	for _, f := range formats {
		if f == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "empty output format")
		}
		if !slices.Contains(Formats, f) {
			return errors.Wrap(errors.ErrCodeInvalidFormat, errors.ValidateEnum("format", f, Formats), "render")
		}
	}
	return nil
}

// frame maps document coordinates to pixels.
type frame struct {
	origin        r2.Point
	width, height int
}

func newFrame(ext r2.Rect) frame {
	return frame{
		origin: r2.Point{X: ext.X.Lo, Y: ext.Y.Lo},
		width:  int(math.Ceil(ext.X.Length())),
		height: int(math.Ceil(ext.Y.Length())),
	}
}

func (f frame) point(p r2.Point) r2.Point { return p.Sub(f.origin) }

func (f frame) rect(r r2.Rect) r2.Rect {
	return r2.RectFromPoints(f.point(r.Lo()), f.point(r.Hi()))
}

// shape is one drawable scene path.
type shape struct {
	points []r2.Point
	closed bool
}

func sceneShapes(s *scene.Scene) []shape {
	if s == nil {
		return nil
	}
	var out []shape
	for _, l := range s.Layers {
		for _, f := range l.Features {
			g, err := f.Geom()
			if err != nil {
				continue
			}
			for _, part := range geometry.Parts(g) {
				closed := len(part) > 2 && part[0] == part[len(part)-1]
				out = append(out, shape{points: part, closed: closed})
			}
		}
	}
	return out
}

func records(doc *pkgio.Document, o options) []pkgio.Record {
	if o.obstacles {
		return doc.Placements
	}
	return doc.Visible()
}

// degrees converts a placement angle to the clockwise degrees used by SVG
// and gg transforms in a y-down pixel space.
func degrees(angle float64) float64 { return angle * 180 / math.Pi }
