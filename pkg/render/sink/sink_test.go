package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/errors"
	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/placement"
	"github.com/matzehuels/maplabel/pkg/scene"
	"github.com/matzehuels/maplabel/pkg/spatial"
)

func testDocument() *pkgio.Document {
	a := spatial.Box(110, 110, 130, 120)
	g1, g2 := spatial.Box(150, 140, 157, 150), spatial.Box(157, 140, 164, 150)
	wall := spatial.Box(100, 200, 150, 210)
	return pkgio.NewDocument(spatial.Box(100, 100, 356, 228), []placement.Placement{
		{Layer: "pois", Feature: "p1", Key: "A&B", Position: r2.Point{X: 120, Y: 115}, Box: a, Boxes: []r2.Rect{a}},
		{Layer: "roads", Feature: "r1", Key: "ab", Position: r2.Point{X: 157, Y: 145}, Angle: 0.3, Box: g1.Union(g2), Boxes: []r2.Rect{g1, g2}},
		{Layer: "walls", Key: "walls", Position: r2.Point{X: 125, Y: 205}, Box: wall, Boxes: []r2.Rect{wall}, Obstacle: true},
	}, placement.Stats{Placed: 3})
}

func testScene() *scene.Scene {
	return &scene.Scene{
		Extent: [4]float64{100, 100, 356, 228},
		Layers: []scene.Layer{{
			Name: "roads",
			Features: []scene.Feature{
				{ID: "r1", Label: "ab", Geometry: scene.Geometry{Type: scene.TypeLineString, Coordinates: []any{[]any{100.0, 145.0}, []any{300.0, 145.0}}}},
				{ID: "lake", Label: "x", Geometry: scene.Geometry{Type: scene.TypePolygon, Coordinates: []any{[]any{
					[]any{200.0, 200.0}, []any{220.0, 200.0}, []any{220.0, 220.0}, []any{200.0, 200.0},
				}}}},
				{ID: "p", Label: "y", Geometry: scene.Geometry{Type: scene.TypePoint, Coordinates: []any{300.0, 110.0}}},
			},
		}},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testDocument(), WithScene(testScene()), WithTitle("city")))

	tests := []struct {
		name string
		want string
	}{
		{"size", `width="256" height="128"`},
		{"title", "<title>city</title>"},
		{"escaped key", "A&amp;B"},
		{"glyph box translated", `x="50" y="40" width="7" height="10"`},
		{"rotation", "rotate(17.19 57 45)"},
		{"line geometry", "<polyline"},
		{"polygon geometry", "<polygon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.want) {
				t.Errorf("svg missing %q:\n%s", tt.want, out)
			}
		})
	}
	if strings.Contains(out, "stroke-dasharray") {
		t.Error("obstacles drawn without WithObstacles")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("svg not closed")
	}
}

func TestRenderSVGObstacles(t *testing.T) {
	out := string(RenderSVG(testDocument(), WithObstacles()))
	if !strings.Contains(out, "stroke-dasharray") {
		t.Error("obstacle boxes missing")
	}
	if strings.Contains(out, ">walls<") {
		t.Error("obstacle key should not be drawn as text")
	}
}

func TestRenderPNG(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		w, h  int
	}{
		{"default", 0, 256, 128},
		{"double", 2, 512, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := RenderPNG(testDocument(), WithScene(testScene()), WithObstacles(), WithScale(tt.scale))
			if err != nil {
				t.Fatal(err)
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}
		})
	}
}

func TestRenderDispatch(t *testing.T) {
	doc := testDocument()
	for _, f := range Formats {
		t.Run(f, func(t *testing.T) {
			out, err := Render(f, doc)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) == 0 {
				t.Error("empty output")
			}
		})
	}

	out, err := Render(FormatJSON, doc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := pkgio.ReadDocument(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Placements) != 3 {
		t.Errorf("json placements = %d", len(back.Placements))
	}

	if _, err := Render("pdf", doc); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(pdf) error = %v", err)
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"all", Formats, false},
		{"single", []string{"png"}, false},
		{"none", nil, true},
		{"empty entry", []string{"svg", ""}, true},
		{"unknown", []string{"svg", "gif"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) = %v", tt.formats, err)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %q", errors.GetCode(err))
			}
		})
	}
}

func TestExtension(t *testing.T) {
	if Extension(FormatPNG) != ".png" {
		t.Errorf("Extension = %q", Extension(FormatPNG))
	}
}
