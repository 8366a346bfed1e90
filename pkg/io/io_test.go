package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/errors"
	"github.com/matzehuels/maplabel/pkg/placement"
	"github.com/matzehuels/maplabel/pkg/spatial"
)

const sceneJSON = `{
  "extent": [0, 0, 400, 300],
  "layers": [
    {"name": "roads", "style": {"placement": "line"},
     "features": [{"id": "r1", "label": "Main St",
       "geometry": {"type": "LineString", "coordinates": [[0, 10], [300, 10]]}}]}
  ]
}`

const sceneYAML = `
extent: [0, 0, 400, 300]
layers:
  - name: roads
    style: {placement: line}
    features:
      - id: r1
        label: Main St
        geometry: {type: LineString, coordinates: [[0, 10], [300, 10]]}
`

func TestReaders(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{"json", FormatJSON, sceneJSON},
		{"yaml", FormatYAML, sceneYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read() = %v", err)
			}
			if len(s.Layers) != 1 || s.Layers[0].Name != "roads" || s.Layers[0].Features[0].Label != "Main St" {
				t.Errorf("scene = %+v", s)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   errors.Code
	}{
		{"malformed json", FormatJSON, `{"extent": [0, 0`, errors.ErrCodeInvalidScene},
		{"unknown field", FormatJSON, `{"extent": [0, 0, 1, 1], "layerz": []}`, errors.ErrCodeInvalidScene},
		{"empty extent", FormatJSON, `{"extent": [0, 0, 0, 0]}`, errors.ErrCodeInvalidScene},
		{"bad style", FormatYAML, "extent: [0, 0, 1, 1]\nlayers:\n  - name: a\n    style: {placement: spiral}\n", errors.ErrCodeInvalidStyle},
		{"unknown format", "toml", sceneJSON, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]string{
		"a.json":     FormatJSON,
		"a.yaml":     FormatYAML,
		"b/c.YML":    FormatYAML,
		"no-ext":     FormatJSON,
		"scene.toml": FormatJSON,
	}
	for path, want := range tests {
		if got := DetectFormat(path); got != want {
			t.Errorf("DetectFormat(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestImportScene(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{"s.json": sceneJSON, "s.yml": sceneYAML} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		s, err := ImportScene(path)
		if err != nil {
			t.Fatalf("ImportScene(%s) = %v", name, err)
		}
		if s.FeatureCount() != 1 {
			t.Errorf("%s: features = %d", name, s.FeatureCount())
		}
	}

	_, err := ImportScene(filepath.Join(dir, "missing.json"))
	if !errors.IsNotFound(err) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := ImportScene(""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("empty path error = %v", err)
	}
}

func samplePlacements() ([]placement.Placement, placement.Stats) {
	a := spatial.Box(10, 10, 30, 20)
	b1, b2 := spatial.Box(40, 40, 45, 50), spatial.Box(45, 40, 50, 50)
	ps := []placement.Placement{
		{Layer: "pois", Feature: "p1", Key: "A", Position: r2.Point{X: 20, Y: 15}, Box: a, Boxes: []r2.Rect{a}},
		{Layer: "roads", Feature: "r1", Key: "ab", Position: r2.Point{X: 45, Y: 45}, Angle: 0.5, Box: b1.Union(b2), Boxes: []r2.Rect{b1, b2}},
		{Layer: "walls", Key: "walls", Box: a, Boxes: []r2.Rect{a}, Obstacle: true},
	}
	return ps, placement.Stats{Candidates: 5, Collisions: 2, Placed: 3, CapHits: 1}
}

func TestDocument(t *testing.T) {
	ps, st := samplePlacements()
	doc := NewDocument(spatial.Box(0, 0, 100, 100), ps, st)

	if doc.Extent != [4]float64{0, 0, 100, 100} {
		t.Errorf("Extent = %v", doc.Extent)
	}
	if doc.Stats.CapHits != 1 || doc.Stats.Placed != 3 {
		t.Errorf("Stats = %+v", doc.Stats)
	}
	if len(doc.Placements[0].Boxes) != 0 {
		t.Errorf("single box should not be repeated: %v", doc.Placements[0].Boxes)
	}
	if got := doc.Placements[1].Rects(); len(got) != 2 || got[1] != ps[1].Boxes[1] {
		t.Errorf("Rects() = %v", got)
	}
	if got := doc.Placements[0].Rects(); len(got) != 1 || got[0] != ps[0].Box {
		t.Errorf("Rects() = %v", got)
	}
	if v := doc.Visible(); len(v) != 2 {
		t.Errorf("Visible() = %d records, want 2", len(v))
	}
	if doc.Bounds() != spatial.Box(0, 0, 100, 100) {
		t.Errorf("Bounds() = %v", doc.Bounds())
	}
}

func TestWriteReadDocument(t *testing.T) {
	ps, st := samplePlacements()
	doc := NewDocument(spatial.Box(0, 0, 100, 100), ps, st)

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"cap_hits": 1`) {
		t.Errorf("output missing stats:\n%s", buf.String())
	}

	got, err := ReadDocument(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Placements) != 3 || got.Placements[1].Angle != 0.5 || !got.Placements[2].Obstacle {
		t.Errorf("decoded = %+v", got.Placements)
	}

	if _, err := ReadDocument(strings.NewReader("{")); err == nil {
		t.Error("expected a decode error")
	}
}

func TestExportJSON(t *testing.T) {
	ps, st := samplePlacements()
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportJSON(NewDocument(spatial.Box(0, 0, 100, 100), ps, st), path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := ReadDocument(f)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Placements[0].Key != "A" {
		t.Errorf("first key = %q", doc.Placements[0].Key)
	}

	if err := ExportJSON(doc, filepath.Join(t.TempDir(), "missing", "out.json")); err == nil {
		t.Error("expected a create error")
	}
}
