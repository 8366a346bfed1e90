package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/placement"
	"github.com/matzehuels/maplabel/pkg/spatial"
)

// Document is the serialized result of a labelling run.
type Document struct {
	Extent     [4]float64 `json:"extent"`
	Placements []Record   `json:"placements"`
	Stats      Stats      `json:"stats"`
}

// Record is one placement in a [Document].
type Record struct {
	Layer    string       `json:"layer"`
	Feature  string       `json:"feature,omitempty"`
	Key      string       `json:"key"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Angle    float64      `json:"angle"`
	Box      [4]float64   `json:"box"`
	Boxes    [][4]float64 `json:"boxes,omitempty"`
	Obstacle bool         `json:"obstacle,omitempty"`
}

// Stats mirrors [placement.Stats] with JSON names.
type Stats struct {
	Candidates int `json:"candidates"`
	Collisions int `json:"collisions"`
	Placed     int `json:"placed"`
	Unplaced   int `json:"unplaced"`
	CapHits    int `json:"cap_hits"`
}

// NewDocument builds a document from finder output.
func NewDocument(extent r2.Rect, placements []placement.Placement, stats placement.Stats) *Document {
	doc := &Document{
		Extent:     rect(extent),
		Placements: make([]Record, len(placements)),
		Stats: Stats{
			Candidates: stats.Candidates,
			Collisions: stats.Collisions,
			Placed:     stats.Placed,
			Unplaced:   stats.Unplaced,
			CapHits:    stats.CapHits,
		},
	}
	for i, p := range placements {
		rec := Record{
			Layer:    p.Layer,
			Feature:  p.Feature,
			Key:      p.Key,
			X:        p.Position.X,
			Y:        p.Position.Y,
			Angle:    p.Angle,
			Box:      rect(p.Box),
			Obstacle: p.Obstacle,
		}
		if len(p.Boxes) > 1 {
			rec.Boxes = make([][4]float64, len(p.Boxes))
			for j, b := range p.Boxes {
				rec.Boxes[j] = rect(b)
			}
		}
		doc.Placements[i] = rec
	}
	return doc
}

// Bounds returns the document extent as a rectangle.
func (d *Document) Bounds() r2.Rect {
	return spatial.Box(d.Extent[0], d.Extent[1], d.Extent[2], d.Extent[3])
}

// Visible returns the records that are drawn, skipping obstacles.
func (d *Document) Visible() []Record {
	out := make([]Record, 0, len(d.Placements))
	for _, r := range d.Placements {
		if !r.Obstacle {
			out = append(out, r)
		}
	}
	return out
}

// Rect returns the record's union box.
func (r Record) Rect() r2.Rect {
	return spatial.Box(r.Box[0], r.Box[1], r.Box[2], r.Box[3])
}

// Rects returns the individual boxes, or the union box when the record
// has only one.
func (r Record) Rects() []r2.Rect {
	if len(r.Boxes) == 0 {
		return []r2.Rect{r.Rect()}
	}
	out := make([]r2.Rect, len(r.Boxes))
	for i, b := range r.Boxes {
		out[i] = spatial.Box(b[0], b[1], b[2], b[3])
	}
	return out
}

func rect(r r2.Rect) [4]float64 {
	return [4]float64{r.X.Lo, r.Y.Lo, r.X.Hi, r.Y.Hi}
}

// WriteJSON encodes a document as indented JSON and writes it to w.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDocument decodes a document written by [WriteJSON].
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &doc, nil
}

// ExportJSON writes a document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
