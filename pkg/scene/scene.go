// Package scene defines the input document of a labelling run.
//
// A [Scene] is a pixel-space extent plus an ordered list of layers. Each
// layer carries a [Style] and the features to label. Layer order is
// placement priority: earlier layers claim space first.
//
// Scenes are plain data with JSON and YAML tags; see package io for
// reading them from disk.
package scene

import (
	"math"
	"strconv"

	"github.com/go-spatial/geom"
	"github.com/golang/geo/r2"

	"github.com/matzehuels/maplabel/pkg/errors"
	"github.com/matzehuels/maplabel/pkg/geometry"
	"github.com/matzehuels/maplabel/pkg/placement"
	"github.com/matzehuels/maplabel/pkg/spatial"
)

// Scene is a complete labelling request.
type Scene struct {
	Extent      [4]float64 `json:"extent" yaml:"extent"`
	ScaleFactor float64    `json:"scale_factor,omitempty" yaml:"scale_factor,omitempty"`
	Layers      []Layer    `json:"layers" yaml:"layers"`
}

// Layer is a group of features sharing one style.
type Layer struct {
	Name     string    `json:"name" yaml:"name"`
	Kind     string    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Style    Style     `json:"style" yaml:"style"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature is one labelled geometry.
type Feature struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Label        string   `json:"label,omitempty" yaml:"label,omitempty"`
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Geometry     Geometry `json:"geometry" yaml:"geometry"`
}

// Bounds returns the extent as a rectangle.
func (s *Scene) Bounds() r2.Rect {
	return spatial.Box(s.Extent[0], s.Extent[1], s.Extent[2], s.Extent[3])
}

// Scale returns the scale factor, defaulting to 1.
func (s *Scene) Scale() float64 {
	if s.ScaleFactor <= 0 {
		return 1
	}
	return s.ScaleFactor
}

// FeatureCount returns the number of features over all layers.
func (s *Scene) FeatureCount() int {
	n := 0
	for _, l := range s.Layers {
		n += len(l.Features)
	}
	return n
}

// PlacementKind returns the layer kind, defaulting to text.
func (l Layer) PlacementKind() placement.Kind {
	if l.Kind == "" {
		return placement.KindText
	}
	return placement.Kind(l.Kind)
}

// Validate checks the extent, every style and every geometry. The first
// problem found is returned.
func (s *Scene) Validate() error {
	for _, v := range s.Extent {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidScene, "extent must be finite, got %v", s.Extent)
		}
	}
	if s.Extent[2] <= s.Extent[0] || s.Extent[3] <= s.Extent[1] {
		return errors.New(errors.ErrCodeInvalidScene, "extent is empty: %v", s.Extent)
	}
	if math.IsNaN(s.ScaleFactor) || math.IsInf(s.ScaleFactor, 0) || s.ScaleFactor < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "scale_factor must be a non-negative number, got %v", s.ScaleFactor)
	}

	for i, l := range s.Layers {
		if err := errors.ValidateName(l.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "layer %d", i)
		}
		if err := errors.ValidateEnum("kind", l.Kind, placement.Kinds); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "layer %q", l.Name)
		}
		if err := l.Style.Params(l.PlacementKind()).Validate(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "layer %q", l.Name)
		}
		if err := l.Style.validateSize(); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "layer %q", l.Name)
		}
		for j, f := range l.Features {
			if err := errors.ValidateName(f.ID); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "layer %q feature %d", l.Name, j)
			}
			if _, err := f.Geom(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidGeometry, err, "layer %q feature %s", l.Name, f.Name(j))
			}
		}
	}
	return nil
}

// Name returns the feature ID, or its index when the ID is empty.
func (f Feature) Name(index int) string {
	if f.ID != "" {
		return f.ID
	}
	return "#" + strconv.Itoa(index)
}

// Geom decodes and validates the feature geometry.
func (f Feature) Geom() (geom.Geometry, error) {
	g, err := f.Geometry.Decode()
	if err != nil {
		return nil, err
	}
	if err := geometry.Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}
