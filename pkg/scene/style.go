package scene

import (
	"github.com/matzehuels/maplabel/pkg/collision"
	"github.com/matzehuels/maplabel/pkg/errors"
	"github.com/matzehuels/maplabel/pkg/placement"
	"github.com/matzehuels/maplabel/pkg/text"
)

// Style holds the placement parameters of a layer. Zero values select the
// defaults of [placement.DefaultParams].
type Style struct {
	Placement         string  `json:"placement,omitempty" yaml:"placement,omitempty"`
	Spacing           float64 `json:"spacing,omitempty" yaml:"spacing,omitempty"`
	MaxError          float64 `json:"max_error,omitempty" yaml:"max_error,omitempty"`
	PositionTolerance float64 `json:"position_tolerance,omitempty" yaml:"position_tolerance,omitempty"`
	MinimumPathLength float64 `json:"minimum_path_length,omitempty" yaml:"minimum_path_length,omitempty"`
	Margin            float64 `json:"margin,omitempty" yaml:"margin,omitempty"`
	RepeatDistance    float64 `json:"repeat_distance,omitempty" yaml:"repeat_distance,omitempty"`
	MaxAngle          float64 `json:"max_angle,omitempty" yaml:"max_angle,omitempty"`
	MaxAngleDistance  float64 `json:"max_angle_distance,omitempty" yaml:"max_angle_distance,omitempty"`

	HAlign    string  `json:"halign,omitempty" yaml:"halign,omitempty"`
	Dx        float64 `json:"dx,omitempty" yaml:"dx,omitempty"`
	Direction string  `json:"direction,omitempty" yaml:"direction,omitempty"`

	AvoidEdges      bool `json:"avoid_edges,omitempty" yaml:"avoid_edges,omitempty"`
	AllowOverlap    bool `json:"allow_overlap,omitempty" yaml:"allow_overlap,omitempty"`
	IgnorePlacement bool `json:"ignore_placement,omitempty" yaml:"ignore_placement,omitempty"`

	CollisionCacheDetect string `json:"collision_cache_detect,omitempty" yaml:"collision_cache_detect,omitempty"`
	CollisionCacheInsert string `json:"collision_cache_insert,omitempty" yaml:"collision_cache_insert,omitempty"`

	FontSize float64 `json:"font_size,omitempty" yaml:"font_size,omitempty"`
	Width    float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height   float64 `json:"height,omitempty" yaml:"height,omitempty"`
	GridDx   float64 `json:"grid_dx,omitempty" yaml:"grid_dx,omitempty"`
	GridDy   float64 `json:"grid_dy,omitempty" yaml:"grid_dy,omitempty"`

	MultiPolicy string `json:"multi_policy,omitempty" yaml:"multi_policy,omitempty"`
}

// defaultMarkerSize is the marker box edge when a style gives none.
const defaultMarkerSize = 8.0

// Params converts the style into placement parameters for kind.
func (s Style) Params(kind placement.Kind) placement.Params {
	p := placement.DefaultParams()
	p.Kind = kind
	if s.Placement != "" {
		p.Strategy = placement.Strategy(s.Placement)
	}
	p.Spacing = s.Spacing
	if s.MaxError != 0 {
		p.MaxError = s.MaxError
	}
	p.PositionTolerance = s.PositionTolerance
	p.MinimumPathLength = s.MinimumPathLength
	p.Margin = s.Margin
	p.RepeatDistance = s.RepeatDistance
	p.MaxAngle = s.MaxAngle
	p.MaxAngleDistance = s.MaxAngleDistance
	if s.HAlign != "" {
		p.HAlign = placement.HAlign(s.HAlign)
	}
	p.Dx = s.Dx
	if s.Direction != "" {
		p.Direction = placement.Direction(s.Direction)
	}
	p.AvoidEdges = s.AvoidEdges
	p.AllowOverlap = s.AllowOverlap
	p.IgnorePlacement = s.IgnorePlacement
	p.DetectKeys = collision.ParseKeys(s.CollisionCacheDetect)
	p.InsertKeys = collision.ParseKeys(s.CollisionCacheInsert)
	p.GridDx = s.GridDx
	p.GridDy = s.GridDy
	if s.MultiPolicy != "" {
		p.Multi = placement.MultiPolicy(s.MultiPolicy)
	}
	return p
}

// Layouts returns the layouts to try for a feature: the measured label and
// its alternatives for text, or one sized box otherwise.
func (s Style) Layouts(kind placement.Kind, f Feature) []placement.Layout {
	if kind == placement.KindText {
		return text.Alternatives(f.Label, f.Alternatives, s.FontSize)
	}
	w, h := s.Width, s.Height
	if w <= 0 {
		w = defaultMarkerSize
	}
	if h <= 0 {
		h = w
	}
	return []placement.Layout{text.Marker(f.Label, w, h)}
}

func (s Style) validateSize() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"font_size", s.FontSize},
		{"width", s.Width},
		{"height", s.Height},
	} {
		if err := errors.ValidateNonNegative(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}
