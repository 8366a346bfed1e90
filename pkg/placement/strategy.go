package placement

import (
	"github.com/matzehuels/maplabel/pkg/errors"
)

// Kind selects what a layer places.
type Kind string

const (
	// KindText places text labels. Along lines, text is laid out glyph by
	// glyph following the path.
	KindText Kind = "text"
	// KindMarker places one rigid, rotated box per position.
	KindMarker Kind = "marker"
	// KindCollision places invisible obstacles that only occupy space in
	// the collision cache.
	KindCollision Kind = "collision"
)

// Strategy selects how candidate anchors are generated from a geometry.
type Strategy string

const (
	StrategyPoint           Strategy = "point"
	StrategyInterior        Strategy = "interior"
	StrategyLine            Strategy = "line"
	StrategyVertex          Strategy = "vertex"
	StrategyVertexFirst     Strategy = "vertex-first"
	StrategyVertexLast      Strategy = "vertex-last"
	StrategyGrid            Strategy = "grid"
	StrategyAlternatingGrid Strategy = "alternating-grid"
)

// Direction constrains the label angle.
type Direction string

const (
	DirectionRight     Direction = "right"
	DirectionLeft      Direction = "left"
	DirectionAuto      Direction = "auto"
	DirectionAutoDown  Direction = "auto-down"
	DirectionLeftOnly  Direction = "left-only"
	DirectionRightOnly Direction = "right-only"
	DirectionUp        Direction = "up"
	DirectionDown      Direction = "down"
)

// HAlign is the horizontal alignment of text along a path.
type HAlign string

const (
	HAlignAuto   HAlign = "auto"
	HAlignMiddle HAlign = "middle"
	HAlignLeft   HAlign = "left"
	HAlignRight  HAlign = "right"
	HAlignAdjust HAlign = "adjust"
)

// MultiPolicy decides how multi-part geometries are labelled.
type MultiPolicy string

const (
	// MultiEach labels every part independently.
	MultiEach MultiPolicy = "each"
	// MultiWhole places one label for the whole geometry at its centroid.
	MultiWhole MultiPolicy = "whole"
	// MultiLargest labels only the largest part.
	MultiLargest MultiPolicy = "largest"
)

// Kinds lists the accepted layer kinds.
var Kinds = []string{string(KindText), string(KindMarker), string(KindCollision)}

// Strategies lists the accepted placement strategies.
var Strategies = []string{
	string(StrategyPoint), string(StrategyInterior), string(StrategyLine),
	string(StrategyVertex), string(StrategyVertexFirst), string(StrategyVertexLast),
	string(StrategyGrid), string(StrategyAlternatingGrid),
}

// Directions lists the accepted direction values.
var Directions = []string{
	string(DirectionRight), string(DirectionLeft), string(DirectionAuto),
	string(DirectionAutoDown), string(DirectionLeftOnly), string(DirectionRightOnly),
	string(DirectionUp), string(DirectionDown),
}

// HAligns lists the accepted horizontal alignments.
var HAligns = []string{
	string(HAlignAuto), string(HAlignMiddle), string(HAlignLeft),
	string(HAlignRight), string(HAlignAdjust),
}

// MultiPolicies lists the accepted multi-geometry policies.
var MultiPolicies = []string{string(MultiEach), string(MultiWhole), string(MultiLargest)}

// IsVertex reports whether the strategy anchors labels at vertices.
func (s Strategy) IsVertex() bool {
	return s == StrategyVertex || s == StrategyVertexFirst || s == StrategyVertexLast
}

// IsGrid reports whether the strategy fills polygons with a lattice.
func (s Strategy) IsGrid() bool {
	return s == StrategyGrid || s == StrategyAlternatingGrid
}

// ValidateEnums checks every enumerated field of p. Empty values are
// accepted and take their defaults.
func (p Params) ValidateEnums() error {
	if err := errors.ValidateEnum("kind", string(p.Kind), Kinds); err != nil {
		return err
	}
	if err := errors.ValidateEnum("placement", string(p.Strategy), Strategies); err != nil {
		return err
	}
	if err := errors.ValidateEnum("direction", string(p.Direction), Directions); err != nil {
		return err
	}
	if err := errors.ValidateEnum("halign", string(p.HAlign), HAligns); err != nil {
		return err
	}
	return errors.ValidateEnum("multi_policy", string(p.Multi), MultiPolicies)
}
