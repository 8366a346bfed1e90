// Package pipeline provides the labelling pipeline for maplabel.
//
// This package implements the complete load → place → render pipeline used
// by both the CLI and the HTTP server, so that the two entry points place
// labels identically.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read and validate a scene from a JSON or YAML file
//  2. Place: run one placement finder over the layers in order
//  3. Render: produce output in the requested formats (SVG, PNG, JSON)
//
// Each stage can be run on its own or as part of the full pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ScenePath: "city.yaml",
//	    Formats:   []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	s, err := pipeline.Load(ctx, "city.yaml")
//	placed, err := pipeline.Place(ctx, s, logger)
//	artifacts, err := pipeline.Render(placed.Document, s, opts)
//
// # Caching
//
// The Runner caches the placement document by scene hash and every artifact
// by document hash and render options. Cache failures are logged and
// treated as misses.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/maplabel/pkg/buildinfo"
	"github.com/matzehuels/maplabel/pkg/cache"
	"github.com/matzehuels/maplabel/pkg/errors"
	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/render/sink"
	"github.com/matzehuels/maplabel/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// EngineVersion is part of every placement cache key.
	EngineVersion = buildinfo.EngineVersion

	// DefaultTTL is how long cached documents and artifacts live.
	DefaultTTL = 7 * 24 * time.Hour
)

// DefaultFormats is used when no output format is requested.
var DefaultFormats = []string{sink.FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Input: exactly one of ScenePath or Scene.
	ScenePath string       `json:"scene_path,omitempty"`
	Scene     *scene.Scene `json:"scene,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Geometry  bool     `json:"geometry,omitempty"`
	Obstacles bool     `json:"obstacles,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`
	// TTL overrides DefaultTTL.
	TTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the input and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	switch {
	case o.Scene == nil && o.ScenePath == "":
		return errors.New(errors.ErrCodeInvalidInput, "scene or scene path is required")
	case o.Scene != nil && o.ScenePath != "":
		return errors.New(errors.ErrCodeInvalidInput, "scene and scene path are mutually exclusive")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return sink.ValidateFormats(o.Formats)
}

// SinkOptions converts the render options for the sink package.
func (o *Options) SinkOptions(s *scene.Scene) []sink.Option {
	opts := []sink.Option{sink.WithScale(o.Scale)}
	if o.Geometry && s != nil {
		opts = append(opts, sink.WithScene(s))
	}
	if o.Obstacles {
		opts = append(opts, sink.WithObstacles())
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Obstacles: o.Obstacles, Geometry: o.Geometry}
	if format == sink.FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scene is the loaded scene.
	Scene *scene.Scene

	// SceneHash is the content hash of the scene.
	SceneHash string

	// Document holds every placement and the finder counters.
	Document *pkgio.Document

	// Layers summarizes each layer. Cached placements carry the stats of
	// the run that produced them.
	Layers []LayerStats

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// LayerStats is the outcome of placing one layer.
type LayerStats struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Features int    `json:"features"`
	Placed   int    `json:"placed"`
	Rejected int    `json:"rejected"` // candidates rejected by collisions, edges or direction
	Unplaced int    `json:"unplaced"` // geometry parts without any placement
	Skipped  int    `json:"skipped"`  // text features without a label
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime   time.Duration
	PlaceTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlaceHit  bool // placement document came from cache
	RenderHit bool // every artifact came from cache
}
