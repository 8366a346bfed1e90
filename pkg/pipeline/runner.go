package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/maplabel/pkg/cache"
	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/observability"
	"github.com/matzehuels/maplabel/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Every Execute builds its own finder, so multiple
// goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if reason, off := cache.DisabledReason(c); off && reason != "" {
		logger.Debug("caching disabled", "reason", reason)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → place → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	s := opts.Scene
	if s == nil {
		var err error
		if s, err = Load(ctx, opts.ScenePath); err != nil {
			return nil, err
		}
	} else if err := s.Validate(); err != nil {
		return nil, err
	}
	result.Scene = s
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Debug("loaded scene",
		"layers", len(s.Layers),
		"features", s.FeatureCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Place
	placeStart := time.Now()
	placed, hash, hit, err := r.PlaceWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	result.SceneHash = hash
	result.Document = placed.Document
	result.Layers = placed.Layers
	result.Stats.PlaceTime = time.Since(placeStart)
	result.CacheInfo.PlaceHit = hit

	r.Logger.Info("placed labels",
		"placed", placed.Document.Stats.Placed,
		"unplaced", placed.Document.Stats.Unplaced,
		"cached", hit,
		"duration", result.Stats.PlaceTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, placed.Document, s, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// placementEntry is the cached form of a placement stage.
type placementEntry struct {
	Document *pkgio.Document `json:"document"`
	Layers   []LayerStats    `json:"layers"`
}

// PlaceWithCacheInfo places a scene, reusing a cached document when one
// exists for the same scene content. It returns the scene hash and whether
// the cache was hit.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (*Placed, string, bool, error) {
	hash, err := cache.HashJSON(s)
	if err != nil {
		return nil, "", false, err
	}
	key := r.Keyer.PlacementKey(hash, cache.PlacementKeyOpts{Version: EngineVersion})

	if !opts.Refresh {
		if data, ok := r.get(ctx, key, "placement"); ok {
			var entry placementEntry
			err := json.Unmarshal(data, &entry)
			if err == nil && entry.Document != nil {
				return &Placed{Document: entry.Document, Layers: entry.Layers}, hash, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key, "err", err)
		}
	}

	placed, err := Place(ctx, s, opts.Logger)
	if err != nil {
		return nil, hash, false, err
	}

	if data, err := json.Marshal(placementEntry{Document: placed.Document, Layers: placed.Layers}); err == nil {
		r.set(ctx, key, "placement", data, opts.ttl())
	}
	return placed, hash, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns whether
// every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *pkgio.Document, s *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(doc, &buf); err != nil {
		return nil, false, fmt.Errorf("serialize document for cache key: %w", err)
	}
	docHash := cache.Hash(buf.Bytes())
	if opts.Geometry && s != nil {
		// Geometry drawing depends on the scene, not only on the document.
		sceneHash, err := cache.HashJSON(s)
		if err != nil {
			return nil, false, err
		}
		docHash = cache.Hash([]byte(docHash + sceneHash))
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		if data, ok := r.get(ctx, key, "artifact"); ok {
			artifacts[format] = data
			continue
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(doc, s, renderOpts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.set(ctx, r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format)), "artifact", data, opts.ttl())
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads a cache entry, retrying transient failures. Errors count as
// misses.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	var (
		data []byte
		hit  bool
	)
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	hooks := observability.Cache()
	if err != nil {
		r.Logger.Debug("cache get failed", "key", key, "err", err)
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// set writes a cache entry, retrying transient failures. Errors are logged
// and otherwise ignored.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Debug("cache set failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (o *Options) ttl() time.Duration {
	if o.TTL <= 0 {
		return DefaultTTL
	}
	return o.TTL
}
