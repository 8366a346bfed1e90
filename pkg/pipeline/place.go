package pipeline

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/maplabel/pkg/collision"
	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/observability"
	"github.com/matzehuels/maplabel/pkg/placement"
	"github.com/matzehuels/maplabel/pkg/scene"
)

// Placed is the outcome of the place stage.
type Placed struct {
	Document *pkgio.Document
	Layers   []LayerStats
}

// Place labels every layer of s in order with a fresh collision cache.
// Cancellation is checked between layers. The scene must be valid.
func Place(ctx context.Context, s *scene.Scene, logger *log.Logger) (*Placed, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	hooks := observability.Pipeline()
	hooks.OnPlaceStart(ctx, len(s.Layers), s.FeatureCount())
	start := time.Now()

	cc := collision.NewCache(s.Bounds(), collision.WithLogger(logger))
	finder := placement.NewFinder(cc,
		placement.WithLogger(logger),
		placement.WithScaleFactor(s.Scale()),
	)

	layers := make([]LayerStats, 0, len(s.Layers))
	for _, l := range s.Layers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := finder.Stats()
		ls := placeLayer(finder, l, logger)
		delta := finder.Stats().Sub(before)

		ls.Placed = delta.Placed
		ls.Rejected = delta.Collisions
		ls.Unplaced = delta.Unplaced
		layers = append(layers, ls)

		logger.Info("placed layer", "layer", l.Name, "placed", ls.Placed, "rejected", ls.Rejected)
		hooks.OnLayerPlaced(ctx, l.Name, ls.Placed, ls.Rejected)
		if delta.CapHits > 0 {
			hooks.OnToleranceCapHit(ctx, l.Name, delta.CapHits)
		}
	}

	stats := finder.Stats()
	hooks.OnPlaceComplete(ctx, stats.Placed, stats.Collisions, time.Since(start))
	return &Placed{
		Document: pkgio.NewDocument(s.Bounds(), finder.Placements(), stats),
		Layers:   layers,
	}, nil
}

func placeLayer(finder *placement.Finder, l scene.Layer, logger *log.Logger) LayerStats {
	kind := l.PlacementKind()
	ls := LayerStats{Name: l.Name, Kind: string(kind), Features: len(l.Features)}

	base := l.Style.Params(kind)
	base.Layer = l.Name
	for i, f := range l.Features {
		if kind == placement.KindText && strings.TrimSpace(f.Label) == "" {
			ls.Skipped++
			logger.Debug("skipping feature without label", "layer", l.Name, "feature", f.Name(i))
			continue
		}
		g, err := f.Geom()
		if err != nil {
			// Validate rejects these; a hand-built scene may still carry one.
			logger.Debug("skipping invalid geometry", "layer", l.Name, "feature", f.Name(i), "err", err)
			ls.Skipped++
			continue
		}
		params := base
		params.Feature = f.Name(i)
		finder.PlaceAlternatives(g, l.Style.Layouts(kind, f), params)
	}
	return ls
}
