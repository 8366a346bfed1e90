package pipeline

import (
	"context"
	"time"

	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/observability"
	"github.com/matzehuels/maplabel/pkg/scene"
)

// Load reads and validates the scene at path.
func Load(ctx context.Context, path string) (*scene.Scene, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	s, err := load(ctx, path)

	layers := 0
	if s != nil {
		layers = len(s.Layers)
	}
	hooks.OnLoadComplete(ctx, path, layers, time.Since(start), err)
	return s, err
}

func load(ctx context.Context, path string) (*scene.Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pkgio.ImportScene(path)
}
