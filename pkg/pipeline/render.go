package pipeline

import (
	"fmt"

	pkgio "github.com/matzehuels/maplabel/pkg/io"
	"github.com/matzehuels/maplabel/pkg/render/sink"
	"github.com/matzehuels/maplabel/pkg/scene"
)

// Render generates output artifacts in the requested formats. The scene is
// only needed when opts.Geometry is set.
func Render(doc *pkgio.Document, s *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	sinkOpts := opts.SinkOptions(s)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := sink.Render(format, doc, sinkOpts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
