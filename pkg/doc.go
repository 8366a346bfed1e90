// Package pkg provides the core libraries for maplabel label placement.
//
// # Overview
//
// maplabel places text labels and point markers along and around map
// geometry so that no two labels overlap. Layers are labelled in order;
// every accepted label box is recorded in a collision index and blocks later
// candidates. The pkg directory is organized into three main areas:
//
//  1. Placement core - [spatial], [collision], [pathcursor], [tolerance],
//     [geometry], [placement] and [text]
//  2. Documents - [scene] (input) and [io] (reading scenes, writing
//     placement documents)
//  3. Infrastructure - [pipeline], [cache], [render/sink], [errors],
//     [observability] and [buildinfo]
//
// # Architecture
//
// The typical data flow through maplabel:
//
//	Scene file (JSON/YAML)
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [placement] package (line walk, tolerance search, strategies)
//	         ↓              ↕
//	         ↓         [collision] package (detectors over [spatial] grids)
//	         ↓
//	    [io] document → [render/sink] (SVG/PNG/JSON)
//
// # Quick Start
//
// Place markers along a line:
//
//	import (
//	    "github.com/go-spatial/geom"
//	    "github.com/matzehuels/maplabel/pkg/collision"
//	    "github.com/matzehuels/maplabel/pkg/placement"
//	    "github.com/matzehuels/maplabel/pkg/spatial"
//	)
//
//	cache := collision.NewCache(spatial.Box(0, 0, 512, 512))
//	finder := placement.NewFinder(cache)
//
//	params := placement.DefaultParams()
//	params.Kind = placement.KindMarker
//	params.Strategy = placement.StrategyLine
//	params.Spacing = 100
//
//	road := geom.LineString{{0, 200}, {400, 200}}
//	placed := finder.Place(road, placement.Layout{Key: "arrow", Width: 8, Height: 8}, params)
//
// Place a whole scene and render it:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    ScenePath: "city.yaml",
//	    Formats:   []string{"svg", "json"},
//	})
//
// # Main Packages
//
// ## Placement Core
//
// [spatial] - Uniform grid index over label boxes, generic in the key type.
//
// [collision] - Detectors answering "does this box collide" with margins and
// repeat distances, grouped into named partitions by a Cache.
//
// [pathcursor] - A restartable cursor over polyline parts with snapshot and
// restore, used to walk lines at fixed spacing.
//
// [tolerance] - The bounded sequence of signed offsets tried around an
// anchor before a candidate is given up.
//
// [geometry] - Splitting multi-geometries, centroids, interior points,
// vertices and grid points over go-spatial geometries.
//
// [placement] - The Finder: line placement, point strategies, marker
// direction rules and label alternatives.
//
// [text] - Measures label text into placement layouts.
//
// ## Documents
//
// [scene] - Extent, layers, styles and features of a labelling run.
//
// [io] - Scene import from JSON and YAML, placement document export.
//
// ## Infrastructure
//
// [pipeline] - Complete labelling pipeline (load → place → render) used by
// the CLI and the HTTP server. Ensures consistent behavior across both
// entry points.
//
// [cache] - Cache interface with file, redis, mongo and null backends, and
// the keyers that name placement and artifact entries.
//
// [render/sink] - Diagnostic SVG and PNG drawings of a placement document.
//
// [errors] - Structured error codes shared by every package.
//
// [observability] - Hook interfaces for placement, cache and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/placement/...          # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [spatial]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/spatial
// [collision]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/collision
// [pathcursor]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/pathcursor
// [tolerance]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/tolerance
// [geometry]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/geometry
// [placement]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/placement
// [text]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/text
// [scene]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/scene
// [io]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/cache
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/render/sink
// [errors]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/maplabel/pkg/buildinfo
package pkg
