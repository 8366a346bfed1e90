// Package sink renders placement documents to output formats.
//
// # Overview
//
// A "sink" turns a [pkgio.Document] into bytes. Three formats exist:
//
//   - SVG: vector output drawn with github.com/ajstarks/svgo
//   - PNG: raster output drawn with github.com/fogleman/gg
//   - JSON: the placement document itself
//
// All formats share one set of [Option] values. [Render] dispatches on a
// format name, which is what the pipeline and the CLI use:
//
//	out, err := sink.Render("svg", doc,
//	    sink.WithScene(s),
//	    sink.WithObstacles(),
//	)
//
// # What Is Drawn
//
// Every visible placement contributes its boxes (one per glyph for text
// along a path) and its key, rotated by the placement angle. With
// [WithScene] the scene geometries are drawn underneath in light grey. With
// [WithObstacles] the boxes of collision layers are drawn dashed.
//
// Coordinates are pixel space with the origin at the extent minimum, so an
// extent of [100, 100, 612, 356] renders as a 512x256 image.
//
// [pkgio.Document]: github.com/matzehuels/maplabel/pkg/io.Document
package sink
