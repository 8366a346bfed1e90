// Package render groups the diagnostic renderers for placement results.
//
// Rendering is a debugging aid: it draws the accepted label boxes, the label
// text and optionally the scene geometry, so that a placement run can be
// inspected by eye. It makes no attempt at cartographic styling.
//
// The renderers live in the [sink] subpackage:
//
//	doc := pkgio.NewDocument(extent, finder.Placements(), finder.Stats())
//	svg, err := sink.Render(sink.FormatSVG, doc, sink.WithScene(s))
//
// [sink]: github.com/matzehuels/maplabel/pkg/render/sink
package render
