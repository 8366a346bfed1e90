// Package io reads scenes and writes placement documents.
//
// # Scene Import
//
// Scenes are JSON or YAML documents with an extent and an ordered list of
// layers (see package scene for the fields):
//
//	{
//	  "extent": [0, 0, 1024, 768],
//	  "layers": [
//	    {"name": "roads", "kind": "text",
//	     "style": {"placement": "line", "spacing": 200},
//	     "features": [
//	       {"id": "r1", "label": "Main St",
//	        "geometry": {"type": "LineString", "coordinates": [[0, 10], [900, 40]]}}
//	     ]}
//	  ]
//	}
//
// Use [ImportScene] to read a file, picking the decoder from the
// extension, or [ReadJSON] and [ReadYAML] to read from any io.Reader:
//
//	s, err := io.ImportScene("city.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every import validates the scene, so a successful import is ready to be
// placed.
//
// # Placement Export
//
// A [Document] is the result of a labelling run: the extent, every accepted
// placement in order, and the finder counters. [WriteJSON] encodes it and
// [ReadDocument] decodes it again, which the pipeline uses for caching.
//
//	err := io.ExportJSON(doc, "placements.json")
package io
