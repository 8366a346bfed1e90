package scene

import (
	"fmt"

	"github.com/go-spatial/geom"

	"github.com/matzehuels/maplabel/pkg/errors"
)

// Geometry is a GeoJSON-style geometry object. Coordinates stay untyped
// until Decode so the same struct serves JSON and YAML input.
type Geometry struct {
	Type        string     `json:"type" yaml:"type"`
	Coordinates any        `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Geometries  []Geometry `json:"geometries,omitempty" yaml:"geometries,omitempty"`
}

// Geometry type names.
const (
	TypePoint              = "Point"
	TypeMultiPoint         = "MultiPoint"
	TypeLineString         = "LineString"
	TypeMultiLineString    = "MultiLineString"
	TypePolygon            = "Polygon"
	TypeMultiPolygon       = "MultiPolygon"
	TypeGeometryCollection = "GeometryCollection"
)

// Decode converts g into a go-spatial geometry.
func (g Geometry) Decode() (geom.Geometry, error) {
	switch g.Type {
	case TypePoint:
		p, err := position(g.Coordinates)
		if err != nil {
			return nil, invalid(g.Type, err)
		}
		return geom.Point(p), nil
	case TypeMultiPoint:
		pts, err := positions(g.Coordinates)
		if err != nil {
			return nil, invalid(g.Type, err)
		}
		return geom.MultiPoint(pts), nil
	case TypeLineString:
		pts, err := positions(g.Coordinates)
		if err != nil {
			return nil, invalid(g.Type, err)
		}
		return geom.LineString(pts), nil
	case TypeMultiLineString:
		lines, err := rings(g.Coordinates)
		if err != nil {
			return nil, invalid(g.Type, err)
		}
		return geom.MultiLineString(lines), nil
	case TypePolygon:
		rs, err := rings(g.Coordinates)
		if err != nil {
			return nil, invalid(g.Type, err)
		}
		return geom.Polygon(rs), nil
	case TypeMultiPolygon:
		items, err := list(g.Coordinates)
		if err != nil {
			return nil, invalid(g.Type, err)
		}
		mp := make(geom.MultiPolygon, 0, len(items))
		for _, item := range items {
			rs, err := rings(item)
			if err != nil {
				return nil, invalid(g.Type, err)
			}
			mp = append(mp, rs)
		}
		return mp, nil
	case TypeGeometryCollection:
		c := make(geom.Collection, 0, len(g.Geometries))
		for _, child := range g.Geometries {
			d, err := child.Decode()
			if err != nil {
				return nil, err
			}
			c = append(c, d)
		}
		return c, nil
	case "":
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "geometry type is missing")
	}
	return nil, errors.New(errors.ErrCodeInvalidGeometry, "unsupported geometry type %q", g.Type)
}

// FromGeom encodes a go-spatial geometry in the same untyped form the
// decoders produce, so the result can be decoded again directly. Unknown
// types encode as an empty collection.
func FromGeom(g geom.Geometry) Geometry {
	switch v := g.(type) {
	case geom.Point:
		return Geometry{Type: TypePoint, Coordinates: []any{v[0], v[1]}}
	case geom.MultiPoint:
		return Geometry{Type: TypeMultiPoint, Coordinates: encode(v)}
	case geom.LineString:
		return Geometry{Type: TypeLineString, Coordinates: encode(v)}
	case geom.MultiLineString:
		return Geometry{Type: TypeMultiLineString, Coordinates: encodeRings(v)}
	case geom.Polygon:
		return Geometry{Type: TypePolygon, Coordinates: encodeRings(v)}
	case geom.MultiPolygon:
		polys := make([]any, len(v))
		for i, p := range v {
			polys[i] = encodeRings(p)
		}
		return Geometry{Type: TypeMultiPolygon, Coordinates: polys}
	case geom.Collection:
		out := Geometry{Type: TypeGeometryCollection}
		for _, child := range v {
			out.Geometries = append(out.Geometries, FromGeom(child))
		}
		return out
	}
	return Geometry{Type: TypeGeometryCollection}
}

func invalid(typ string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidGeometry, err, "invalid %s coordinates", typ)
}

func list(v any) ([]any, error) {
	switch items := v.(type) {
	case []any:
		return items, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("expected an array, got %T", v)
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func position(v any) ([2]float64, error) {
	items, err := list(v)
	if err != nil {
		return [2]float64{}, err
	}
	if len(items) < 2 {
		return [2]float64{}, fmt.Errorf("a position needs two numbers, got %d", len(items))
	}
	x, err := number(items[0])
	if err != nil {
		return [2]float64{}, err
	}
	y, err := number(items[1])
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{x, y}, nil
}

func positions(v any) ([][2]float64, error) {
	items, err := list(v)
	if err != nil {
		return nil, err
	}
	out := make([][2]float64, 0, len(items))
	for _, item := range items {
		p, err := position(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func rings(v any) ([][][2]float64, error) {
	items, err := list(v)
	if err != nil {
		return nil, err
	}
	out := make([][][2]float64, 0, len(items))
	for _, item := range items {
		pts, err := positions(item)
		if err != nil {
			return nil, err
		}
		out = append(out, pts)
	}
	return out, nil
}

func encode(pts [][2]float64) []any {
	out := make([]any, len(pts))
	for i, p := range pts {
		out[i] = []any{p[0], p[1]}
	}
	return out
}

func encodeRings(rs [][][2]float64) []any {
	out := make([]any, len(rs))
	for i, r := range rs {
		out[i] = encode(r)
	}
	return out
}
