package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/maplabel/pkg/errors"
	"github.com/matzehuels/maplabel/pkg/scene"
)

// Scene formats understood by [ImportScene].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReadJSON decodes and validates a JSON scene from r.
//
// Unknown fields are rejected so that misspelled style keys surface as
// errors instead of silently falling back to defaults. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*scene.Scene, error) {
	var s scene.Scene
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode json")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadYAML decodes and validates a YAML scene from r. Unknown fields are
// rejected like in [ReadJSON].
func ReadYAML(r io.Reader) (*scene.Scene, error) {
	var s scene.Scene
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "decode yaml")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Read decodes a scene in the given format.
func Read(r io.Reader, format string) (*scene.Scene, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
}

// DetectFormat picks the scene format from a file extension. Anything that
// is not .yaml or .yml is treated as JSON.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ImportScene reads the scene file at path.
func ImportScene(path string) (*scene.Scene, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, DetectFormat(path))
}
