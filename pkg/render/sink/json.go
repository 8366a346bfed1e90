package sink

import (
	"bytes"

	pkgio "github.com/matzehuels/maplabel/pkg/io"
)

// RenderJSON encodes the placement document as indented JSON.
func RenderJSON(doc *pkgio.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
