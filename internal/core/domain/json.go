package domain

import (
	"bytes"
	"encoding/json"
)

// marshalNoEscape marshals v without HTML escaping so URLs keep their
// literal & and non-ASCII text stays readable in the output files.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodeIndent renders v as UTF-8 JSON with stable 2-space indentation,
// the on-disk format shared by metadata sidecars and batch result files.
func EncodeIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
