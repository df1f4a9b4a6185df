package snapshot

import (
	"bytes"
	"encoding/json"
	"os"
)

// WriteSidecar stores v as indented UTF-8 JSON next to a snapshot.
func WriteSidecar(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return writeAtomic(path, func(tmp string) error {
		return os.WriteFile(tmp, buf.Bytes(), 0o644)
	})
}

// ReadSidecar decodes the sidecar document at path into v.
func ReadSidecar(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
