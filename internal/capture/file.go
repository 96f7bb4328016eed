package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the msgpack payload format changes.
const captureSchemaVersion uint16 = 1

// payload is the msgpack envelope for binary capture files.
type payload struct {
	Schema      uint16
	Diagnostics []Diagnostic
}

// ReadFile loads a capture file, dispatching on extension:
// .json is decoded as a JSON stream, everything else as msgpack.
func ReadFile(path string) ([]Diagnostic, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("capture: %w", err)
		}
		defer f.Close()
		return DecodeJSON(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("capture: decode msgpack: %w", err)
	}
	if p.Schema != captureSchemaVersion {
		return nil, fmt.Errorf("capture: schema version mismatch: file has %d, want %d",
			p.Schema, captureSchemaVersion)
	}
	return p.Diagnostics, nil
}

// WriteFile persists a capture in the encoding implied by the path extension.
func WriteFile(path string, diags []Diagnostic) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		defer f.Close()
		return EncodeJSON(f, diags)
	}

	data, err := msgpack.Marshal(payload{
		Schema:      captureSchemaVersion,
		Diagnostics: diags,
	})
	if err != nil {
		return fmt.Errorf("capture: encode msgpack: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
