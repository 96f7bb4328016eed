package capture

import (
	"encoding/json"
	"fmt"
	"io"

	"verdict/internal/diag"
)

// diagnosticJSON mirrors the wire shape compilers emit with --diag-format=json.
type diagnosticJSON struct {
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	File     string  `json:"file"`
	Line     uint32  `json:"line,omitempty"`
	Offset   uint32  `json:"offset"`
	FixIts   []FixIt `json:"fixits,omitempty"`
}

type captureJSON struct {
	Diagnostics []diagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// DecodeJSON reads a JSON capture stream.
func DecodeJSON(r io.Reader) ([]Diagnostic, error) {
	var wire captureJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("capture: decode json: %w", err)
	}

	out := make([]Diagnostic, 0, len(wire.Diagnostics))
	for i, d := range wire.Diagnostics {
		sev, err := diag.ParseSeverity(d.Severity)
		if err != nil {
			return nil, fmt.Errorf("capture: diagnostic %d: %w", i, err)
		}
		out = append(out, Diagnostic{
			File:     d.File,
			Line:     d.Line,
			Offset:   d.Offset,
			Severity: sev,
			Message:  d.Message,
			FixIts:   d.FixIts,
		})
	}
	return out, nil
}

// EncodeJSON writes diagnostics in the JSON capture shape.
func EncodeJSON(w io.Writer, diags []Diagnostic) error {
	wire := captureJSON{
		Diagnostics: make([]diagnosticJSON, 0, len(diags)),
		Count:       len(diags),
	}
	for _, d := range diags {
		wire.Diagnostics = append(wire.Diagnostics, diagnosticJSON{
			Severity: d.Severity.Label(),
			Message:  d.Message,
			File:     d.File,
			Line:     d.Line,
			Offset:   d.Offset,
			FixIts:   d.FixIts,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}
