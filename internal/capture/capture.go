// Package capture models diagnostics produced by a compiler run, consumed by
// the verifier as an opaque stream. A capture file is written by the compiler
// under test (JSON or msgpack, selected by extension); alternatively an
// in-process front-end can record diagnostics directly through verify.Sink.
package capture

import (
	"verdict/internal/diag"
)

// FixIt is a replacement attached to a captured diagnostic. Offsets are byte
// positions into the named file's content.
type FixIt struct {
	Start uint32 `json:"start_byte" msgpack:"start"`
	End   uint32 `json:"end_byte" msgpack:"end"`
	Text  string `json:"new_text" msgpack:"text"`
}

// Diagnostic is one diagnostic produced by the compiler under test.
// Line may be zero, in which case the verifier resolves it from Offset.
type Diagnostic struct {
	File     string        `json:"file" msgpack:"file"`
	Line     uint32        `json:"line,omitempty" msgpack:"line"`
	Offset   uint32        `json:"offset" msgpack:"offset"`
	Severity diag.Severity `json:"-" msgpack:"severity"`
	Message  string        `json:"message" msgpack:"message"`
	FixIts   []FixIt       `json:"fixits,omitempty" msgpack:"fixits"`
}
