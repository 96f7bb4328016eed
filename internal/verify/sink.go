package verify

import (
	"verdict/internal/capture"
	"verdict/internal/diag"
	"verdict/internal/source"
)

// Sink buffers every diagnostic emitted while a compilation runs instead of
// printing it. It implements diag.Reporter, so an in-process front-end can be
// pointed at it directly; decoded capture files enter through Record.
//
// Append-only, arrival order preserved, no deduplication: the reconciler's
// first-match search relies on arrival order as its tie-break.
type Sink struct {
	fs    *source.FileSet
	items []capture.Diagnostic
}

// NewSink creates an empty sink resolving spans against fs.
func NewSink(fs *source.FileSet) *Sink {
	return &Sink{fs: fs}
}

// Report captures a diagnostic emitted through the Reporter contract.
// It never rejects and never blocks.
func (s *Sink) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	f := s.fs.Get(primary.File)
	d := capture.Diagnostic{
		File:     f.Path,
		Line:     f.Pos(primary.Start).Line,
		Offset:   primary.Start,
		Severity: sev,
		Message:  msg,
	}
	for _, fix := range fixes {
		for _, e := range fix.Edits {
			d.FixIts = append(d.FixIts, capture.FixIt{
				Start: e.Span.Start,
				End:   e.Span.End,
				Text:  e.NewText,
			})
		}
	}
	s.items = append(s.items, d)

	// Notes arrive as separate captured diagnostics, the way a compiler
	// prints them.
	for _, n := range notes {
		nf := s.fs.Get(n.Span.File)
		s.items = append(s.items, capture.Diagnostic{
			File:     nf.Path,
			Line:     nf.Pos(n.Span.Start).Line,
			Offset:   n.Span.Start,
			Severity: diag.SevNote,
			Message:  n.Msg,
		})
	}
}

// Record appends an already-decoded diagnostic (from a capture file).
func (s *Sink) Record(d capture.Diagnostic) {
	s.items = append(s.items, d)
}

// Drain returns ownership of the captured list and clears internal state.
// Intended to be called at most once per verification pass.
func (s *Sink) Drain() []capture.Diagnostic {
	items := s.items
	s.items = nil
	return items
}

// Len returns the number of buffered diagnostics.
func (s *Sink) Len() int {
	return len(s.items)
}
