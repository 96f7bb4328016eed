// Package verify reconciles in-source diagnostic expectations against the
// diagnostics a compilation actually produced.
//
// Source files declare what they expect inline:
//
//	expected-error@+1 2{{cannot find 'x' in scope}}{{5-8=y}}
//	expected-warning{{unused variable 'z'}}
//	expected-note*{{candidate here}}
//
// The Verifier owns a capture Sink for the duration of one compilation,
// drains it exactly once per Verify call, and reports every discrepancy
// between markers and captured diagnostics as a finding. With ApplyFixes it
// additionally rewrites the source files so the markers match reality.
package verify

import (
	"fmt"

	"verdict/internal/capture"
	"verdict/internal/diag"
	"verdict/internal/source"
)

// Options configures one verification pass.
type Options struct {
	// ApplyFixes rewrites each buffer's backing file with the fix edits its
	// findings suggest. Only meaningful for files loaded from disk.
	ApplyFixes bool
	// MaxFindings bounds the per-buffer findings bag. Zero means a default.
	MaxFindings int
}

const defaultMaxFindings = 1000

// FileResult holds the findings for one verified buffer.
type FileResult struct {
	FileID   source.FileID
	Findings *diag.Bag
}

// Result aggregates a verification pass over several buffers.
type Result struct {
	Files []FileResult
}

// HadFindings reports whether any buffer produced at least one finding.
func (r *Result) HadFindings() bool {
	for _, fr := range r.Files {
		if fr.Findings.Len() > 0 {
			return true
		}
	}
	return false
}

// Verifier drives the capture/scan/reconcile/report pipeline. It is
// single-threaded: one compilation feeds the sink, then Verify runs to
// completion with no suspension points.
type Verifier struct {
	fs   *source.FileSet
	sink *Sink
}

// New creates a Verifier whose sink resolves spans against fs.
func New(fs *source.FileSet) *Verifier {
	return &Verifier{
		fs:   fs,
		sink: NewSink(fs),
	}
}

// Sink exposes the capture sink. Installing it as the compilation's reporter
// is what "enables" verification: diagnostics are buffered instead of printed.
func (v *Verifier) Sink() *Sink {
	return v.sink
}

// Add ingests diagnostics decoded from a capture file.
func (v *Verifier) Add(diags []capture.Diagnostic) {
	for _, d := range diags {
		v.sink.Record(d)
	}
}

// Verify drains the sink and reconciles each listed buffer in order. The sink
// is emptied even if a buffer's fix application fails; a Verifier must not be
// fed between Verify calls of one pass.
//
// The returned Result carries one sorted findings bag per buffer. The error
// covers I/O failures from fix application only; findings themselves are
// never an error.
func (v *Verifier) Verify(files []source.FileID, opts Options) (*Result, error) {
	maxFindings := opts.MaxFindings
	if maxFindings <= 0 {
		maxFindings = defaultMaxFindings
	}

	pool := v.sink.Drain()
	v.resolveLines(pool)

	result := &Result{Files: make([]FileResult, 0, len(files))}
	var firstErr error

	for _, id := range files {
		f := v.fs.Get(id)
		bag := diag.NewBag(maxFindings)
		reporter := diag.BagReporter{Bag: bag}

		exps := Scan(f, reporter)
		pool = reconcile(f, exps, pool, reporter)
		bag.Sort()

		if opts.ApplyFixes && bag.Len() > 0 {
			if err := applyFixes(f, bag.Items()); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("apply fixes to %s: %w", f.Path, err)
			}
		}

		result.Files = append(result.Files, FileResult{FileID: id, Findings: bag})
	}

	return result, firstErr
}

// resolveLines fills in line numbers for captured diagnostics that carried
// only a byte offset, using the loaded buffer contents.
func (v *Verifier) resolveLines(pool []capture.Diagnostic) {
	for i := range pool {
		if pool[i].Line != 0 {
			continue
		}
		if f, ok := v.fs.GetByPath(pool[i].File); ok {
			pool[i].Line = f.Pos(pool[i].Offset).Line
		}
	}
}
