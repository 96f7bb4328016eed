package verify

import (
	"fmt"
	"os"
	"sort"

	"verdict/internal/diag"
	"verdict/internal/source"
)

// collectEdits pulls every fix edit targeting this buffer out of the findings,
// sorted by ascending start offset.
func collectEdits(f *source.File, findings []diag.Diagnostic) []diag.TextEdit {
	var edits []diag.TextEdit
	for _, d := range findings {
		for _, fix := range d.Fixes {
			for _, e := range fix.Edits {
				if e.Span.File == f.ID {
					edits = append(edits, e)
				}
			}
		}
	}
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Span.Start < edits[j].Span.Start
	})
	return edits
}

// patch applies the sorted edits to the buffer content in one forward walk.
//
// Overlapping edits mean the reconciler emitted conflicting suggestions; that
// is a bug in suggestion generation, never user input, so it aborts loudly
// rather than silently mis-patching a file.
func patch(f *source.File, edits []diag.TextEdit) []byte {
	out := make([]byte, 0, len(f.Content))
	var cursor uint32
	for _, e := range edits {
		if e.Span.Start < cursor {
			panic(fmt.Sprintf("verify: overlapping fix edits at %s (cursor %d)", e.Span, cursor))
		}
		out = append(out, f.Content[cursor:e.Span.Start]...)
		out = append(out, e.NewText...)
		cursor = e.Span.End
	}
	out = append(out, f.Content[cursor:]...)
	return out
}

// applyFixes rewrites the buffer's backing file with every suggested edit the
// findings carry. When the findings carry no edits the file is left untouched.
// No backup is kept.
func applyFixes(f *source.File, findings []diag.Diagnostic) error {
	edits := collectEdits(f, findings)
	if len(edits) == 0 {
		return nil
	}

	result := patch(f, edits)

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(f.Path, result, mode); err != nil {
		return fmt.Errorf("verify: write %s: %w", f.Path, err)
	}
	return nil
}
