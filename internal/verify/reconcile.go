package verify

import (
	"fmt"
	"strings"

	"verdict/internal/capture"
	"verdict/internal/diag"
	"verdict/internal/source"
)

// reconcile merges the expectation list for one buffer with the captured
// diagnostic pool and reports every discrepancy through r. It returns the
// pruned pool: matched and reported diagnostics are removed, diagnostics for
// other buffers pass through untouched.
//
// Nothing here is fatal. Every discrepancy becomes exactly one finding and
// the pass always runs to completion.
func reconcile(f *source.File, exps []Expectation, pool []capture.Diagnostic, r diag.Reporter) []capture.Diagnostic {
	// Pass 1: exact matches. A wildcard expectation keeps consuming matches
	// until the pool has none left; a counted one consumes at most Remaining.
	for i := range exps {
		exp := &exps[i]
		for exp.MayRepeat || exp.Remaining > 0 {
			j := findMatch(f, pool, exp)
			if j < 0 {
				break
			}
			checkFixIts(f, exp, pool[j], r)
			pool = removeAt(pool, j)
			if !exp.MayRepeat {
				exp.Remaining--
			}
		}
	}

	// Pass 2: same line and kind but the wrong text. The finding carries a
	// fix replacing the expected message with what was actually produced.
	for i := range exps {
		exp := &exps[i]
		if exp.MayRepeat {
			continue
		}
		for exp.Remaining > 0 {
			j := findLineKindMatch(f, pool, exp)
			if j < 0 {
				break
			}
			diag.ReportError(r, diag.VerifyIncorrectMessage, exp.MessageRange, "incorrect message found").
				WithFix("replace expected message with produced message", diag.TextEdit{
					Span:    exp.MessageRange,
					NewText: pool[j].Message,
				}).
				Emit()
			pool = removeAt(pool, j)
			exp.Remaining--
		}
	}

	// Pass 3: expectations that never appeared, one finding per unmet unit.
	for i := range exps {
		exp := &exps[i]
		if exp.MayRepeat {
			continue
		}
		for k := 0; k < exp.Remaining; k++ {
			msg := fmt.Sprintf("expected %s not produced", exp.Severity.Label())
			diag.ReportError(r, diag.VerifyNotProduced, source.Point(f.ID, exp.Loc), msg).Emit()
		}
	}

	// Pass 4: captured diagnostics for this buffer with no expectation left.
	rest := pool[:0:0]
	for _, d := range pool {
		if d.File != f.Path {
			rest = append(rest, d)
			continue
		}
		msg := fmt.Sprintf("unexpected %s produced: %s", d.Severity.Label(), d.Message)
		diag.ReportError(r, diag.VerifyUnexpected, source.Point(f.ID, d.Offset), msg).Emit()
	}
	return rest
}

// findMatch returns the index of the first pool diagnostic with this buffer's
// identity, the expected line, the expected kind, and a message that contains
// the decoded expectation text as a substring. -1 when none matches.
func findMatch(f *source.File, pool []capture.Diagnostic, exp *Expectation) int {
	for j, d := range pool {
		if d.File != f.Path || d.Line != exp.LineNo || d.Severity != exp.Severity {
			continue
		}
		if !strings.Contains(d.Message, exp.Message) {
			continue
		}
		return j
	}
	return -1
}

// findLineKindMatch is the lenient variant: message content is ignored.
func findLineKindMatch(f *source.File, pool []capture.Diagnostic, exp *Expectation) int {
	for j, d := range pool {
		if d.File == f.Path && d.Line == exp.LineNo && d.Severity == exp.Severity {
			return j
		}
	}
	return -1
}

// checkFixIts verifies that every fix-it the expectation declares is present
// on the matched diagnostic. Misses do not undo the match; each produces one
// finding anchored at the fix-it block, listing the diagnostic's actual
// fix-its for diagnosis. The first miss additionally suggests rewriting the
// whole fix-it block to what was actually produced, so an auto-apply run
// repairs stale fix-it expectations too.
func checkFixIts(f *source.File, exp *Expectation, d capture.Diagnostic, r diag.Reporter) {
	suggested := false
	for _, want := range exp.FixIts {
		if hasFixIt(f, want, d) {
			continue
		}

		var msg strings.Builder
		msg.WriteString("expected fix-it not seen")
		if len(d.FixIts) > 0 {
			msg.WriteString("; actual fix-its:")
			for _, actual := range d.FixIts {
				msg.WriteByte(' ')
				msg.WriteString(renderFixIt(f, actual))
			}
		}

		b := diag.ReportError(r, diag.VerifyFixItNotSeen, source.Point(f.ID, want.Loc), msg.String())
		if !suggested && len(d.FixIts) > 0 && !exp.FixItsRange.Empty() {
			b.WithFix("replace expected fix-its with produced fix-its", diag.TextEdit{
				Span:    exp.FixItsRange,
				NewText: renderFixIts(f, d.FixIts),
			})
			suggested = true
		}
		b.Emit()
	}
}

// hasFixIt reports whether d carries a fix-it with identical replacement text
// whose start/end columns over the buffer equal the expected ones.
func hasFixIt(f *source.File, want ExpectedFixIt, d capture.Diagnostic) bool {
	for _, actual := range d.FixIts {
		if actual.Text != want.Text {
			continue
		}
		if f.Pos(actual.Start).Col != want.StartCol {
			continue
		}
		if f.Pos(actual.End).Col != want.EndCol {
			continue
		}
		return true
	}
	return false
}

// renderFixIt formats an actual fix-it in marker syntax: {{start-end=text}}.
func renderFixIt(f *source.File, fi capture.FixIt) string {
	return fmt.Sprintf("{{%d-%d=%s}}",
		f.Pos(fi.Start).Col, f.Pos(fi.End).Col, encodeFixItText(fi.Text))
}

func renderFixIts(f *source.File, fixits []capture.FixIt) string {
	parts := make([]string, 0, len(fixits))
	for _, fi := range fixits {
		parts = append(parts, renderFixIt(f, fi))
	}
	return strings.Join(parts, " ")
}

func removeAt(pool []capture.Diagnostic, i int) []capture.Diagnostic {
	out := make([]capture.Diagnostic, 0, len(pool)-1)
	out = append(out, pool[:i]...)
	return append(out, pool[i+1:]...)
}
