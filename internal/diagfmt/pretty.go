package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"verdict/internal/diag"
	"verdict/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeader(w, fs, d.Primary, d.Severity, d.Code.ID(), d.Message, opts)
		writeContext(w, fs, d.Primary)

		if opts.ShowFixes {
			for _, fix := range d.Fixes {
				fmt.Fprintf(w, "  fix: %s\n", fix.Title)
				for _, e := range fix.Edits {
					start, end := fs.Resolve(e.Span)
					fmt.Fprintf(w, "    replace %d:%d-%d with %q\n", start.Line, start.Col, end.Col, e.NewText)
				}
			}
		}

		if opts.ShowNotes {
			for _, n := range d.Notes {
				writeHeader(w, fs, n.Span, diag.SevNote, "", n.Msg, opts)
				writeContext(w, fs, n.Span)
			}
		}
	}
}

func writeHeader(w io.Writer, fs *source.FileSet, span source.Span, sev diag.Severity, code, msg string, opts PrettyOpts) {
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)

	sevLabel := sev.String()
	if opts.Color {
		sevLabel = severityColor(sev).Sprint(sevLabel)
	}

	if code == "" {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", formatPath(f, fs, opts.PathMode), start.Line, start.Col, sevLabel, msg)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", formatPath(f, fs, opts.PathMode), start.Line, start.Col, sevLabel, code, msg)
}

// writeContext печатает строку исходника и подчёркивание ^~~~ под Span.
func writeContext(w io.Writer, fs *source.FileSet, span source.Span) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)

	line := f.GetLine(start.Line)
	if line == "" && span.Start >= uint32(len(f.Content)) {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	startCol := int(start.Col)
	if startCol < 1 || startCol > len(line)+1 {
		startCol = 1
	}
	prefix := line[:startCol-1]

	// табы копируем как есть, остальное заменяем пробелами по видимой ширине
	var pad strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		endCol := int(end.Col)
		if endCol > len(line)+1 {
			endCol = len(line) + 1
		}
		width = runewidth.StringWidth(line[startCol-1 : endCol-1])
	} else if end.Line > start.Line {
		width = runewidth.StringWidth(line[startCol-1:])
	}
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(w, "  %s^%s\n", pad.String(), strings.Repeat("~", width-1))
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}
