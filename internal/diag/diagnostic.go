package diag

import (
	"verdict/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit is a single replacement of a source span with new text.
type TextEdit struct {
	Span    source.Span
	NewText string
}

type Fix struct {
	Title string
	Edits []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
