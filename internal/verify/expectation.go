package verify

import (
	"verdict/internal/diag"
	"verdict/internal/source"
)

// ExpectedFixIt is a `{{start-end=text}}` block attached to a marker.
// StartCol and EndCol are 1-based columns within the line the expectation
// resolves to; Text has its `\n` sequences already expanded.
type ExpectedFixIt struct {
	Loc      uint32 // byte offset of the block's opening `{{`
	StartCol uint32
	EndCol   uint32
	Text     string
}

// Expectation is one parsed expected-<kind> marker.
//
// Multiplicity is carried as a count that reconciliation decrements toward
// zero rather than as N duplicated records: the invariant is that Remaining
// must reach exactly 0, or every leftover unit is an unmet expectation.
// A wildcard marker has MayRepeat set and Remaining fixed at 1.
type Expectation struct {
	Loc       uint32 // byte offset of the `expected-` token
	Severity  diag.Severity
	MayRepeat bool
	Remaining int

	// MessageRange spans the raw text between the marker's {{ and }};
	// Message is that text with escapes expanded.
	MessageRange source.Span
	Message      string

	LineNo uint32

	FixIts []ExpectedFixIt
	// FixItsRange spans the whole run of fix-it blocks; zero when none parsed.
	FixItsRange source.Span
}
