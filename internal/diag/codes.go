package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Marker syntax errors raised by the expectation scanner.
	MarkInfo             Code = 1000
	MarkMissingText      Code = 1001
	MarkUnterminated     Code = 1002
	MarkBadLineOffset    Code = 1003
	MarkBadMatchCount    Code = 1004
	MarkZeroMatchCount   Code = 1005
	MarkFixItUnclosed    Code = 1006
	MarkFixItMissingDash Code = 1007
	MarkFixItMissingEq   Code = 1008
	MarkFixItBadColumn   Code = 1009

	// Reconciliation findings.
	VerifyInfo             Code = 2000
	VerifyNotProduced      Code = 2001
	VerifyUnexpected       Code = 2002
	VerifyIncorrectMessage Code = 2003
	VerifyFixItNotSeen     Code = 2004

	// I/O
	IOLoadFileError Code = 4000
)

var (
	codeDescription = map[Code]string{
		UnknownCode: "Unknown error",

		MarkInfo:             "Marker information",
		MarkMissingText:      "Marker is missing its {{...}} text block",
		MarkUnterminated:     "Marker text block is not terminated",
		MarkBadLineOffset:    "Invalid line offset in marker",
		MarkBadMatchCount:    "Invalid match count in marker",
		MarkZeroMatchCount:   "Match count in marker must be positive",
		MarkFixItUnclosed:    "Fix-it block is not terminated",
		MarkFixItMissingDash: "Fix-it block is missing '-'",
		MarkFixItMissingEq:   "Fix-it block is missing '='",
		MarkFixItBadColumn:   "Invalid column number in fix-it block",

		VerifyInfo:             "Verification information",
		VerifyNotProduced:      "Expected diagnostic not produced",
		VerifyUnexpected:       "Unexpected diagnostic produced",
		VerifyIncorrectMessage: "Diagnostic produced with a different message",
		VerifyFixItNotSeen:     "Expected fix-it not attached to diagnostic",

		IOLoadFileError: "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MRK%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("VFY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
