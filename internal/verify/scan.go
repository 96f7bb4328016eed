package verify

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"verdict/internal/diag"
	"verdict/internal/source"
)

const markerToken = "expected-"

// severityForMarker maps the token after "expected-" to a severity.
// Anything else is not a marker and is skipped silently.
var severityForMarker = []struct {
	word string
	sev  diag.Severity
}{
	{"note", diag.SevNote},
	{"warning", diag.SevWarning},
	{"error", diag.SevError},
}

// Scan walks the file content looking for expected-note/warning/error markers
// and parses each into an Expectation. Malformed markers produce MRK findings
// through r and never abort the scan: the walk resumes at the next occurrence
// of the marker token, so one broken marker cannot mask the rest of the file.
func Scan(f *source.File, r diag.Reporter) []Expectation {
	content := f.Content
	var out []Expectation

	// Line number assigned to the next marker by a trailing `\` continuation;
	// zero when no chain is active.
	var continuationLine uint32

	for match := bytes.Index(content, []byte(markerToken)); match >= 0; {
		exp, ok := scanMarker(f, content, match, &continuationLine, r)
		if ok {
			out = append(out, exp)
		}

		next := bytes.Index(content[match+1:], []byte(markerToken))
		if next < 0 {
			break
		}
		match += 1 + next
	}
	return out
}

// scanMarker parses a single potential marker at offset match.
// Returns ok=false when the text is not a marker or failed to parse;
// parse failures are reported through r.
func scanMarker(f *source.File, content []byte, match int, continuationLine *uint32, r diag.Reporter) (Expectation, bool) {
	rest := string(content[match+len(markerToken):])

	var sev diag.Severity
	kindLen := -1
	for _, k := range severityForMarker {
		if strings.HasPrefix(rest, k.word) {
			sev = k.sev
			kindLen = len(k.word)
			break
		}
	}
	if kindLen < 0 {
		return Expectation{}, false
	}
	rest = rest[kindLen:]
	base := match + len(markerToken) + kindLen

	// Whitespace between the kind token and whatever follows is not significant.
	trim := countLeft(rest, " \t")
	rest = rest[trim:]
	base += trim

	// pos converts an index into rest to an absolute file offset.
	pos := func(idx int) uint32 {
		off, err := safecast.Conv[uint32](base + idx)
		if err != nil {
			panic(fmt.Errorf("marker offset overflow: %w", err))
		}
		return off
	}
	fail := func(code diag.Code, idx int, msg string) {
		diag.ReportError(r, code, source.Point(f.ID, pos(idx)), msg).Emit()
	}

	textStart := strings.Index(rest, "{{")
	if textStart < 0 {
		fail(diag.MarkMissingText, 0, "expected {{ in expected-warning/note/error line")
		return Expectation{}, false
	}

	// Optional @+N / @-N line offset and match count live before the {{.
	head := strings.TrimRight(rest[:textStart], " \t")
	lineOffset := 0
	if strings.HasPrefix(head, "@") {
		if len(head) < 2 || (head[1] != '+' && head[1] != '-') {
			fail(diag.MarkBadLineOffset, 0, "expected '+'/'-' for line offset")
			return Expectation{}, false
		}
		offTok := head
		if sp := strings.IndexAny(head, " \t"); sp >= 0 {
			offTok = head[:sp]
			head = strings.TrimLeft(head[sp:], " \t")
		} else {
			head = ""
		}
		n, err := strconv.Atoi(offTok[1:]) // keeps the sign
		if err != nil {
			fail(diag.MarkBadLineOffset, 0, "expected line offset before '{{'")
			return Expectation{}, false
		}
		lineOffset = n
	}

	count := 1
	mayRepeat := false
	if head != "" {
		if head == "*" {
			mayRepeat = true
		} else {
			n, err := strconv.Atoi(head)
			if err != nil {
				fail(diag.MarkBadMatchCount, 0, "expected match count before '{{'")
				return Expectation{}, false
			}
			if n == 0 {
				fail(diag.MarkZeroMatchCount, 0, "expected positive match count before '{{'")
				return Expectation{}, false
			}
			count = n
		}
	}

	// A message payload never spans lines: a '}}' found past the end of the
	// marker's line belongs to some later marker, so the block is unterminated.
	msgStart := textStart + 2
	msgLen := strings.Index(rest[msgStart:], "}}")
	if msgLen < 0 || strings.ContainsRune(rest[msgStart:msgStart+msgLen], '\n') {
		fail(diag.MarkUnterminated, textStart,
			"didn't find '}}' to match '{{' in expected-warning/note/error line")
		return Expectation{}, false
	}

	raw := rest[msgStart : msgStart+msgLen]
	exp := Expectation{
		Loc:       mustU32(match),
		Severity:  sev,
		MayRepeat: mayRepeat,
		Remaining: count,
		MessageRange: source.Span{
			File:  f.ID,
			Start: pos(msgStart),
			End:   pos(msgStart + msgLen),
		},
		Message: DecodeMessage(raw),
	}
	if mayRepeat {
		exp.Remaining = 1
	}

	if *continuationLine != 0 {
		exp.LineNo = *continuationLine
	} else {
		exp.LineNo = f.Pos(exp.Loc).Line
	}
	exp.LineNo = shiftLine(exp.LineNo, lineOffset)

	// A `\` right after the closing }} chains the next marker to this line.
	afterEnd := msgStart + msgLen + 2
	tail := strings.TrimLeft(rest[afterEnd:], " \t")
	if strings.HasPrefix(tail, `\`) {
		*continuationLine = exp.LineNo
	} else {
		*continuationLine = 0
	}

	scanFixIts(&exp, rest, afterEnd, pos, fail)
	return exp, true
}

// scanFixIts parses the run of {{c1-c2=text}} blocks following the message.
// Scanning stops at the first token that is not a fix-it opener. A parse
// error inside one block is reported and parsing continues with the next
// block, matching the resilience of the marker scan itself.
func scanFixIts(exp *Expectation, rest string, start int, pos func(int) uint32, fail func(diag.Code, int, string)) {
	cur := start + countLeft(rest[start:], " \t")
	blockStart := cur

	for strings.HasPrefix(rest[cur:], "{{") {
		endLoc := strings.Index(rest[cur:], "}}")
		if endLoc < 0 {
			fail(diag.MarkFixItUnclosed, cur, "didn't find '}}' to match '{{' in fix-it verification")
			break
		}
		// Extra adjacent '}' characters belong to the replacement text, so the
		// closing match extends greedily: {{1-2=}}} replaces with "}".
		for cur+endLoc+2 < len(rest) && rest[cur+endLoc+2] == '}' {
			endLoc++
		}

		body := rest[cur+2 : cur+endLoc]
		if strings.ContainsAny(body, "\r\n") {
			fail(diag.MarkFixItUnclosed, cur, "didn't find '}}' to match '{{' in fix-it verification")
			break
		}

		blockLoc := cur
		blockEnd := cur + endLoc + 2
		cur = blockEnd + countLeft(rest[blockEnd:], " \t\n\v\f\r")

		minus := strings.IndexByte(body, '-')
		if minus < 0 {
			fail(diag.MarkFixItMissingDash, blockLoc, "expected '-' in fix-it verification")
			continue
		}
		afterMinus := body[minus+1:]
		equal := strings.IndexByte(afterMinus, '=')
		if equal < 0 {
			fail(diag.MarkFixItMissingEq, blockLoc, "expected '=' after '-' in fix-it verification")
			continue
		}

		startCol, err := strconv.ParseUint(body[:minus], 10, 32)
		if err != nil {
			fail(diag.MarkFixItBadColumn, blockLoc, "invalid column number in fix-it verification")
			continue
		}
		endCol, err := strconv.ParseUint(afterMinus[:equal], 10, 32)
		if err != nil {
			fail(diag.MarkFixItBadColumn, blockLoc, "invalid column number in fix-it verification")
			continue
		}

		exp.FixIts = append(exp.FixIts, ExpectedFixIt{
			Loc:      pos(blockLoc),
			StartCol: uint32(startCol),
			EndCol:   uint32(endCol),
			Text:     decodeFixItText(afterMinus[equal+1:]),
		})
		exp.FixItsRange = source.Span{
			File:  exp.MessageRange.File,
			Start: pos(blockStart),
			End:   pos(blockEnd),
		}
	}
}

func countLeft(s, cutset string) int {
	return len(s) - len(strings.TrimLeft(s, cutset))
}

func shiftLine(line uint32, offset int) uint32 {
	shifted := int64(line) + int64(offset)
	if shifted < 1 {
		return 1
	}
	return uint32(shifted)
}

func mustU32(v int) uint32 {
	out, err := safecast.Conv[uint32](v)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return out
}
