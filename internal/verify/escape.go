package verify

import (
	"strconv"
	"strings"
)

// DecodeMessage expands string-literal escapes inside a marker's {{...}}
// payload: \n \t \r \0 \\ \" \' and \u{XXXX}. Unrecognized escapes are kept
// verbatim so a stray backslash in an expected message stays searchable.
func DecodeMessage(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		switch raw[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case '0':
			b.WriteByte(0)
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case '"':
			b.WriteByte('"')
			i++
		case '\'':
			b.WriteByte('\'')
			i++
		case 'u':
			if r, n, ok := decodeUnicodeEscape(raw[i:]); ok {
				b.WriteRune(r)
				i += n - 1
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// decodeUnicodeEscape parses a leading `\u{XXXX}` and returns the rune and the
// number of bytes consumed.
func decodeUnicodeEscape(s string) (rune, int, bool) {
	// s starts at the backslash
	if len(s) < 5 || s[1] != 'u' || s[2] != '{' {
		return 0, 0, false
	}
	close := strings.IndexByte(s, '}')
	if close < 0 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[3:close], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), close + 1, true
}

// decodeFixItText expands only the literal two-character sequence `\n` into a
// newline. Fix-it replacement text gets no other escape processing.
func decodeFixItText(raw string) string {
	if !strings.Contains(raw, `\n`) {
		return raw
	}
	return strings.ReplaceAll(raw, `\n`, "\n")
}

// encodeFixItText is the inverse of decodeFixItText, used when rendering
// actual fix-its back into marker syntax.
func encodeFixItText(text string) string {
	return strings.ReplaceAll(text, "\n", `\n`)
}
