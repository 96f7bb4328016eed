package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNote is for secondary diagnostics attached to an error or warning.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "NOTE"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lowercase form used inside diagnostic messages and
// capture files ("note", "warning", "error").
func (s Severity) Label() string {
	switch s {
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity converts a capture-file label into a Severity.
func ParseSeverity(label string) (Severity, error) {
	switch label {
	case "note", "info":
		return SevNote, nil
	case "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevNote, fmt.Errorf("unknown severity %q", label)
}
