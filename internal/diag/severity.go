package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
// Numeric values follow the language server protocol: lower is more severe.
type Severity uint8

const (
	// SevError marks problems that make the section unusable.
	SevError Severity = iota + 1
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevInfo is for informational diagnostics.
	SevInfo
	SevHint
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarning:
		return "WARNING"
	case SevInfo:
		return "INFORMATION"
	case SevHint:
		return "HINT"
	}
	return "UNKNOWN"
}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	return s >= SevError && s <= SevHint
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s.Valid() && s <= other
}

// ParseSeverity maps a user-facing name ("error", "warning", "info", "hint")
// to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return SevError, nil
	case "warning", "warn":
		return SevWarning, nil
	case "info", "information":
		return SevInfo, nil
	case "hint":
		return SevHint, nil
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}
