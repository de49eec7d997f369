// Package severity provides severity level constants for issues reported by
// the validator and converter packages.
//
// The levels are:
//   - SeverityInfo: informational notes about choices made
//   - SeverityWarning: suspicious but convertible model content
//   - SeverityError: structural problems that fail model verification
//   - SeverityCritical: content the converter cannot process at all
//
// Only SeverityError and SeverityCritical count against verification.
package severity

import "fmt"

// Severity indicates the severity level of an issue.
type Severity int

const (
	// SeverityError indicates a structural problem that makes the model invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates content that converts but likely is not intended.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo

	// SeverityCritical indicates content that cannot be processed at all.
	SeverityCritical
)

// rank orders levels from least to most severe. The iota order is kept
// stable for compatibility and does not reflect severity.
func (s Severity) rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether s is as severe as floor or more.
func (s Severity) AtLeast(floor Severity) bool {
	return s.rank() >= floor.rank() && s.rank() >= 0
}

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity as its string form.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Parse converts a string form back into a Severity.
func Parse(str string) (Severity, error) {
	switch str {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q", str)
	}
}
