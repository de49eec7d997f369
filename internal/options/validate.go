// Package options provides shared helpers for functional-option validation.
package options

import "github.com/erraggy/edmoas/oaserrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// The returned error is a *oaserrors.ConfigError for the "input" option
// carrying noSourceMsg or multiSourceMsg.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &oaserrors.ConfigError{Option: "input", Message: noSourceMsg}
	case count > 1:
		return &oaserrors.ConfigError{Option: "input", Value: count, Message: multiSourceMsg}
	}
	return nil
}
