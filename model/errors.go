package model

import "errors"

// Usage errors. They are returned straight to the caller and never coerced
// into a default.
var (
	ErrNotAnAnalyzer      = errors.New("not an analyzer")
	ErrArgumentMismatch   = errors.New("improper use of the settings and/or data arguments")
	ErrArity              = errors.New("wrong number of inputs")
	ErrInvalidSetting     = errors.New("invalid setting")
	ErrInvalidField       = errors.New("invalid metadata field")
	ErrFieldType          = errors.New("metadata field name must be a string")
	ErrIndex              = errors.New("invalid piece index")
	ErrNotLoaded          = errors.New("pieces have not been loaded")
	ErrUnknownInstruction = errors.New("unrecognized instruction")
	ErrNotImplemented     = errors.New("instruction is not implemented")
	ErrNoResult           = errors.New("no result to export, call Run first")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
)

var usageErrors = []error{
	ErrNotAnAnalyzer,
	ErrArgumentMismatch,
	ErrArity,
	ErrInvalidSetting,
	ErrInvalidField,
	ErrFieldType,
	ErrIndex,
	ErrNotLoaded,
	ErrUnknownInstruction,
	ErrNotImplemented,
	ErrNoResult,
	ErrUnsupportedFormat,
}

// IsUsage reports whether err was caused by a bad call rather than by data
// or I/O.
func IsUsage(err error) bool {
	for _, u := range usageErrors {
		if errors.Is(err, u) {
			return true
		}
	}
	return false
}
