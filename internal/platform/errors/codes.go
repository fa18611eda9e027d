// Package errors provides coded domain errors for the game.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeConfiguration marks a game that cannot be built, such as an odd grid size.
	CodeConfiguration Code = "CONFIGURATION"

	// CodeInvalidSelection marks a pick that is out of range or already revealed.
	// The round loop re-prompts; state is left untouched.
	CodeInvalidSelection Code = "INVALID_SELECTION"

	// CodeMalformedInput marks input that could not be read as an integer.
	CodeMalformedInput Code = "MALFORMED_INPUT"
)

// Recoverable reports whether the round loop may re-prompt after an error with this code.
func (c Code) Recoverable() bool {
	return c == CodeInvalidSelection
}
