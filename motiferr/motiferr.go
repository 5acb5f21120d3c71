// Package motiferr defines the error taxonomy shared by the motif-analysis
// packages (alphabet, pwm, meme, fimo, tomtom): validation errors that a
// caller can recover from, as opposed to programming-error panics.
package motiferr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidInput is the sentinel wrapped by every InvalidInput error,
// so callers can test with errors.Is(err, motiferr.ErrInvalidInput).
var ErrInvalidInput = errors.New("invalid input")

// InvalidInput reports that the caller's data, not the library, is at
// fault: an unknown alphabet character, a malformed PWM, an ambiguous
// consensus call without force, and so on. It never indicates a partially
// populated result; callers that see an InvalidInput get a zero value.
type InvalidInput struct {
	// Component names the package/operation that rejected the input,
	// e.g. "alphabet.OneHotEncode" or "pwm.New".
	Component string
	Reason    string
}

func (e *InvalidInput) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Component, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) succeed.
func (e *InvalidInput) Unwrap() error { return ErrInvalidInput }

// Invalidf builds an *InvalidInput with a formatted reason.
func Invalidf(component, format string, args ...interface{}) error {
	return &InvalidInput{Component: component, Reason: fmt.Sprintf(format, args...)}
}
