// Package errors formats command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/weekwise/internal/logger"
)

type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

// WithHint attaches a remedy that Format prints below the error.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hintError{err: err, hint: hint}
}

// Hint returns the remedy attached anywhere in err's chain, if any.
func Hint(err error) string {
	var h *hintError
	if errors.As(err, &h) {
		return h.hint
	}
	return ""
}

// Format renders err with an "Error: " prefix and its hint, if any.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// Formatf formats a message with the "Error: " prefix.
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil err is ignored.
func Fatal(err error) {
	if err != nil {
		logger.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, Format(err))
		os.Exit(1)
	}
}

// Fatalf is Fatal for a formatted message.
func Fatalf(format string, args ...interface{}) {
	logger.Error("command failed", "error", fmt.Sprintf(format, args...))
	fmt.Fprintln(os.Stderr, Formatf(format, args...))
	os.Exit(1)
}
