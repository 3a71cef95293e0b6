package errors

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/focusblocks/internal/logger"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

type hinted struct {
	err  error
	hint string
}

func (h *hinted) Error() string { return h.err.Error() }
func (h *hinted) Unwrap() error { return h.err }

// WithHint attaches a suggested next step, printed under the error line.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hint: hint}
}

// Hint returns the outermost hint in err's chain, or "".
func Hint(err error) string {
	var h *hinted
	if errors.As(err, &h) {
		return h.hint
	}
	return ""
}

// Format renders err as the "Error: ..." line shown to users, followed by its
// hint if it has one.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n  Hint: " + hint
	}
	return msg
}

// Fatal logs err, prints it and exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}

// Warn prints a non-fatal "Warning: " line and records it in the log.
func Warn(err error) {
	if err == nil {
		return
	}
	logger.Warn("Command degraded", "error", err)
	fmt.Fprintf(stderr, "Warning: %v\n", err)
}
