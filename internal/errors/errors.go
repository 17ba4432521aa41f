// Package errors formats command failures for the terminal.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/arise/internal/lock"
	"github.com/julianstephens/arise/internal/logger"
	"github.com/julianstephens/arise/internal/migration"
	"github.com/julianstephens/arise/internal/storage"
)

// Hint returns a follow-up suggestion for errors the user can act on, or "".
func Hint(err error) string {
	var tooNew *migration.SchemaTooNewError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, lock.ErrLocked):
		return "Close the other arise session first. Read-only commands such as 'arise status' still work."
	case errors.Is(err, storage.ErrStorageUnavailable):
		return "Progress from this session is kept in memory only. Run 'arise doctor' to diagnose."
	case errors.As(err, &tooNew):
		return "Install a newer arise release, or restore an older database with 'arise backup restore'."
	}
	return ""
}

func withHint(prefix string, err error) string {
	msg := fmt.Sprintf("%s: %v", prefix, err)
	if hint := Hint(err); hint != "" {
		msg += "\n  " + hint
	}
	return msg
}

// Format renders err with an "Error: " prefix and a hint line when one applies.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return withHint("Error", err)
}

// Warning renders a non-fatal problem.
func Warning(err error) string {
	if err == nil {
		return ""
	}
	return withHint("Warning", err)
}

// Fatal logs err and exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
