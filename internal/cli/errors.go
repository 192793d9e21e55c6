package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/erkantaylan/md-printer/internal/document"
	"github.com/erkantaylan/md-printer/internal/i18n"
	"github.com/erkantaylan/md-printer/internal/render"
)

const (
	exitInternal     = 1
	exitInvalidInput = 2
	exitNotFound     = 3
)

// localizedError shows a translated message while keeping its cause
// available to errors.Is.
type localizedError struct {
	msg string
	err error
}

func (e *localizedError) Error() string { return e.msg }
func (e *localizedError) Unwrap() error { return e.err }

func isInvalidInput(err error) bool {
	return errors.Is(err, i18n.ErrUnsupportedLanguage) ||
		errors.Is(err, document.ErrUnsupportedFileType) ||
		errors.Is(err, render.ErrEmptyDocument)
}

func ErrorExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case isInvalidInput(err):
		return exitInvalidInput
	case errors.Is(err, os.ErrNotExist):
		return exitNotFound
	default:
		return exitInternal
	}
}

func FormatError(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case isInvalidInput(err):
		return fmt.Sprintf("Error [invalid-input]: %v", err)
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("Error [not-found]: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
