package i18n

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is returned by SetLanguage for codes outside the supported set.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// LoadError reports that the table for Lang (and the default fallback, if
// attempted) could not be fetched or parsed.
type LoadError struct {
	Lang Language
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load language file for %s: %v", e.Lang, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
