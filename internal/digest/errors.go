package digest

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedLanguage indicates no grammar adapter is registered
	// for the requested language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrConflictingDecisions indicates the selector produced overlapping
	// decisions. This is a defect in a rule table or an adapter's range
	// guarantees, surfaced loudly instead of silently picking a winner.
	ErrConflictingDecisions = errors.New("conflicting decisions")

	// ErrInvalidRule indicates a malformed selector rule (unknown action
	// or empty kind pattern).
	ErrInvalidRule = errors.New("invalid selector rule")
)

// ErrorKind tags a FileError with its position in the failure taxonomy.
type ErrorKind string

const (
	// ErrorParse marks a file whose source could not be parsed.
	ErrorParse ErrorKind = "parse_error"
	// ErrorUnsupported marks a file whose language has no adapter.
	ErrorUnsupported ErrorKind = "unsupported_language"
	// ErrorConflict marks an internal invariant violation (overlapping
	// decisions); a bug report, not a user mistake.
	ErrorConflict ErrorKind = "conflicting_decisions"
	// ErrorCancelled marks a file abandoned because the run was cancelled
	// or timed out before the file finished.
	ErrorCancelled ErrorKind = "cancelled"
)

// FileError is a single file's failure. Failures are file-scoped: they are
// collected alongside successful digests and never abort the batch.
type FileError struct {
	Path string
	Kind ErrorKind
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Detail returns the human-readable reason without the path prefix.
func (e *FileError) Detail() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}
