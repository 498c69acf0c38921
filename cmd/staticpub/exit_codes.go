package main

import (
	"errors"
	"os"

	staticpub "github.com/alnah/go-staticpub"
)

// Exit codes for the staticpub CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or unknown command
	ExitIO      = 3 // File not found, permission denied, write failure
	ExitNotes   = 4 // Malformed pseudo-note input
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Pseudo-note errors (exit 4)
	if errors.Is(err, staticpub.ErrMalformedHeader) ||
		errors.Is(err, staticpub.ErrMalformedHeaderLine) ||
		errors.Is(err, staticpub.ErrBadTimestamp) ||
		errors.Is(err, staticpub.ErrDuplicateNoteID) ||
		errors.Is(err, staticpub.ErrMissingContext) ||
		errors.Is(err, staticpub.ErrRenderFailed) {
		return ExitNotes
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, staticpub.ErrReadInput) ||
		errors.Is(err, staticpub.ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config errors (exit 2)
	if errors.Is(err, staticpub.ErrEmptyConfigName) ||
		errors.Is(err, staticpub.ErrConfigNotFound) ||
		errors.Is(err, staticpub.ErrConfigParse) ||
		errors.Is(err, staticpub.ErrInvalidConfig) ||
		errors.Is(err, staticpub.ErrUnsupportedFormat) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
