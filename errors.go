package staticpub

import "errors"

// Sentinel errors for library operations.
var (
	// Note parsing errors.
	ErrMalformedHeader     = errors.New("note must contain exactly two header delimiter lines")
	ErrMalformedHeaderLine = errors.New("malformed header line")
	ErrBadTimestamp        = errors.New("invalid published timestamp")
	ErrDuplicateNoteID     = errors.New("duplicate note id")

	// Activity derivation errors.
	ErrMissingContext = errors.New("note carries no context marker")

	// Configuration errors.
	ErrEmptyConfigName   = errors.New("config name cannot be empty")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrConfigParse       = errors.New("config file parse failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// Generation errors.
	ErrReadInput    = errors.New("reading input failed")
	ErrWriteOutput  = errors.New("writing output failed")
	ErrRenderFailed = errors.New("markdown rendering failed")
)
