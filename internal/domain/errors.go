package domain

import (
	"errors"

	"retype.dev/pkg/retype/internal/domain/indent"
)

// Fatal conditions. Everything else found in the inputs is skipped and shows
// up as untyped in the coverage.
var (
	ErrMissingConfig         = errors.New("missing required configuration")
	ErrMalformedRegistration = errors.New("malformed module registration")
	ErrNoRegistration        = errors.New("no module registration found")
	ErrInheritanceDepth      = errors.New("inheritance depth limit reached")
	ErrUnknownEdit           = errors.New("unknown edit operation")
	ErrEditMismatch          = errors.New("rename does not match source text")
	ErrEditOverlap           = errors.New("edits overlap")
	ErrInconsistentIndent    = indent.ErrInconsistent
)
