package service

import (
	"errors"
	"fmt"
)

// Sentinel errors classify every failure the services can produce. Handlers
// translate these into HTTP statuses; raw repository or transport errors
// never cross the service boundary untyped.
var (
	ErrNotFound = errors.New("analysis not found")

	// ErrAccessDenied means the resource exists but belongs to another user.
	ErrAccessDenied = errors.New("access denied")

	// ErrFeatureDisabled means a feature flag turned the surface off. The
	// HTTP layer responds 404 for it, indistinguishable from a missing
	// resource, so flags are not probeable by unauthenticated callers.
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrExportBackend wraps failures of the document rendering backend.
	ErrExportBackend = errors.New("export backend failure")
)

// ValidationError reports bad input rejected before any repository call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
