package bulkedit

import "errors"

// Sentinel errors classify failures for callers. Validation and transition
// errors are recoverable by the user; token errors are fatal for the execute
// call. Per-asset failures never surface here — they travel inside
// PreviewResult and ExecutionResult.
var (
	ErrValidation      = errors.New("validation error")
	ErrStateTransition = errors.New("invalid stage transition")
	ErrTokenInvalid    = errors.New("invalid preview token")
	ErrTokenExpired    = errors.New("preview token expired")
	ErrPreviewBlocked  = errors.New("preview reported errors")
)
