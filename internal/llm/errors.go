package llm

import "errors"

// Callers branch on these with errors.Is. Plan drafting treats every one of
// them as a reason to fall back to the skeleton plan.
var (
	ErrUnavailable    = errors.New("llm backend unavailable")
	ErrTimeout        = errors.New("llm request timed out")
	ErrInvalidOutput  = errors.New("invalid llm output format")
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrDisabled means no model is configured.
	ErrDisabled = errors.New("llm is disabled")
)
