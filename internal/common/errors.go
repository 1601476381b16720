package common

import "errors"

var (
	// ErrFeatureDisabled is returned when a site feature is switched off in [site]
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrInvalidRequest wraps input validation failures
	ErrInvalidRequest = errors.New("invalid request")
)
