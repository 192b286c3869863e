package analysis

import (
	"errors"
)

var (
	// ErrClientNotInitialized is returned when the gateway client is not initialized.
	ErrClientNotInitialized = errors.New("AI gateway client not initialized")

	// ErrGatewayFailure is returned when the gateway responds with a non-OK status.
	ErrGatewayFailure = errors.New("AI gateway request failed")

	// ErrEmptyCompletion is returned when the gateway returns no choices.
	ErrEmptyCompletion = errors.New("AI gateway returned an empty completion")
)
