// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error taxonomy shared across pipeline stages. Callers classify failures
// with errors.Is; stage errors wrap these sentinels with context.
var (
	// ErrRemote marks a network or HTTP failure talking to an external API.
	// Not retried at this layer; callers own retry policy.
	ErrRemote = errors.New("remote request failed")

	// ErrDecode marks a response body that could not be parsed as expected.
	ErrDecode = errors.New("malformed response")

	// ErrInvalidRecord marks a structurally incomplete article record passed
	// into a pure transform.
	ErrInvalidRecord = errors.New("invalid article record")

	// ErrInvalidContent marks structurally incomplete composed content.
	ErrInvalidContent = errors.New("invalid content")

	// ErrMissingCredential marks an AI enrichment request without a
	// configured API key.
	ErrMissingCredential = errors.New("missing API credential")
)
