// Package common defines shared constants and sentinel errors used across
// the catalog, sync and gateway layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Sync-bridge errors.
	ErrNoAccessToken = errors.New("no access token")
	ErrNoFolder      = errors.New("remote folder not resolved")

	// Remote object-store errors.
	ErrRemoteStatus = errors.New("unexpected remote status")

	// Codec errors.
	ErrDecode          = errors.New("decode failed")
	ErrInvalidPortable = errors.New("invalid portable encoding")
)
