package session

import "errors"

// Sentinel errors for session state. Callers should match with errors.Is.
var (
	// ErrNoCredential means an authenticated operation was attempted with no
	// stored credential. It is surfaced before any network call is made.
	ErrNoCredential = errors.New("no credential stored")

	// ErrMalformedCredential means the stored or received credential could not
	// be decoded for identity or role extraction. Non-fatal: callers degrade
	// to "identity unresolved" for display purposes.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrIdentityUnavailable means no identity email could be resolved from
	// either the cached profile snapshot or the credential payload. Fatal for
	// operations that key their requests on the caller's email.
	ErrIdentityUnavailable = errors.New("identity unavailable")
)
