package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")

	// ErrRateLimited is returned when an unexpired code is already outstanding
	// for an email. The wrapping message carries the minutes remaining; the
	// category is carried by the sentinel alone.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidCode covers wrong, unknown, and expired verification codes.
	// A single error kind prevents callers from probing which emails exist
	// or whether a guessed code was merely stale.
	ErrInvalidCode = errors.New("invalid or expired verification code")

	// ErrTokenExpired means the access token is well-formed but past its TTL.
	// Clients may react by attempting a silent refresh.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid covers every other token failure: bad signature,
	// malformed payload, wrong type tag, unknown or revoked refresh token.
	// Clients must re-authenticate.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrDependency is an opaque failure of a store or the email transport.
	// Details are logged for operators, never surfaced to clients.
	ErrDependency = errors.New("dependency failure")
)
