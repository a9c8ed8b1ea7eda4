package domain

import "errors"

var (
	// ErrNotificationNotFound is returned when a notification does not exist
	// or is not owned by the requesting user.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidToken is returned when a handshake credential fails
	// verification (malformed, bad signature, or expired).
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedMessage is returned for inbound frames that are not valid
	// JSON or are missing required fields.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrUnknownMessageType is returned for well-formed envelopes whose type
	// discriminant this subsystem does not handle.
	ErrUnknownMessageType = errors.New("unknown message type")
)
