package domain

import "errors"

var (
	// ErrStepMismatch is returned when an operation is requested outside the step that accepts it.
	ErrStepMismatch = errors.New("operation not available at the current step")

	// ErrNoLikedOutfits is returned when continuing past the outfit step without any liked outfit.
	ErrNoLikedOutfits = errors.New("at least one outfit must be liked")

	// ErrEmptyRequest is returned when a blank style request is submitted.
	ErrEmptyRequest = errors.New("request text is empty")

	// ErrBusy is returned when a gated operation is requested while the session is processing.
	ErrBusy = errors.New("session is processing")

	// ErrEmptyCapture is returned when a photo capture carries no image.
	ErrEmptyCapture = errors.New("captured image is empty")

	// ErrInvalidSessionID is returned when a session ID contains unsupported characters.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrSessionClosed is returned by operations on a closed session.
	ErrSessionClosed = errors.New("session is closed")
)
