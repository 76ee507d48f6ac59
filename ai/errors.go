package ai

import "errors"

var (
	// ErrMalformedResponse indicates the model returned output that could not
	// be parsed into the expected structure after repair attempts.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("empty model response")
)
