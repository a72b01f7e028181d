package domain

import "errors"

var (
	// ErrClientInput is returned when neither an image nor a food name was provided
	ErrClientInput = errors.New("no image or food provided")

	// ErrInvalidImage is returned when the image data URI cannot be decoded
	ErrInvalidImage = errors.New("invalid image data")

	// ErrRemoteFetch is returned when a CIQUAL page cannot be fetched
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrModelFailure is returned when the generative model call fails
	ErrModelFailure = errors.New("generative model request failed")

	// ErrMissingAPIKey is returned when the model client is built without a key
	ErrMissingAPIKey = errors.New("gemini API key is required (set GEMINI_API_KEY)")

	// ErrNoMatch is returned when the closest-entry lookup finds nothing
	ErrNoMatch = errors.New("no matching CIQUAL entry")

	// ErrRateLimited is returned when a client exceeds its request budget
	ErrRateLimited = errors.New("rate limit exceeded")
)
