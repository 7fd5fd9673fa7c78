package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoPoliciesLoaded indicates analysis was requested before any
	// policy documents were ingested
	ErrNoPoliciesLoaded = errors.New("no policies loaded")

	// ErrRetrievalUnavailable indicates the vector search service could
	// not be reached
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerativeUnavailable indicates the generative service could not
	// be reached
	ErrGenerativeUnavailable = errors.New("generative service unavailable")

	// ErrMalformedResponse indicates the generative service returned text
	// that does not parse to the expected schema
	ErrMalformedResponse = errors.New("malformed generative response")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")
)
