package domain

import "errors"

// Lookup and validation.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig is fatal at startup.
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Backends that could not be built or could not serve a request.
var (
	ErrLLMUnavailable       = errors.New("LLM service unavailable")
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	ErrSearchUnavailable    = errors.New("search engine unavailable")

	// ErrStorage always reaches the caller; remote failures may be absorbed.
	ErrStorage           = errors.New("vector store failure")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Remote call outcomes. ErrRateLimited, ErrBackendTimeout and ErrTransient
// are retried; ErrAuthRequired is not.
var (
	ErrAuthRequired   = errors.New("authentication required")
	ErrRateLimited    = errors.New("rate limited")
	ErrBackendTimeout = errors.New("backend timeout")
	ErrTransient      = errors.New("transient remote failure")
)
