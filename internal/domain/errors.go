package domain

import "errors"

var (
	// ErrBookmarkNotFound signals a missing bookmark row.
	ErrBookmarkNotFound = errors.New("bookmark not found")
	// ErrFolderNotFound signals a missing folder row.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrProviderNotConfigured signals that the user has no embedding provider set up.
	// For search this is a normal state (empty semantic results), not a failure.
	ErrProviderNotConfigured = errors.New("embedding provider not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure (network, quota, auth).
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrInvalidRequest signals a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
)
