package profile

import "errors"

var (
	// ErrStoreRequired is returned when a profile repository is not provided.
	ErrStoreRequired = errors.New("profile repository required")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrEmbedderRequired is returned when a profile embedder is not provided.
	ErrEmbedderRequired = errors.New("profile embedder required")
)
