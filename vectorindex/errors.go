package vectorindex

import "errors"

var (
	// ErrVectorNotFound indicates no vector is stored for the user.
	ErrVectorNotFound = errors.New("vector not found")

	// ErrIndexUnavailable indicates the index could not be reached.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
