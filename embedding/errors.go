package embedding

import "errors"

// ErrEmbeddingUnavailable indicates the embedding service failed to produce
// a vector. Callers decide whether to fail the operation or degrade.
var ErrEmbeddingUnavailable = errors.New("embedding unavailable")
