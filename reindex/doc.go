// Package reindex rebuilds the vector index from stored profiles, for
// example after switching embedding models or recovering a lost index.
//
// The package supports batch processing of profiles, progress tracking,
// and retry logic with exponential backoff. Vectors are unit-normalized
// by the embedding layer, so the rebuilt index stays compatible with
// cosine similarity search.
package reindex
