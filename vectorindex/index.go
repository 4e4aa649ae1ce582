// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vectorindex defines the vector index abstraction used for
// similarity retrieval over profile embeddings.
//
// An Index stores one vector per user and supports nearest-neighbor
// search by cosine similarity. The canonical implementation lives in
// the qdrant subpackage; tests use the in-memory implementation from
// mock.go.
package vectorindex

import (
	"context"

	"github.com/poiesic/commatch/core"
)

// Hit is a single similarity search result.
type Hit struct {
	UserID core.UserID
	Score  float32
}

// Index stores profile embeddings keyed by user id.
type Index interface {
	// Init prepares the index for vectors of the given dimension.
	// It is idempotent when the dimension matches the existing schema.
	Init(ctx context.Context, dimension int) error

	// Upsert stores or replaces the vector for a user.
	Upsert(ctx context.Context, userID core.UserID, vector []float32) error

	// Retrieve returns the stored vector for a user, or ErrVectorNotFound.
	Retrieve(ctx context.Context, userID core.UserID) ([]float32, error)

	// Search returns up to limit hits ordered by descending similarity.
	// The querying user's own point may appear in the results; callers
	// filter it out.
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)

	// Delete removes the vector for a user. Deleting a user without a
	// stored vector is not an error.
	Delete(ctx context.Context, userID core.UserID) error
}
