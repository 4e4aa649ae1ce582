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


// Package embedding turns profile text into the single unit-length vector
// stored in the vector index. Long profiles are embedded chunk by chunk and
// averaged, so one member is always represented by exactly one vector.
package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/commatch/ai"
	"github.com/poiesic/commatch/textproc"
)

// ProfileEmbedder produces profile embeddings from questionnaire answers.
type ProfileEmbedder struct {
	embedder ai.Embedder
	preparer *textproc.Preparer
	logger   *slog.Logger
}

// NewProfileEmbedder creates a profile embedder. A nil preparer falls back
// to the default preparation settings.
func NewProfileEmbedder(embedder ai.Embedder, preparer *textproc.Preparer) (*ProfileEmbedder, error) {
	if embedder == nil {
		return nil, fmt.Errorf("profile embedder: embedder is required")
	}
	if preparer == nil {
		preparer = textproc.NewPreparer(nil, nil, 0)
	}
	return &ProfileEmbedder{
		embedder: embedder,
		preparer: preparer,
		logger:   slog.Default().With("component", "profile-embedder"),
	}, nil
}

// EmbedPrepared embeds an already prepared profile: each chunk is embedded
// and normalized to unit length, then the chunk vectors are averaged
// component-wise and the mean renormalized. A single chunk yields its unit
// vector directly.
func (e *ProfileEmbedder) EmbedPrepared(ctx context.Context, prepared textproc.PreparedProfile) ([]float32, error) {
	if len(prepared.Chunks) == 0 {
		return nil, fmt.Errorf("%w: prepared profile has no chunks", ErrEmbeddingUnavailable)
	}

	vectors, err := e.embedder.EmbedTexts(ctx, prepared.Chunks)
	if err != nil {
		e.logger.Error("chunk embedding failed", "chunks", len(prepared.Chunks), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != len(prepared.Chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks",
			ErrEmbeddingUnavailable, len(vectors), len(prepared.Chunks))
	}

	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty vector for chunk %d", ErrEmbeddingUnavailable, i)
		}
		vectors[i] = NormalizeVector(v)
	}

	if len(vectors) == 1 {
		return vectors[0], nil
	}

	e.logger.Debug("averaging chunk embeddings", "chunks", len(vectors))
	return NormalizeVector(MeanVector(vectors)), nil
}

// EmbedProfile prepares the three answers and embeds the result.
func (e *ProfileEmbedder) EmbedProfile(ctx context.Context, field, seeking, offering string) ([]float32, error) {
	prepared := e.preparer.Prepare(field, seeking, offering)
	return e.EmbedPrepared(ctx, prepared)
}

// EmbedText embeds a single piece of text as one unit-length vector,
// bypassing preparation. Used for ad hoc queries against the index.
func (e *ProfileEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	v, err := e.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrEmbeddingUnavailable)
	}
	return NormalizeVector(v), nil
}
