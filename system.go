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

package commatch

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/commatch/ai"
	"github.com/poiesic/commatch/ai/openai"
	"github.com/poiesic/commatch/embedding"
	"github.com/poiesic/commatch/match"
	"github.com/poiesic/commatch/profile"
	"github.com/poiesic/commatch/reindex"
	"github.com/poiesic/commatch/storage"
	"github.com/poiesic/commatch/storage/badger"
	"github.com/poiesic/commatch/vectorindex"
	"github.com/poiesic/commatch/vectorindex/qdrant"
)

// System wires the profile store, the vector index and the AI provider
// together and hands out the pipeline, matcher and reindexer built on
// them.
type System struct {
	backend  *badger.Backend
	store    storage.ProfileRepository
	index    vectorindex.Index
	provider ai.AIProvider
	embedder *embedding.ProfileEmbedder
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig  *ai.Config
	qdrant    *qdrant.Config
	index     vectorindex.Index
	provider  ai.AIProvider
	inMemory  bool
	dimension int
}

// WithAIConfig overrides the default AI endpoint configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithQdrant stores vectors in a Qdrant collection instead of the
// in-process index.
func WithQdrant(config qdrant.Config) SystemOption {
	return func(o *systemOptions) {
		o.qdrant = &config
	}
}

// WithVectorIndex injects a ready-made vector index, taking precedence
// over WithQdrant.
func WithVectorIndex(index vectorindex.Index) SystemOption {
	return func(o *systemOptions) {
		o.index = index
	}
}

// WithAIProvider injects a ready-made AI provider, e.g. the mock
// provider in tests.
func WithAIProvider(provider ai.AIProvider) SystemOption {
	return func(o *systemOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps the profile store in memory. Intended for tests
// and experiments.
func WithInMemory() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// WithDimension sets the embedding dimension used to initialize the
// vector index.
func WithDimension(dimension int) SystemOption {
	return func(o *systemOptions) {
		if dimension > 0 {
			o.dimension = dimension
		}
	}
}

// Open creates a System backed by a profile store at filePath.
func Open(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig:  ai.DefaultConfig(),
		dimension: qdrant.DefaultDimension,
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := slog.Default().With("component", "system")

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	store, err := badger.NewProfileRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			store.Close()
			backend.Close()
			return nil, err
		}
	}

	embedder, err := embedding.NewProfileEmbedder(provider.Embedder(), nil)
	if err != nil {
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	index, err := buildIndex(options, logger)
	if err != nil {
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	return &System{
		backend:  backend,
		store:    store,
		index:    index,
		provider: provider,
		embedder: embedder,
		logger:   logger,
	}, nil
}

func buildIndex(options *systemOptions, logger *slog.Logger) (vectorindex.Index, error) {
	if options.index != nil {
		return options.index, nil
	}

	if options.qdrant != nil {
		index, err := qdrant.NewIndex(*options.qdrant, logger)
		if err != nil {
			return nil, err
		}
		if err := index.Init(context.Background(), options.dimension); err != nil {
			return nil, err
		}
		return index, nil
	}

	index := vectorindex.NewMemoryIndex()
	if err := index.Init(context.Background(), options.dimension); err != nil {
		return nil, err
	}
	return index, nil
}

// Close releases the AI provider and the profile store.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing profile repository", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (s *System) ProfileRepository() storage.ProfileRepository {
	return s.store
}

func (s *System) VectorIndex() vectorindex.Index {
	return s.index
}

func (s *System) NewPipeline(opts ...profile.Option) (*profile.Pipeline, error) {
	return profile.NewPipeline(s.store, s.index, s.embedder, opts...)
}

func (s *System) NewMatcher(opts ...match.MatcherOption) *match.Matcher {
	retriever := match.NewRetriever(s.store, s.index, s.embedder)
	ranker := match.NewRanker(s.provider.Oracle(), 0)
	return match.NewMatcher(s.store, retriever, ranker, opts...)
}

func (s *System) NewReindexer(config *reindex.Config, progress io.Writer) *reindex.Reindexer {
	return reindex.NewReindexer(s.store, s.index, s.embedder, config, progress)
}
