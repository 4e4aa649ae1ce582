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

package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/embedding"
	"github.com/poiesic/commatch/storage"
	"github.com/poiesic/commatch/vectorindex"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of profiles to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of profiles)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer orchestrates rebuilding the vector index from all active
// profiles in the store.
type Reindexer struct {
	repo      storage.ProfileRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *ProfileIterator
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo storage.ProfileRepository, index vectorindex.Index, embedder *embedding.ProfileEmbedder, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(index, embedder, config.MaxRetries, config.RetryDelay)
	iterator := NewProfileIterator(repo, config.BatchSize)

	return &Reindexer{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the reindexing operation.
// Every active profile in the store is embedded and upserted into the
// vector index. Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	allProfiles, err := r.repo.AllActiveProfiles(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to query profiles: %w", err)
	}

	totalProfiles := len(allProfiles)
	if totalProfiles == 0 {
		fmt.Fprintf(r.progress, "No active profiles found (0 profiles)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d profiles (batch size: %d)\n",
		totalProfiles, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, totalProfiles, r.config.ReportInterval)
	tracker.Start()

	processed := 0

	err = r.iterator.ForEach(ctx, func(profiles []*core.Profile) error {
		if err := r.processor.Process(ctx, profiles); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(profiles)
		tracker.Update(processed)

		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d profiles in %v (%.1f profiles/sec)\n",
		totalProfiles, elapsed.Round(time.Second), float64(totalProfiles)/elapsed.Seconds())

	return nil
}
