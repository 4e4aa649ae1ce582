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

package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/embedding"
	"github.com/poiesic/commatch/storage"
	"github.com/poiesic/commatch/textproc"
	"github.com/poiesic/commatch/vectorindex"
)

// Input carries one member's identity and the three profile answers.
type Input struct {
	UserID    core.UserID
	Username  string
	FirstName string
	LastName  string

	Field    string
	Seeking  string
	Offering string
}

// Pipeline orchestrates profile saves: validation, preparation, lexical
// storage and vector indexing.
type Pipeline struct {
	store    storage.ProfileRepository
	index    vectorindex.Index
	embedder *embedding.ProfileEmbedder
	preparer *textproc.Preparer
	pool     *ants.Pool
	guard    *core.UserGuard
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for bulk saves.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithPreparer overrides the text preparer.
func WithPreparer(preparer *textproc.Preparer) Option {
	return func(p *Pipeline) error {
		if preparer != nil {
			p.preparer = preparer
		}
		return nil
	}
}

// NewPipeline creates a new profile save pipeline.
func NewPipeline(
	store storage.ProfileRepository,
	index vectorindex.Index,
	embedder *embedding.ProfileEmbedder,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:    store,
		index:    index,
		embedder: embedder,
		preparer: textproc.NewPreparer(nil, nil, 0),
		pool:     pool,
		guard:    core.NewUserGuard(),
		logger:   slog.Default().With("component", "profile-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// SaveProfile validates and stores one member's profile, then embeds it
// and writes the vector to the index. A concurrent save for the same user
// is rejected with core.ErrRequestInFlight. A failed vector write is
// logged and the save still succeeds; embedding unavailability is
// returned to the caller, though the lexical profile is already stored
// and the vector heals lazily on the next matching request.
func (p *Pipeline) SaveProfile(ctx context.Context, input Input) (*core.Profile, error) {
	if err := core.ValidateUserID(input.UserID); err != nil {
		return nil, err
	}
	if !p.guard.TryAcquire(input.UserID) {
		return nil, core.ErrRequestInFlight
	}
	defer p.guard.Release(input.UserID)

	return p.save(ctx, input)
}

// SaveProfiles stores a batch of profiles over the worker pool. Different
// users run in parallel; each user's save is sequential. Per-item
// failures are collected and joined, never fail-fast. The returned slice
// holds the successfully stored profiles in input order, with nil gaps
// for failed items.
func (p *Pipeline) SaveProfiles(ctx context.Context, inputs []Input) ([]*core.Profile, error) {
	stored := make([]*core.Profile, len(inputs))
	errs := make([]error, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		i, input := i, input
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			profile, err := p.SaveProfile(ctx, input)
			if err != nil {
				errs[i] = fmt.Errorf("user %d: %w", input.UserID, err)
				return
			}
			stored[i] = profile
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	return stored, errors.Join(errs...)
}

// DeleteUser removes a member's profile, its history and its vector.
// The vector delete is best-effort: the index tolerates re-deletes, and
// an unreachable index only logs.
func (p *Pipeline) DeleteUser(ctx context.Context, userID core.UserID) error {
	if err := core.ValidateUserID(userID); err != nil {
		return err
	}
	if err := p.index.Delete(ctx, userID); err != nil {
		p.logger.Warn("vector delete failed", "user_id", userID, "err", err)
	}
	return p.store.DeleteProfile(ctx, userID)
}

// Release releases the worker pool. The pipeline should not be used
// after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) save(ctx context.Context, input Input) (*core.Profile, error) {
	for _, answer := range []string{input.Field, input.Seeking, input.Offering} {
		if err := core.ValidateAnswer(answer); err != nil {
			return nil, err
		}
	}

	prepared := p.preparer.Prepare(input.Field, input.Seeking, input.Offering)

	profile := &core.Profile{
		Id:        input.UserID,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Field:     prepared.Field,
		Seeking:   prepared.Seeking,
		Offering:  prepared.Offering,
		Keywords:  prepared.Keywords,
		Active:    true,
	}
	if err := core.ValidateProfile(profile); err != nil {
		return nil, err
	}

	stored, err := p.store.UpsertProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	vector, err := p.embedder.EmbedPrepared(ctx, prepared)
	if err != nil {
		p.logger.Error("profile embedding failed", "user_id", input.UserID, "err", err)
		return stored, err
	}
	if err := p.index.Upsert(ctx, input.UserID, vector); err != nil {
		p.logger.Warn("vector upsert failed, will backfill lazily", "user_id", input.UserID, "err", err)
	}

	p.logger.Info("profile saved",
		"user_id", input.UserID,
		"keywords", len(stored.Keywords),
		"chunks", len(prepared.Chunks))
	return stored, nil
}
