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

package match

import (
	"context"
	"log/slog"

	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/storage"
)

// Matcher is the matching entry point. A second concurrent request for
// the same user is rejected with core.ErrRequestInFlight rather than
// queued.
type Matcher struct {
	store     storage.ProfileRepository
	retriever *Retriever
	ranker    *Ranker
	guard     *core.UserGuard
	logger    *slog.Logger

	keywordLimit int
	vectorLimit  int
	topK         int
}

type MatcherOption func(*Matcher)

// WithLimits overrides the retrieval limits and the result cap.
// Non-positive values keep the defaults.
func WithLimits(keywordLimit, vectorLimit, topK int) MatcherOption {
	return func(m *Matcher) {
		if keywordLimit > 0 {
			m.keywordLimit = keywordLimit
		}
		if vectorLimit > 0 {
			m.vectorLimit = vectorLimit
		}
		if topK > 0 {
			m.topK = topK
		}
	}
}

func NewMatcher(store storage.ProfileRepository, retriever *Retriever, ranker *Ranker, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		store:        store,
		retriever:    retriever,
		ranker:       ranker,
		guard:        core.NewUserGuard(),
		logger:       slog.Default().With("component", "matcher"),
		keywordLimit: DefaultKeywordLimit,
		vectorLimit:  DefaultVectorLimit,
		topK:         DefaultTopK,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindMatches retrieves, ranks and summarizes matches for the user.
// It returns storage.ErrNotFound when the user has no profile and
// core.ErrRequestInFlight when a matching request for the same user is
// already running. An empty result means no candidates were available,
// which callers cannot distinguish from degraded retrieval.
func (m *Matcher) FindMatches(ctx context.Context, userID core.UserID) (*core.MatchResult, error) {
	if err := core.ValidateUserID(userID); err != nil {
		return nil, err
	}
	if !m.guard.TryAcquire(userID) {
		m.logger.Debug("dropping duplicate matching request", "user_id", userID)
		return nil, core.ErrRequestInFlight
	}
	defer m.guard.Release(userID)

	profile, err := m.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := m.retriever.Retrieve(ctx, profile, m.keywordLimit, m.vectorLimit)
	if len(candidates) == 0 {
		m.logger.Info("no candidates available", "user_id", userID)
		return &core.MatchResult{}, nil
	}

	matches := m.ranker.Rank(ctx, profile, candidates, m.topK)
	summary := m.ranker.Summarize(ctx, profile, matches)

	m.logger.Info("matching complete",
		"user_id", userID,
		"candidates", len(candidates),
		"matches", len(matches))
	return &core.MatchResult{Matches: matches, Summary: summary}, nil
}
