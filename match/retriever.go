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
	"errors"
	"log/slog"

	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/embedding"
	"github.com/poiesic/commatch/storage"
	"github.com/poiesic/commatch/vectorindex"
)

const (
	// DefaultKeywordLimit caps candidates from keyword search.
	DefaultKeywordLimit = 15

	// DefaultVectorLimit caps candidates from vector search.
	DefaultVectorLimit = 15

	// MaxCandidates caps the merged candidate list handed to the ranker.
	MaxCandidates = 20
)

// Retriever gathers match candidates from keyword search and vector
// similarity search.
type Retriever struct {
	store    storage.ProfileRepository
	index    vectorindex.Index
	embedder *embedding.ProfileEmbedder
	logger   *slog.Logger
}

func NewRetriever(store storage.ProfileRepository, index vectorindex.Index, embedder *embedding.ProfileEmbedder) *Retriever {
	return &Retriever{
		store:    store,
		index:    index,
		embedder: embedder,
		logger:   slog.Default().With("component", "match-retriever"),
	}
}

// Retrieve returns merged candidates for the member, keyword hits first,
// deduplicated by user id and capped at MaxCandidates. It never returns
// an error: a failing source contributes no candidates, and an unreachable
// vector index degrades to all active profiles. An empty result means no
// matches are available right now.
func (r *Retriever) Retrieve(ctx context.Context, profile *core.Profile, keywordLimit, vectorLimit int) []*core.Candidate {
	if keywordLimit <= 0 {
		keywordLimit = DefaultKeywordLimit
	}
	if vectorLimit <= 0 {
		vectorLimit = DefaultVectorLimit
	}

	byKeyword := r.keywordCandidates(ctx, profile, keywordLimit)
	byVector := r.vectorCandidates(ctx, profile, vectorLimit)

	merged := make([]*core.Candidate, 0, len(byKeyword)+len(byVector))
	seen := make(map[core.UserID]struct{}, len(byKeyword)+len(byVector))
	for _, c := range append(byKeyword, byVector...) {
		if _, ok := seen[c.Profile.Id]; ok {
			continue
		}
		seen[c.Profile.Id] = struct{}{}
		merged = append(merged, c)
		if len(merged) == MaxCandidates {
			break
		}
	}

	r.logger.Debug("retrieved candidates",
		"user_id", profile.Id,
		"keyword", len(byKeyword),
		"vector", len(byVector),
		"merged", len(merged))
	return merged
}

func (r *Retriever) keywordCandidates(ctx context.Context, profile *core.Profile, limit int) []*core.Candidate {
	if len(profile.Keywords) == 0 {
		return nil
	}
	profiles, err := r.store.FindByKeywords(ctx, profile.Keywords, profile.Id, limit)
	if err != nil {
		r.logger.Warn("keyword search failed", "user_id", profile.Id, "err", err)
		return nil
	}
	candidates := make([]*core.Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, &core.Candidate{
			Profile: p,
			Source:  core.CandidateSourceKeyword,
		})
	}
	return candidates
}

func (r *Retriever) vectorCandidates(ctx context.Context, profile *core.Profile, limit int) []*core.Candidate {
	vector, err := r.index.Retrieve(ctx, profile.Id)
	switch {
	case err == nil:
	case errors.Is(err, vectorindex.ErrVectorNotFound):
		vector = r.backfill(ctx, profile)
		if vector == nil {
			return nil
		}
	default:
		r.logger.Warn("vector retrieve failed, degrading to all active profiles",
			"user_id", profile.Id, "err", err)
		return r.degraded(ctx, profile, limit)
	}

	// The member's own point is in the index, so ask for one extra hit
	// and filter it out below.
	hits, err := r.index.Search(ctx, vector, limit+1)
	if err != nil {
		r.logger.Warn("vector search failed, degrading to all active profiles",
			"user_id", profile.Id, "err", err)
		return r.degraded(ctx, profile, limit)
	}

	candidates := make([]*core.Candidate, 0, limit)
	for _, hit := range hits {
		if hit.UserID == profile.Id {
			continue
		}
		p, err := r.store.GetProfile(ctx, hit.UserID)
		if err != nil {
			r.logger.Debug("skipping unresolvable vector hit", "user_id", hit.UserID, "err", err)
			continue
		}
		if !p.Active {
			continue
		}
		candidates = append(candidates, &core.Candidate{
			Profile: p,
			Source:  core.CandidateSourceVector,
			Score:   hit.Score,
		})
		if len(candidates) == limit {
			break
		}
	}
	return candidates
}

// backfill computes and stores the member's missing vector. It returns
// nil when embedding or the index write fails; the next matching request
// retries.
func (r *Retriever) backfill(ctx context.Context, profile *core.Profile) []float32 {
	vector, err := r.embedder.EmbedProfile(ctx, profile.Field, profile.Seeking, profile.Offering)
	if err != nil {
		r.logger.Warn("vector backfill embedding failed", "user_id", profile.Id, "err", err)
		return nil
	}
	if err := r.index.Upsert(ctx, profile.Id, vector); err != nil {
		r.logger.Warn("vector backfill upsert failed", "user_id", profile.Id, "err", err)
		return nil
	}
	r.logger.Info("backfilled missing vector", "user_id", profile.Id)
	return vector
}

func (r *Retriever) degraded(ctx context.Context, profile *core.Profile, limit int) []*core.Candidate {
	profiles, err := r.store.AllActiveProfiles(ctx, profile.Id, limit)
	if err != nil {
		r.logger.Warn("degraded candidate scan failed", "user_id", profile.Id, "err", err)
		return nil
	}
	candidates := make([]*core.Candidate, 0, len(profiles))
	for _, p := range profiles {
		candidates = append(candidates, &core.Candidate{
			Profile: p,
			Source:  core.CandidateSourceVector,
		})
	}
	return candidates
}
