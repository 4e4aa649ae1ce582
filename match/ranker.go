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
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/commatch/ai"
	"github.com/poiesic/commatch/core"
)

const (
	// DefaultTopK bounds how many matches a ranking produces.
	DefaultTopK = 5

	// DefaultOracleTimeout bounds a single ranking or summary call.
	DefaultOracleTimeout = 30 * time.Second

	rankingTemperature = 0.7
	rankingMaxTokens   = 700
	summaryMaxTokens   = 300

	// fallbackScore is the neutral score assigned when the model did not
	// rank the candidates.
	fallbackScore = 5

	fallbackReason  = "This member's profile overlaps with yours."
	fallbackSummary = "Here are members whose profiles overlap with yours. " +
		"Reach out to anyone who looks interesting."
)

// rankedMatch is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type rankedMatch struct {
	CandidateIndex int     `json:"candidate_index"`
	MatchScore     float64 `json:"match_score"`
	Reason         string  `json:"reason"`
}

// ranking is the wrapper structure for the LLM's JSON response.
type ranking struct {
	Matches []rankedMatch `json:"matches"`
}

// Ranker orders retrieved candidates using an LLM oracle, degrading to a
// deterministic order when the oracle fails.
type Ranker struct {
	oracle  ai.Oracle
	timeout time.Duration
	logger  *slog.Logger
}

func NewRanker(oracle ai.Oracle, timeout time.Duration) *Ranker {
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	return &Ranker{
		oracle:  oracle,
		timeout: timeout,
		logger:  slog.Default().With("component", "match-ranker"),
	}
}

// Rank scores the candidates against the member's profile and returns at
// most topK matches in the model's preferred order. It never returns an
// error: when the oracle call fails, the response cannot be parsed, or no
// returned index is usable, the first min(topK, len(candidates)) candidates
// are returned with a neutral score.
func (r *Ranker) Rank(ctx context.Context, profile *core.Profile, candidates []*core.Candidate, topK int) []core.Match {
	if len(candidates) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := ai.CompletionRequest{
		System:      buildRankingSystemPrompt(topK),
		User:        buildRankingUserPrompt(profile, candidates),
		Temperature: rankingTemperature,
		MaxTokens:   rankingMaxTokens,
		JSONOnly:    true,
	}

	// Try up to 3 times in case of malformed JSON
	var result ranking
	parsed := false
	for attempt := 0; attempt < 3; attempt++ {
		response, err := r.oracle.Complete(ctx, req)
		if err != nil {
			r.logger.Error("ranking call failed", "attempt", attempt+1, "err", err)
			break
		}

		responseText := stripCodeFences(response)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			r.logger.Warn("error parsing ranking response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		parsed = true
		break
	}

	if !parsed {
		return r.fallback(candidates, topK)
	}

	matches := make([]core.Match, 0, topK)
	for _, m := range result.Matches {
		if m.CandidateIndex < 1 || m.CandidateIndex > len(candidates) {
			r.logger.Warn("dropping out-of-range candidate index", "index", m.CandidateIndex)
			continue
		}
		matches = append(matches, core.Match{
			Profile: candidates[m.CandidateIndex-1].Profile,
			Score:   m.MatchScore,
			Reason:  m.Reason,
		})
		if len(matches) == topK {
			break
		}
	}
	if len(matches) == 0 {
		return r.fallback(candidates, topK)
	}
	return matches
}

// Summarize produces a short presentation summary of the matches. Any
// oracle failure yields a fixed generic sentence; the matches themselves
// are never affected.
func (r *Ranker) Summarize(ctx context.Context, profile *core.Profile, matches []core.Match) string {
	if len(matches) == 0 {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	response, err := r.oracle.Complete(ctx, ai.CompletionRequest{
		System:      summaryPromptTemplate,
		User:        buildSummaryUserPrompt(profile, matches),
		Temperature: rankingTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err != nil {
		r.logger.Warn("summary call failed", "err", err)
		return fallbackSummary
	}
	summary := strings.TrimSpace(response)
	if summary == "" {
		return fallbackSummary
	}
	return summary
}

func (r *Ranker) fallback(candidates []*core.Candidate, topK int) []core.Match {
	n := len(candidates)
	if n > topK {
		n = topK
	}
	matches := make([]core.Match, 0, n)
	for _, c := range candidates[:n] {
		matches = append(matches, core.Match{
			Profile: c.Profile,
			Score:   fallbackScore,
			Reason:  fallbackReason,
		})
	}
	r.logger.Info("using deterministic fallback ranking", "candidates", len(candidates), "returned", n)
	return matches
}

// stripCodeFences removes markdown code fences some models wrap around
// JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
