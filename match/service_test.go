package match

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/commatch/ai"
	"github.com/poiesic/commatch/ai/mock"
	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/storage"
	"github.com/poiesic/commatch/vectorindex"
)

func newTestMatcher(t *testing.T, store *fakeStore, index vectorindex.Index, oracle *mock.MockOracle, opts ...MatcherOption) *Matcher {
	t.Helper()
	retriever := newTestRetriever(t, store, index)
	ranker := NewRanker(oracle, 0)
	return NewMatcher(store, retriever, ranker, opts...)
}

func TestMatcher_FindMatches(t *testing.T) {
	requester := memberProfile(1, "финтех стартап", "ищу инвестора", "опыт продукта", "стартап")
	candidate := memberProfile(2, "венчурный стартап", "основатели", "инвестиции")

	store := newFakeStore(requester, candidate)
	index := vectorindex.NewMemoryIndex()
	oracle := mock.NewMockOracle()
	oracle.CompleteFunc = func(_ context.Context, req ai.CompletionRequest) (string, error) {
		if req.JSONOnly {
			return `{"matches":[{"candidate_index":1,"match_score":8,"reason":"инвестор для вас"}]}`, nil
		}
		return "Мы нашли вам инвестора.", nil
	}

	m := newTestMatcher(t, store, index, oracle)
	result, err := m.FindMatches(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.EqualValues(t, 2, result.Matches[0].Profile.Id)
	assert.Equal(t, 8.0, result.Matches[0].Score)
	assert.Equal(t, "Мы нашли вам инвестора.", result.Summary)
}

func TestMatcher_MissingProfile(t *testing.T) {
	m := newTestMatcher(t, newFakeStore(), vectorindex.NewMemoryIndex(), mock.NewMockOracle())

	_, err := m.FindMatches(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMatcher_InvalidUserID(t *testing.T) {
	m := newTestMatcher(t, newFakeStore(), vectorindex.NewMemoryIndex(), mock.NewMockOracle())

	_, err := m.FindMatches(context.Background(), 0)
	assert.ErrorIs(t, err, core.ErrInvalidUserID)
}

func TestMatcher_NoCandidates(t *testing.T) {
	requester := memberProfile(1, "туризм", "гиды", "маршруты")
	store := newFakeStore(requester)
	index := vectorindex.NewMemoryIndex()
	oracle := mock.NewMockOracle()

	m := newTestMatcher(t, store, index, oracle)
	result, err := m.FindMatches(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, result.Matches)
	assert.Empty(t, result.Summary)
	assert.Zero(t, oracle.CallCount())
}

func TestMatcher_DuplicateRequestDropped(t *testing.T) {
	requester := memberProfile(1, "финтех", "инвестор", "продукт", "финтех")
	candidate := memberProfile(2, "финтех и банки", "партнёры", "капитал")

	store := newFakeStore(requester, candidate)
	index := vectorindex.NewMemoryIndex()

	started := make(chan struct{})
	release := make(chan struct{})
	oracle := mock.NewMockOracle()
	var once sync.Once
	oracle.CompleteFunc = func(_ context.Context, req ai.CompletionRequest) (string, error) {
		once.Do(func() {
			close(started)
			<-release
		})
		return `{"matches":[]}`, nil
	}

	m := newTestMatcher(t, store, index, oracle)

	var firstErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, firstErr = m.FindMatches(context.Background(), 1)
	}()

	<-started
	_, err := m.FindMatches(context.Background(), 1)
	assert.ErrorIs(t, err, core.ErrRequestInFlight)

	close(release)
	<-done
	require.NoError(t, firstErr)

	// The guard is released after completion.
	result, err := m.FindMatches(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestMatcher_LimitsOption(t *testing.T) {
	requester := memberProfile(1, "ретейл", "поставщики", "сеть", "ретейл")
	profiles := []*core.Profile{requester}
	for i := 2; i <= 6; i++ {
		profiles = append(profiles, memberProfile(core.UserID(i), "ретейл и склад", "сбыт", "логистика"))
	}

	store := newFakeStore(profiles...)
	oracle := mock.NewMockOracle()
	oracle.CompleteFunc = func(_ context.Context, req ai.CompletionRequest) (string, error) {
		if req.JSONOnly {
			return "not json", nil
		}
		return "summary", nil
	}

	m := newTestMatcher(t, store, vectorindex.NewMemoryIndex(), oracle, WithLimits(0, 0, 2))
	result, err := m.FindMatches(context.Background(), 1)

	require.NoError(t, err)
	// The unparseable ranking falls back deterministically, bounded by topK.
	assert.Len(t, result.Matches, 2)
}
