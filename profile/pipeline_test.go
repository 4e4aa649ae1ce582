package profile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/commatch/ai/mock"
	"github.com/poiesic/commatch/core"
	"github.com/poiesic/commatch/embedding"
	"github.com/poiesic/commatch/storage"
	badgerstore "github.com/poiesic/commatch/storage/badger"
	"github.com/poiesic/commatch/vectorindex"
)

type testPipeline struct {
	pipeline *Pipeline
	store    storage.ProfileRepository
	index    *vectorindex.MemoryIndex
	embedder *mock.MockEmbedder
}

func newTestPipeline(t *testing.T) *testPipeline {
	t.Helper()

	store, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	mockEmbedder := mock.NewMockEmbedder()
	profileEmbedder, err := embedding.NewProfileEmbedder(mockEmbedder, nil)
	require.NoError(t, err)

	index := vectorindex.NewMemoryIndex()
	pipeline, err := NewPipeline(store, index, profileEmbedder)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return &testPipeline{
		pipeline: pipeline,
		store:    store,
		index:    index,
		embedder: mockEmbedder,
	}
}

func testInput(id core.UserID) Input {
	return Input{
		UserID:    id,
		Username:  fmt.Sprintf("user%d", id),
		FirstName: "Анна",
		Field:     "Разработка мобильных приложений для финтеха",
		Seeking:   "Ищу сооснователя с опытом продаж",
		Offering:  "Могу помочь с архитектурой и код-ревью",
	}
}

func TestPipeline_SaveProfile(t *testing.T) {
	tp := newTestPipeline(t)
	ctx := context.Background()

	stored, err := tp.pipeline.SaveProfile(ctx, testInput(1))
	require.NoError(t, err)

	assert.EqualValues(t, 1, stored.Id)
	assert.True(t, stored.Active)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.False(t, stored.UpdatedAt.IsZero())
	assert.NotEmpty(t, stored.Keywords)

	// The vector was written to the index.
	vector, err := tp.index.Retrieve(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, vector)

	// And the profile is findable.
	got, err := tp.store.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, stored.Field, got.Field)
}

func TestPipeline_SaveProfileValidatesAnswers(t *testing.T) {
	tp := newTestPipeline(t)
	ctx := context.Background()

	input := testInput(1)
	input.Seeking = "коротко"
	_, err := tp.pipeline.SaveProfile(ctx, input)
	assert.ErrorIs(t, err, core.ErrAnswerTooShort)

	// Nothing was stored.
	_, err = tp.store.GetProfile(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPipeline_SaveProfileInvalidUserID(t *testing.T) {
	tp := newTestPipeline(t)

	input := testInput(1)
	input.UserID = 0
	_, err := tp.pipeline.SaveProfile(context.Background(), input)
	assert.ErrorIs(t, err, core.ErrInvalidUserID)
}

func TestPipeline_ResaveArchivesPreviousVersion(t *testing.T) {
	tp := newTestPipeline(t)
	ctx := context.Background()

	first, err := tp.pipeline.SaveProfile(ctx, testInput(1))
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	updated := testInput(1)
	updated.Field = "Веду образовательные курсы по машинному обучению"
	second, err := tp.pipeline.SaveProfile(ctx, updated)
	require.NoError(t, err)

	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	history, err := tp.store.ProfileHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, first.Field, history[0].Field)
}

func TestPipeline_VectorWriteFailureIsAccepted(t *testing.T) {
	tp := newTestPipeline(t)
	tp.index.FailWith = vectorindex.ErrIndexUnavailable
	ctx := context.Background()

	stored, err := tp.pipeline.SaveProfile(ctx, testInput(1))
	require.NoError(t, err)
	assert.NotNil(t, stored)

	got, err := tp.store.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Id)
}

func TestPipeline_EmbeddingFailurePropagates(t *testing.T) {
	tp := newTestPipeline(t)
	tp.embedder.EmbedTextsFunc = func(_ context.Context, _ []string) ([][]float32, error) {
		return nil, fmt.Errorf("model not loaded")
	}
	ctx := context.Background()

	_, err := tp.pipeline.SaveProfile(ctx, testInput(1))
	assert.ErrorIs(t, err, embedding.ErrEmbeddingUnavailable)

	// The lexical profile was stored before the embedding step.
	got, err := tp.store.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Id)
}

func TestPipeline_SaveProfilesCollectsErrors(t *testing.T) {
	tp := newTestPipeline(t)
	ctx := context.Background()

	bad := testInput(3)
	bad.Offering = "мало"
	inputs := []Input{testInput(1), testInput(2), bad}

	stored, err := tp.pipeline.SaveProfiles(ctx, inputs)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAnswerTooShort)

	require.Len(t, stored, 3)
	assert.NotNil(t, stored[0])
	assert.NotNil(t, stored[1])
	assert.Nil(t, stored[2])
}

func TestPipeline_DeleteUser(t *testing.T) {
	tp := newTestPipeline(t)
	ctx := context.Background()

	_, err := tp.pipeline.SaveProfile(ctx, testInput(1))
	require.NoError(t, err)

	require.NoError(t, tp.pipeline.DeleteUser(ctx, 1))

	_, err = tp.store.GetProfile(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = tp.index.Retrieve(ctx, 1)
	assert.ErrorIs(t, err, vectorindex.ErrVectorNotFound)
}

func TestPipeline_DeleteUserNotFound(t *testing.T) {
	tp := newTestPipeline(t)

	err := tp.pipeline.DeleteUser(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestNewPipeline_RequiresDependencies(t *testing.T) {
	store, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder, err := embedding.NewProfileEmbedder(mock.NewMockEmbedder(), nil)
	require.NoError(t, err)
	index := vectorindex.NewMemoryIndex()

	_, err = NewPipeline(nil, index, embedder)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(store, nil, embedder)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewPipeline(store, index, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}
