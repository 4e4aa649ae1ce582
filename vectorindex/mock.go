package vectorindex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/poiesic/commatch/core"
)

// MemoryIndex is an in-memory Index backed by a map. It is used in tests
// and when the system runs without an external vector database.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	vectors   map[core.UserID][]float32

	// FailWith, when set, makes every call return that error. Tests use
	// it to simulate an unreachable index.
	FailWith error
}

var _ Index = (*MemoryIndex)(nil)

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{vectors: make(map[core.UserID][]float32)}
}

func (m *MemoryIndex) Init(_ context.Context, dimension int) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimension = dimension
	return nil
}

func (m *MemoryIndex) Upsert(_ context.Context, userID core.UserID, vector []float32) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dimension > 0 && len(vector) != m.dimension {
		return fmt.Errorf("dimension mismatch: got %d, want %d", len(vector), m.dimension)
	}
	stored := make([]float32, len(vector))
	copy(stored, vector)
	m.vectors[userID] = stored
	return nil
}

func (m *MemoryIndex) Retrieve(_ context.Context, userID core.UserID) ([]float32, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	vector, ok := m.vectors[userID]
	if !ok {
		return nil, ErrVectorNotFound
	}
	out := make([]float32, len(vector))
	copy(out, vector)
	return out, nil
}

func (m *MemoryIndex) Search(_ context.Context, vector []float32, limit int) ([]Hit, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if limit <= 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	hits := make([]Hit, 0, len(m.vectors))
	for id, stored := range m.vectors {
		if len(stored) != len(vector) {
			continue
		}
		hits = append(hits, Hit{UserID: id, Score: cosine(vector, stored)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].UserID < hits[j].UserID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (m *MemoryIndex) Delete(_ context.Context, userID core.UserID) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vectors, userID)
	return nil
}

func cosine(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
