// Package memory provides in-memory implementations of the storage
// driven ports. Used in tests and as a throwaway backend when no
// database path is configured.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex
// using brute-force cosine distance.
type VectorIndex struct {
	mu      sync.RWMutex
	entries map[string]driven.VectorEntry
	order   []string
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{entries: make(map[string]driven.VectorEntry)}
}

// Upsert inserts or replaces an entry keyed by VariantID.
func (s *VectorIndex) Upsert(_ context.Context, entry driven.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.VariantID]; !exists {
		s.order = append(s.order, entry.VariantID)
	}
	s.entries[entry.VariantID] = entry
	return nil
}

// Query scans every entry and returns the k nearest by cosine distance.
func (s *VectorIndex) Query(_ context.Context, embedding []float32, k int, filter domain.Metadata) ([]driven.VectorHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.VectorHit, 0)
	for _, id := range s.order {
		entry := s.entries[id]
		if !entry.Metadata.Matches(filter) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			VariantID: entry.VariantID,
			RecordID:  entry.RecordID,
			Question:  entry.Question,
			Answer:    entry.Answer,
			Metadata:  entry.Metadata,
			Distance:  cosineDistance(embedding, entry.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Get fetches a single entry by variant id.
func (s *VectorIndex) Get(_ context.Context, variantID string) (*driven.VectorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[variantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// FindByQuestion returns every entry whose question text matches exactly.
func (s *VectorIndex) FindByQuestion(_ context.Context, question string) ([]driven.VectorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []driven.VectorEntry
	for _, id := range s.order {
		if s.entries[id].Question == question {
			result = append(result, s.entries[id])
		}
	}
	return result, nil
}

// ListByRecord returns every variant entry sharing the record id.
func (s *VectorIndex) ListByRecord(_ context.Context, recordID string) ([]driven.VectorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []driven.VectorEntry
	for _, id := range s.order {
		if s.entries[id].RecordID == recordID {
			result = append(result, s.entries[id])
		}
	}
	return result, nil
}

// Questions returns every entry's question text in insertion order.
func (s *VectorIndex) Questions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]string, 0, len(s.order))
	for _, id := range s.order {
		questions = append(questions, s.entries[id].Question)
	}
	return questions, nil
}

// List returns every entry matching the filter in insertion order.
func (s *VectorIndex) List(_ context.Context, filter domain.Metadata) ([]driven.VectorEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]driven.VectorEntry, 0)
	for _, id := range s.order {
		if s.entries[id].Metadata.Matches(filter) {
			result = append(result, s.entries[id])
		}
	}
	return result, nil
}

// Delete removes a single entry.
func (s *VectorIndex) Delete(_ context.Context, variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[variantID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, variantID)
	for i, id := range s.order {
		if id == variantID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteAll removes every entry.
func (s *VectorIndex) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]driven.VectorEntry)
	s.order = nil
	return nil
}

// Count returns the number of entries.
func (s *VectorIndex) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close is a no-op for the in-memory index.
func (s *VectorIndex) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity. Mismatched or zero
// vectors get the maximum distance so they never rank above real matches.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
