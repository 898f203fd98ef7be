package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
)

func entry(variantID, recordID, question string, meta domain.Metadata, embedding ...float32) driven.VectorEntry {
	return driven.VectorEntry{
		VariantID: variantID,
		RecordID:  recordID,
		Question:  question,
		Answer:    "answer for " + recordID,
		Metadata:  meta,
		Embedding: embedding,
	}
}

func TestVectorIndex_UpsertAndGet(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "first", nil, 1, 0)))

	got, err := index.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Question)
	assert.Equal(t, "r1", got.RecordID)
}

func TestVectorIndex_Get_NotFound(t *testing.T) {
	index := NewVectorIndex()

	_, err := index.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVectorIndex_Upsert_Replaces(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "before", nil, 1, 0)))
	e := entry("v1", "r1", "before", nil, 1, 0)
	e.Answer = "updated"
	require.NoError(t, index.Upsert(ctx, e))

	got, err := index.Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Answer)

	count, _ := index.Count(ctx)
	assert.Equal(t, 1, count)
}

func TestVectorIndex_Query_NearestFirst(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "east", nil, 1, 0)))
	require.NoError(t, index.Upsert(ctx, entry("v2", "r2", "north", nil, 0, 1)))
	require.NoError(t, index.Upsert(ctx, entry("v3", "r3", "northeast", nil, 1, 1)))

	hits, err := index.Query(ctx, []float32{1, 0}, 3, nil)

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "v1", hits[0].VariantID) // identical direction
	assert.Equal(t, "v3", hits[1].VariantID) // 45 degrees off
	assert.Equal(t, "v2", hits[2].VariantID) // orthogonal
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	assert.InDelta(t, 1, hits[2].Distance, 1e-6)
}

func TestVectorIndex_Query_LimitsToK(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "a", nil, 1, 0)))
	require.NoError(t, index.Upsert(ctx, entry("v2", "r2", "b", nil, 0, 1)))

	hits, err := index.Query(ctx, []float32{1, 0}, 1, nil)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v1", hits[0].VariantID)
}

func TestVectorIndex_Query_MetadataFilter(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "go q", domain.Metadata{"topic": "go"}, 1, 0)))
	require.NoError(t, index.Upsert(ctx, entry("v2", "r2", "rust q", domain.Metadata{"topic": "rust"}, 1, 0)))

	hits, err := index.Query(ctx, []float32{1, 0}, 10, domain.Metadata{"topic": "go"})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v1", hits[0].VariantID)
}

func TestVectorIndex_Query_Empty(t *testing.T) {
	index := NewVectorIndex()

	hits, err := index.Query(context.Background(), []float32{1, 0}, 5, nil)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestVectorIndex_FindByQuestion_ExactOnly(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "What is Go?", nil, 1, 0)))

	found, err := index.FindByQuestion(ctx, "What is Go?")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	near, err := index.FindByQuestion(ctx, "what is go?")
	require.NoError(t, err)
	assert.Empty(t, near)
}

func TestVectorIndex_ListByRecord(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("r1:0", "r1", "original", nil, 1, 0)))
	require.NoError(t, index.Upsert(ctx, entry("r1:1", "r1", "reworded", nil, 0, 1)))
	require.NoError(t, index.Upsert(ctx, entry("r2:0", "r2", "other", nil, 1, 1)))

	entries, err := index.ListByRecord(ctx, "r1")

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "original", entries[0].Question)
	assert.Equal(t, "reworded", entries[1].Question)
}

func TestVectorIndex_Questions_InsertionOrder(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "first", nil, 1, 0)))
	require.NoError(t, index.Upsert(ctx, entry("v2", "r2", "second", nil, 0, 1)))

	questions, err := index.Questions(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, questions)
}

func TestVectorIndex_List_Filtered(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "a", domain.Metadata{"from_tree": true}, 1, 0)))
	require.NoError(t, index.Upsert(ctx, entry("v2", "r2", "b", nil, 0, 1)))

	all, err := index.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := index.List(ctx, domain.Metadata{"from_tree": true})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "v1", filtered[0].VariantID)
}

func TestVectorIndex_DeleteAndDeleteAll(t *testing.T) {
	index := NewVectorIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, entry("v1", "r1", "a", nil, 1, 0)))
	require.NoError(t, index.Upsert(ctx, entry("v2", "r2", "b", nil, 0, 1)))

	require.NoError(t, index.Delete(ctx, "v1"))
	assert.ErrorIs(t, index.Delete(ctx, "v1"), domain.ErrNotFound)

	questions, _ := index.Questions(ctx)
	assert.Equal(t, []string{"b"}, questions)

	require.NoError(t, index.DeleteAll(ctx))
	count, _ := index.Count(ctx)
	assert.Equal(t, 0, count)
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"scale invariant", []float32{2, 0}, []float32{5, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 1},
		{"dimension mismatch", []float32{1}, []float32{1, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cosineDistance(tt.a, tt.b), 1e-6)
		})
	}
}
