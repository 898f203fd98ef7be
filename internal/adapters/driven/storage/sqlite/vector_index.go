package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
)

// vectorIndex implements driven.VectorIndex.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Upsert inserts or replaces an entry keyed by variant id.
func (s *vectorIndex) Upsert(ctx context.Context, entry driven.VectorEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO qa_entries (variant_id, record_id, question, answer, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(variant_id) DO UPDATE SET
			record_id = excluded.record_id,
			question = excluded.question,
			answer = excluded.answer,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`, entry.VariantID, entry.RecordID, entry.Question, entry.Answer,
		string(metadataJSON), float32SliceToBytes(entry.Embedding))

	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	return nil
}

// Query scans every entry and returns the k nearest by cosine distance.
// Metadata filtering happens in Go: the filter matches arbitrary JSON
// keys, which SQLite cannot index generically.
func (s *vectorIndex) Query(ctx context.Context, embedding []float32, k int, filter domain.Metadata) ([]driven.VectorHit, error) {
	entries, err := s.scan(ctx, "", nil)
	if err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0)
	for _, entry := range entries {
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
func (s *vectorIndex) Get(ctx context.Context, variantID string) (*driven.VectorEntry, error) {
	entries, err := s.scan(ctx, "variant_id = ?", []any{variantID})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}
	return &entries[0], nil
}

// FindByQuestion returns every entry whose question text matches exactly.
func (s *vectorIndex) FindByQuestion(ctx context.Context, question string) ([]driven.VectorEntry, error) {
	return s.scan(ctx, "question = ?", []any{question})
}

// ListByRecord returns every variant entry sharing the record id.
func (s *vectorIndex) ListByRecord(ctx context.Context, recordID string) ([]driven.VectorEntry, error) {
	return s.scan(ctx, "record_id = ?", []any{recordID})
}

// Questions returns every entry's question text in insertion order.
func (s *vectorIndex) Questions(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT question FROM qa_entries ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	questions := make([]string, 0)
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}
	return questions, nil
}

// List returns every entry matching the filter in insertion order.
func (s *vectorIndex) List(ctx context.Context, filter domain.Metadata) ([]driven.VectorEntry, error) {
	entries, err := s.scan(ctx, "", nil)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return entries, nil
	}

	filtered := make([]driven.VectorEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Metadata.Matches(filter) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// Delete removes a single entry.
func (s *vectorIndex) Delete(ctx context.Context, variantID string) error {
	result, err := s.store.db.ExecContext(ctx, "DELETE FROM qa_entries WHERE variant_id = ?", variantID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll removes every entry.
func (s *vectorIndex) DeleteAll(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM qa_entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	return nil
}

// Count returns the number of entries.
func (s *vectorIndex) Count(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM qa_entries")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

// Close is a no-op; the underlying connection is owned by the Store.
func (s *vectorIndex) Close() error {
	return nil
}

// scan loads entries matching the optional WHERE clause, in insertion
// (rowid) order.
func (s *vectorIndex) scan(ctx context.Context, where string, args []any) ([]driven.VectorEntry, error) {
	query := "SELECT variant_id, record_id, question, answer, metadata, embedding FROM qa_entries"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY rowid"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := make([]driven.VectorEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (*driven.VectorEntry, error) {
	var entry driven.VectorEntry
	var metadataJSON string
	var embeddingBlob []byte
	if err := rows.Scan(&entry.VariantID, &entry.RecordID, &entry.Question,
		&entry.Answer, &metadataJSON, &embeddingBlob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	entry.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &entry, nil
}
