package domain

// Metadata is an arbitrary set of scalar values attached to a QA record.
// It is used only for exact-match filtering, never for similarity scoring.
type Metadata map[string]any

// Clone returns a copy of the metadata with numeric values canonicalised
// to float64. Returns an empty map for nil metadata so callers can attach
// keys safely.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = canonicalValue(v)
	}
	return out
}

// Matches reports whether this metadata satisfies the given filter.
// Every key in the filter must be present with an equal value;
// keys absent from the filter impose no constraint. A nil or empty
// filter matches everything.
func (m Metadata) Matches(filter Metadata) bool {
	for k, want := range filter {
		got, ok := m[k]
		if !ok || canonicalValue(got) != canonicalValue(want) {
			return false
		}
	}
	return true
}

// canonicalValue folds every numeric type to float64, the type all
// numbers come back as after a JSON round-trip through the index.
// Without this an int written by one caller would never match the
// float64 read back from storage.
func canonicalValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// QAPair is a question with its answer, as produced by QA-pair
// generation or supplied directly by a caller.
type QAPair struct {
	// Question is the canonical question text.
	Question string `json:"q"`

	// Answer is the answer text. Empty means unanswered.
	Answer string `json:"a"`
}

// QAResult is a single ranked retrieval hit.
type QAResult struct {
	// RecordID is the logical id shared by all indexed variants of the record.
	RecordID string

	// Question is the variant text that matched the query.
	Question string

	// Answer is the record's current answer.
	Answer string

	// Metadata is the record's metadata, returned verbatim. Records
	// mirrored from the question tree carry the tree bookkeeping keys
	// (MetaTreeID, MetaFromTree), which tree sync relies on.
	Metadata Metadata

	// Similarity is the score in [0, 1]; higher means more semantically
	// relevant. Derived from the index distance via 1 - distance.
	Similarity float64
}

// QueryOptions configures a knowledge base query.
type QueryOptions struct {
	// NResults is the maximum number of results (default 5).
	NResults int

	// MetadataFilter restricts candidates to records whose metadata
	// contains every given key with an equal value. Nil means no filter.
	MetadataFilter Metadata

	// NumRewordings is how many alternative phrasings to generate and
	// query alongside the original question (default 0: no expansion).
	NumRewordings int
}

// DefaultNResults is the result count used when QueryOptions.NResults is zero.
const DefaultNResults = 5
