package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

func TestRewordings(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "plain lines",
			raw:      "Which city is the capital?\nName the capital city.",
			expected: []string{"Which city is the capital?", "Name the capital city."},
		},
		{
			name:     "numbered list",
			raw:      "1. First question?\n2. Second question?",
			expected: []string{"First question?", "Second question?"},
		},
		{
			name:     "parenthesised numbers",
			raw:      "1) First?\n2) Second?",
			expected: []string{"First?", "Second?"},
		},
		{
			name:     "bulleted list",
			raw:      "- First?\n* Second?",
			expected: []string{"First?", "Second?"},
		},
		{
			name:     "blank lines and whitespace",
			raw:      "\n  First?  \n\n\nSecond?\n",
			expected: []string{"First?", "Second?"},
		},
		{
			name:     "empty response",
			raw:      "  \n \n",
			expected: nil,
		},
		{
			name:     "question starting with a digit survives",
			raw:      "2001 was which century's start?",
			expected: []string{"2001 was which century's start?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rewordings(tt.raw))
		})
	}
}

func TestQAPairs_PlainArray(t *testing.T) {
	raw := `[{"q": "What is Go?", "a": "A language."}, {"q": "Who made it?", "a": "Google."}]`

	pairs, err := QAPairs(raw)

	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, domain.QAPair{Question: "What is Go?", Answer: "A language."}, pairs[0])
}

func TestQAPairs_WrappedInObject(t *testing.T) {
	raw := `{"pairs": [{"q": "q1", "a": "a1"}]}`

	pairs, err := QAPairs(raw)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "q1", pairs[0].Question)
}

func TestQAPairs_CodeFence(t *testing.T) {
	raw := "```json\n[{\"q\": \"q1\", \"a\": \"a1\"}]\n```"

	pairs, err := QAPairs(raw)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
}

func TestQAPairs_SinglePairObject(t *testing.T) {
	raw := `{"q": "only one", "a": "answer"}`

	pairs, err := QAPairs(raw)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "only one", pairs[0].Question)
}

func TestQAPairs_SkipsIncompletePairs(t *testing.T) {
	raw := `[{"q": "complete", "a": "yes"}, {"q": "no answer", "a": ""}, {"q": "", "a": "no question"}]`

	pairs, err := QAPairs(raw)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "complete", pairs[0].Question)
}

func TestQAPairs_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not json at all", `{"pairs": "not a list"}`, `[]`} {
		_, err := QAPairs(raw)
		assert.Error(t, err, "input: %q", raw)
	}
}
