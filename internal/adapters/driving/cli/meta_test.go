package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

func TestParseMetaFlags(t *testing.T) {
	meta, err := parseMetaFlags([]string{"topic=geography", "issue=42", "from_tree=true"})

	require.NoError(t, err)
	assert.Equal(t, "geography", meta["topic"])
	assert.Equal(t, 42, meta["issue"])
	assert.Equal(t, true, meta["from_tree"])
}

func TestParseMetaFlags_Empty(t *testing.T) {
	meta, err := parseMetaFlags(nil)

	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestParseMetaFlags_Invalid(t *testing.T) {
	_, err := parseMetaFlags([]string{"no-separator"})
	assert.Error(t, err)

	_, err = parseMetaFlags([]string{"=value"})
	assert.Error(t, err)
}

func TestParseMetaFlags_ValueWithEquals(t *testing.T) {
	meta, err := parseMetaFlags([]string{"url=https://example.com/?q=1"})

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?q=1", meta["url"])
}

func TestFormatMeta_SortedAndEmpty(t *testing.T) {
	assert.Empty(t, formatMeta(nil))
	assert.Empty(t, formatMeta(domain.Metadata{}))

	out := formatMeta(domain.Metadata{"b": 2, "a": "x"})
	assert.Equal(t, "a=x, b=2", out)
}
