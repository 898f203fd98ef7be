package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// parseMetaFlags converts repeated "key=value" flags into metadata.
// Values that parse as integers or booleans are stored typed so they
// filter correctly against metadata written by other commands.
func parseMetaFlags(pairs []string) (domain.Metadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	meta := make(domain.Metadata, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid metadata %q: expected key=value", pair)
		}

		if n, err := strconv.Atoi(value); err == nil {
			meta[key] = n
		} else if b, err := strconv.ParseBool(value); err == nil {
			meta[key] = b
		} else {
			meta[key] = value
		}
	}
	return meta, nil
}

// formatMeta renders metadata as "key=value, ..." with sorted keys.
func formatMeta(meta domain.Metadata) string {
	if len(meta) == 0 {
		return ""
	}

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, meta[k]))
	}
	return strings.Join(parts, ", ")
}
