package driven

import "context"

// TokenProvider provides access tokens for authenticated API calls,
// such as the GitHub importer. Implementations may read a static token
// from configuration or refresh one transparently.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// Returns empty string when no authentication is configured.
	GetToken(ctx context.Context) (string, error)

	// IsAuthenticated returns true if valid authentication is available.
	IsAuthenticated() bool
}

// StaticTokenProvider is a TokenProvider backed by a fixed token string.
type StaticTokenProvider struct {
	Token string
}

// GetToken returns the static token.
func (p StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.Token, nil
}

// IsAuthenticated returns true when a token is present.
func (p StaticTokenProvider) IsAuthenticated() bool {
	return p.Token != ""
}
