package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// --- Mock implementations ---

type mockConfigStore struct {
	data    map[string]any
	setErr  error
	saveErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if s, ok := m.data[key].(string); ok {
		return s
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	if b, ok := m.data[key].(bool); ok {
		return b
	}
	return false
}

func (m *mockConfigStore) GetFloat64(key string) float64 {
	switch v := m.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if s, ok := m.data[key].([]string); ok {
		return s
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return m.saveErr }
func (m *mockConfigStore) Load() error { return nil }
func (m *mockConfigStore) Path() string {
	return "/tmp/test-config.toml"
}

type mockAIValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockAIValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error { return m.embedErr }
func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error             { return m.llmErr }

// --- Tests ---

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "qa_kb", settings.KB.Collection)
	assert.Equal(t, 0.0, settings.KB.RelevanceFloor)
	assert.Equal(t, 0, settings.KB.DefaultRewordings)
	assert.False(t, settings.Embedding.IsConfigured())
	assert.False(t, settings.LLM.IsConfigured())
}

func TestSettingsService_Get_ReadsStoredValues(t *testing.T) {
	store := newMockConfigStore()
	store.data["kb.collection"] = "team_kb"
	store.data["kb.relevance_floor"] = 0.35
	store.data["kb.default_rewordings"] = 3
	store.data["embedding.provider"] = "ollama"
	store.data["embedding.model"] = "nomic-embed-text"
	store.data["embedding.base_url"] = "http://localhost:11434"

	svc := NewSettingsService(store, nil)
	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "team_kb", settings.KB.Collection)
	assert.Equal(t, 0.35, settings.KB.RelevanceFloor)
	assert.Equal(t, 3, settings.KB.DefaultRewordings)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.True(t, settings.Embedding.IsConfigured())
}

func TestSettingsService_Get_IgnoresInvalidProvider(t *testing.T) {
	store := newMockConfigStore()
	store.data["embedding.provider"] = "not-a-provider"

	svc := NewSettingsService(store, nil)
	settings, err := svc.Get()

	require.NoError(t, err)
	assert.False(t, settings.Embedding.Provider.IsValid())
}

func TestSettingsService_SaveRoundTrips(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	in := svc.GetDefaults()
	in.KB.Collection = "custom"
	in.KB.RelevanceFloor = 0.5
	in.Embedding.Provider = domain.AIProviderOpenAI
	in.Embedding.Model = "text-embedding-3-small"
	in.Embedding.APIKey = "sk-test"

	require.NoError(t, svc.Save(&in))

	out, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "custom", out.KB.Collection)
	assert.Equal(t, 0.5, out.KB.RelevanceFloor)
	assert.Equal(t, domain.AIProviderOpenAI, out.Embedding.Provider)
	assert.Equal(t, "sk-test", out.Embedding.APIKey)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	err := svc.SetEmbeddingProvider(domain.AIProviderOllama, "", "")

	require.NoError(t, err)
	settings, _ := svc.Get()
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model) // Default model
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_RequiresAPIKey(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	err := svc.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSettingsService_SetEmbeddingProvider_RejectsLLMOnly(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	err := svc.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "key")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
}

func TestSettingsService_SetEmbeddingProvider_InvalidProvider(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	err := svc.SetEmbeddingProvider(domain.AIProvider("bogus"), "", "")

	assert.Error(t, err)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	err := svc.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-ant-test")

	require.NoError(t, err)
	settings, _ := svc.Get()
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model) // Default model
	assert.Empty(t, settings.LLM.BaseURL)                           // Cloud provider
}

func TestSettingsService_SetLLMProvider_CustomModel(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	err := svc.SetLLMProvider(domain.AIProviderOllama, "mistral", "")

	require.NoError(t, err)
	settings, _ := svc.Get()
	assert.Equal(t, "mistral", settings.LLM.Model)
}

func TestSettingsService_SetRelevanceFloor(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	require.NoError(t, svc.SetRelevanceFloor(0.4))

	settings, _ := svc.Get()
	assert.Equal(t, 0.4, settings.KB.RelevanceFloor)
}

func TestSettingsService_SetRelevanceFloor_RejectsOutOfRange(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	assert.Error(t, svc.SetRelevanceFloor(-0.1))
	assert.Error(t, svc.SetRelevanceFloor(1.1))
}

func TestSettingsService_SetDefaultRewordings(t *testing.T) {
	store := newMockConfigStore()
	svc := NewSettingsService(store, nil)

	require.NoError(t, svc.SetDefaultRewordings(4))

	settings, _ := svc.Get()
	assert.Equal(t, 4, settings.KB.DefaultRewordings)

	assert.Error(t, svc.SetDefaultRewordings(-1))
}

func TestSettingsService_Validate_RequiresEmbedding(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	err := svc.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "embedding provider is not configured")
}

func TestSettingsService_Validate_OKWithEmbedding(t *testing.T) {
	store := newMockConfigStore()
	store.data["embedding.provider"] = "ollama"
	svc := NewSettingsService(store, nil)

	assert.NoError(t, svc.Validate())
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	store := newMockConfigStore()
	validator := &mockAIValidator{embedErr: errors.New("ping failed")}
	svc := NewSettingsService(store, validator)

	err := svc.ValidateEmbeddingConfig()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ping failed")
}

func TestSettingsService_ValidateLLMConfig_NilValidator(t *testing.T) {
	svc := NewSettingsService(newMockConfigStore(), nil)

	assert.NoError(t, svc.ValidateLLMConfig())
	assert.NoError(t, svc.ValidateEmbeddingConfig())
}

func TestSettingsService_SaveError(t *testing.T) {
	store := newMockConfigStore()
	store.setErr = errors.New("disk full")
	svc := NewSettingsService(store, nil)

	in := svc.GetDefaults()
	err := svc.Save(&in)

	assert.Error(t, err)
}
