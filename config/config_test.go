package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Len(t, cfg.Providers, 4)
	assert.Contains(t, cfg.Orderings, "general")
	assert.Contains(t, cfg.EmergencyTemplates, "general")
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	content := `
providers:
  - name: groq
    model: llama3-70b-8192
    priority: 1
    daily_limit: 50
    max_consecutive_failures: 2
    api_key_env: GROQ_API_KEY
component_orderings:
  general: [groq]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "groq", cfg.Providers[0].Name)
	assert.Equal(t, 50, cfg.Providers[0].DailyLimit)
	assert.Equal(t, []string{"groq"}, cfg.Orderings["general"])

	// Sections absent from the file keep their defaults.
	assert.Contains(t, cfg.EmergencyTemplates, "general")
	assert.Equal(t, 500, cfg.MinContentLengths["mental_drivers"])
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers: [not: valid: yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsDuplicateProviders(t *testing.T) {
	content := `
providers:
  - name: groq
    model: a
    priority: 1
    daily_limit: 10
    max_consecutive_failures: 2
  - name: groq
    model: b
    priority: 2
    daily_limit: 10
    max_consecutive_failures: 2
component_orderings:
  general: [groq]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate provider")
}

func TestLoad_RequiresGeneralOrdering(t *testing.T) {
	content := `
providers:
  - name: groq
    model: a
    priority: 1
    daily_limit: 10
    max_consecutive_failures: 2
component_orderings:
  visual_proofs: [groq]
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "general")
}

func TestAPIKey_ReadsEnvironment(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "secret-value")

	provider := ProviderConfig{Name: "test", APIKeyEnv: "TEST_PROVIDER_KEY"}
	assert.Equal(t, "secret-value", provider.APIKey())

	unset := ProviderConfig{Name: "test", APIKeyEnv: "TEST_PROVIDER_KEY_UNSET"}
	assert.Equal(t, "", unset.APIKey())
}

func TestDefault_ProviderPriorities(t *testing.T) {
	cfg := Default()

	byName := map[string]ProviderConfig{}
	for _, provider := range cfg.Providers {
		byName[provider.Name] = provider
	}

	assert.Equal(t, 1, byName["gemini"].Priority)
	assert.Equal(t, 2, byName["openai"].Priority)
	assert.Equal(t, 3, byName["groq"].Priority)
	assert.Equal(t, 4, byName["huggingface"].Priority)
	assert.Equal(t, 3, byName["groq"].MaxConsecutiveFails)
}
