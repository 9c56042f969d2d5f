// Package config loads orchestrator configuration: provider definitions,
// per-component provider orderings, validation thresholds, and emergency
// template text. Credentials are never stored in config files; each provider
// names the environment variable its API key lives in, and Load pulls a .env
// file into the environment first when one is present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ProviderConfig describes one generation backend.
type ProviderConfig struct {
	Name                string `yaml:"name"`
	Model               string `yaml:"model"`
	Priority            int    `yaml:"priority"`
	DailyLimit          int    `yaml:"daily_limit"`
	MaxConsecutiveFails int    `yaml:"max_consecutive_failures"`
	APIKeyEnv           string `yaml:"api_key_env"`
}

// Config is the full orchestrator configuration.
type Config struct {
	Providers          []ProviderConfig    `yaml:"providers"`
	Orderings          map[string][]string `yaml:"component_orderings"`
	MinContentLengths  map[string]int      `yaml:"min_content_lengths"`
	EmergencyTemplates map[string]string   `yaml:"emergency_templates"`
}

// Load reads configuration from a YAML file, after loading a .env file into
// the environment if one exists. A missing config file is not an error: the
// built-in defaults are returned instead.
func Load(path string) (*Config, error) {
	// Best effort: a missing .env just means credentials come from the
	// real environment.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// APIKey resolves the provider's API key from the environment. Empty when the
// variable is unset, which callers treat as "provider not configured".
func (p ProviderConfig) APIKey() string {
	return os.Getenv(p.APIKeyEnv)
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Providers))
	for _, provider := range c.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider with empty name")
		}
		if _, dup := seen[provider.Name]; dup {
			return fmt.Errorf("duplicate provider name %q", provider.Name)
		}
		seen[provider.Name] = struct{}{}

		if provider.DailyLimit <= 0 {
			return fmt.Errorf("provider %q has non-positive daily limit", provider.Name)
		}
		if provider.MaxConsecutiveFails <= 0 {
			return fmt.Errorf("provider %q has non-positive failure threshold", provider.Name)
		}
	}

	if _, ok := c.Orderings["general"]; !ok {
		return fmt.Errorf("component_orderings must contain a %q entry", "general")
	}

	return nil
}

// Default returns the built-in configuration: four providers, the component
// orderings and thresholds used by the report modules, and the emergency
// templates.
func Default() *Config {
	return &Config{
		Providers: []ProviderConfig{
			{Name: "gemini", Model: "gemini-2.0-flash-exp", Priority: 1, DailyLimit: 1500, MaxConsecutiveFails: 5, APIKeyEnv: "GEMINI_API_KEY"},
			{Name: "openai", Model: "gpt-4o-mini", Priority: 2, DailyLimit: 10000, MaxConsecutiveFails: 5, APIKeyEnv: "OPENAI_API_KEY"},
			{Name: "groq", Model: "llama3-70b-8192", Priority: 3, DailyLimit: 500, MaxConsecutiveFails: 3, APIKeyEnv: "GROQ_API_KEY"},
			{Name: "huggingface", Model: "HuggingFaceH4/zephyr-7b-beta", Priority: 4, DailyLimit: 200, MaxConsecutiveFails: 5, APIKeyEnv: "HUGGINGFACE_API_KEY"},
		},
		Orderings: map[string][]string{
			"mental_drivers": {"openai", "groq", "gemini", "huggingface"},
			"visual_proofs":  {"gemini", "openai", "groq", "huggingface"},
			"anti_objection": {"openai", "groq", "gemini", "huggingface"},
			"general":        {"openai", "groq", "gemini", "huggingface"},
		},
		// The report modules the analysis pipeline generates. Types without
		// their own ordering use the "general" one.
		MinContentLengths: map[string]int{
			"avatars":            200,
			"mental_drivers":     500,
			"anti_objection":     400,
			"visual_proofs":      300,
			"pre_pitch":          200,
			"future_predictions": 200,
			"positioning":        200,
			"competition":        200,
			"keywords":           200,
			"sales_funnel":       200,
			"insights":           200,
			"action_plan":        200,
			"general":            200,
		},
		EmergencyTemplates: defaultEmergencyTemplates(),
	}
}

func defaultEmergencyTemplates() map[string]string {
	return map[string]string{
		"mental_drivers": `MENTAL DRIVERS FOR: {segment}

1. DRIVER OF NECESSARY TRANSFORMATION
- Trigger: frustration with current results
- Mechanic: contrast between current state and potential
- Activation: "You have tried everything, but something crucial is still missing..."

2. DRIVER OF THE MISSED OPPORTUNITY
- Trigger: fear of falling behind
- Mechanic: competitive urgency
- Activation: "While you hesitate, your competitors move ahead..."

3. DRIVER OF RECOGNIZED AUTHORITY
- Trigger: desire for respect
- Mechanic: social validation
- Activation: "Imagine being the reference in {segment}..."`,

		"visual_proofs": `VISUAL PROOF 1: DRAMATIC TRANSFORMATION
- Concept: before vs after in {segment}
- Execution: clear visual comparison of results
- Materials: charts, data, metrics

VISUAL PROOF 2: METHOD REVEALED
- Concept: how it works in practice
- Execution: step-by-step demonstration
- Materials: diagrams, flowcharts

VISUAL PROOF 3: SOCIAL PROOF
- Concept: others already succeeded
- Execution: documented success cases
- Materials: testimonials, results`,

		"anti_objection": `OBJECTION HANDLING SYSTEM: {segment}

OBJECTION: "I don't have time"
RESPONSE: The time you 'don't have' to improve is exactly the time you are losing to inefficiency.

OBJECTION: "It's too expensive"
RESPONSE: The cost of not acting is always higher than the investment in growth.

OBJECTION: "I already tried other things"
RESPONSE: Previous attempts failed because a systematic method was missing.`,

		"general": `ANALYSIS: {segment}

The {product} offering in the {segment} space requires a structured approach:
positioning, differentiation, and consistent execution.

1. Map the current market position and nearest competitors.
2. Identify the single strongest differentiator and lead with it.
3. Define measurable milestones for the next quarter.

This content was produced by the recovery path; review provider
configuration and retry for a full analysis.`,
	}
}
