package aimanager

import (
	"github.com/arqlabs/aimanager/clients/gemini"
	"github.com/arqlabs/aimanager/clients/groq"
	"github.com/arqlabs/aimanager/clients/huggingface"
	"github.com/arqlabs/aimanager/config"
	"github.com/arqlabs/aimanager/rate_limit/backends/memory"
	"github.com/arqlabs/aimanager/utils/logger"
	"github.com/arqlabs/aimanager/utils/token_counter"
	"github.com/arqlabs/aimanager/validate"
	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// BuildFromConfig assembles a ready-to-use orchestrator from configuration.
// Providers whose API key environment variable is unset are skipped, so a
// partially credentialed deployment starts with whatever subset it has.
func BuildFromConfig(cfg *config.Config, log logger.Logger) (*Orchestrator, error) {
	if log == nil {
		log = logger.NewNoopLogger()
	}

	specs := make([]ProviderSpec, 0, len(cfg.Providers))
	for _, provider := range cfg.Providers {
		key := provider.APIKey()
		if key == "" {
			log.Printf("provider %s skipped: %s is not set", provider.Name, provider.APIKeyEnv)
			continue
		}

		invoker := invokerFor(provider.Name, key)
		if invoker == nil {
			log.Printf("provider %s skipped: no known backend", provider.Name)
			continue
		}

		specs = append(specs, ProviderSpec{
			Name:                   provider.Name,
			Model:                  provider.Model,
			Priority:               provider.Priority,
			DailyLimit:             provider.DailyLimit,
			MaxConsecutiveFailures: provider.MaxConsecutiveFails,
			Invoker:                invoker,
		})
	}

	counter, err := token_counter.NewTokenCounter()
	if err != nil {
		return nil, err
	}

	return NewOrchestrator(OrchestratorOptions{
		Providers:          specs,
		Orderings:          cfg.Orderings,
		MinContentLengths:  cfg.MinContentLengths,
		EmergencyTemplates: cfg.EmergencyTemplates,
		Logger:             log,
		TokenCounter:       counter,
		RateBackend:        memory.NewDefaultBackend(),
	}, validate.NewValidator(cfg.MinContentLengths)), nil
}

// invokerFor maps a configured provider name to its backend adapter.
func invokerFor(name, apiKey string) Invoker {
	switch name {
	case "openai":
		client := openai.NewClient(option.WithAPIKey(apiKey))
		return &OpenAIInvoker{Client: &client}
	case "groq":
		return &GroqInvoker{Client: groq.NewGroqClient(apiKey)}
	case "gemini":
		return &GeminiInvoker{Client: gemini.NewGeminiClient(apiKey)}
	case "huggingface":
		return &HFInvoker{Client: huggingface.NewHFClient(apiKey)}
	default:
		return nil
	}
}
