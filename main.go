package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arqlabs/aimanager/aimanager"
	"github.com/arqlabs/aimanager/config"
	"github.com/arqlabs/aimanager/server"
	"github.com/arqlabs/aimanager/utils/logger"
	"github.com/arqlabs/aimanager/validate"
)

// MockInvoker simulates a generation backend for demo purposes: variable
// latency, a 10% failure rate, and long-form output that passes validation.
type MockInvoker struct {
	name string
}

func (m *MockInvoker) Invoke(ctx context.Context, prompt string, model string, opts aimanager.Options) (string, error) {
	processingTime := time.Duration(100+rand.Intn(1900)) * time.Millisecond
	select {
	case <-time.After(processingTime):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if rand.Float32() < 0.1 {
		return "", fmt.Errorf("mock API failure from %s", m.name)
	}

	out := fmt.Sprintf("Response from %s (%s) for prompt %q.\n\n", m.name, model, prompt)
	for i := 0; i < 12; i++ {
		out += fmt.Sprintf("Insight %d: concrete finding number %d with distinct supporting detail %d.\n", i+1, i+1, rand.Intn(1000))
	}
	return out, nil
}

func main() {
	fmt.Println("AI Manager Demo")
	fmt.Println("===============")

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	appLogger := logger.NewRotatingLogrusLogger("logs/aimanager.log", 50)
	defer appLogger.Close()

	// Demo wiring: mock invokers stand in for real backends so the full
	// fallback/recovery behavior is observable without credentials. Use
	// aimanager.BuildFromConfig(cfg, appLogger) for real providers.
	specs := make([]aimanager.ProviderSpec, 0, len(cfg.Providers))
	for _, provider := range cfg.Providers {
		specs = append(specs, aimanager.ProviderSpec{
			Name:                   provider.Name,
			Model:                  provider.Model,
			Priority:               provider.Priority,
			DailyLimit:             provider.DailyLimit,
			MaxConsecutiveFailures: provider.MaxConsecutiveFails,
			Invoker:                &MockInvoker{name: provider.Name},
		})
	}

	orchestrator := aimanager.NewOrchestrator(aimanager.OrchestratorOptions{
		Providers:          specs,
		Orderings:          cfg.Orderings,
		MinContentLengths:  cfg.MinContentLengths,
		EmergencyTemplates: cfg.EmergencyTemplates,
		Logger:             appLogger,
	}, validate.NewValidator(cfg.MinContentLengths))

	// Drain lifecycle events to the log.
	go func() {
		for event := range orchestrator.GetEventChan() {
			appLogger.Printf("event %s provider=%s component=%s", event.Type, event.Provider, event.ComponentType)
		}
	}()

	statusServer := server.NewStatusServer(orchestrator)
	go func() {
		fmt.Println("Status server on http://localhost:8080/api/status")
		if err := statusServer.Router().Run(":8080"); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	runDemoGeneration(orchestrator)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutting down...")
}

// runDemoGeneration exercises single and batch generation across the
// configured component types.
func runDemoGeneration(orchestrator *aimanager.Orchestrator) {
	ctx := context.Background()
	demoContext := map[string]string{"segment": "digital marketing", "product": "analytics suite"}

	fmt.Println("\nSingle generation:")
	text := orchestrator.Generate(ctx, "Build mental drivers for the digital marketing segment", "mental_drivers", aimanager.Options{Context: demoContext})
	fmt.Printf("  mental_drivers -> %d chars (emergency=%v)\n", len(text), aimanager.IsEmergency(text))

	fmt.Println("\nBatch generation:")
	requests := []aimanager.Request{
		{Key: "drivers", Prompt: "Mental drivers for SaaS founders", ComponentType: "mental_drivers", Options: aimanager.Options{Context: demoContext}},
		{Key: "proofs", Prompt: "Visual proofs for conversion claims", ComponentType: "visual_proofs", Options: aimanager.Options{Context: demoContext}},
		{Key: "objections", Prompt: "Handle pricing objections", ComponentType: "anti_objection", Options: aimanager.Options{Context: demoContext}},
	}
	results := orchestrator.GenerateMany(ctx, requests, 2)
	for key, result := range results {
		fmt.Printf("  %s -> %d chars (emergency=%v)\n", key, len(result), aimanager.IsEmergency(result))
	}
}
