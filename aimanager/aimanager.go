// Package aimanager orchestrates a set of interchangeable text-generation
// providers. A generation request is routed to the best provider for its
// component type, falls through a priority-ordered chain on quota exhaustion,
// transient failure, or low-quality output, and resolves to a static
// emergency template when every provider is unavailable. Generate never
// returns empty text and never panics.
package aimanager

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arqlabs/aimanager/quota"
	"github.com/arqlabs/aimanager/rate_limit"
	"github.com/arqlabs/aimanager/utils/logger"
	"github.com/arqlabs/aimanager/utils/parallel"
	"github.com/arqlabs/aimanager/utils/safeserialize"
	"github.com/arqlabs/aimanager/utils/token_counter"
	"github.com/google/uuid"
)

const (
	// minResultLength is the hard floor on raw provider output before the
	// content validator even runs.
	minResultLength = 50

	// quotaCooldown is how long a provider stays suspended after a
	// quota/rate-limit signal.
	quotaCooldown = time.Hour

	// breakerCooldown is the half-open retry delay for a provider disabled
	// by consecutive failures. Without it a tripped provider could never
	// recover, since disabled providers are never attempted.
	breakerCooldown = 30 * time.Minute
)

// OrchestratorOptions configures a new Orchestrator.
type OrchestratorOptions struct {
	Providers          []ProviderSpec
	Orderings          map[string][]string
	MinContentLengths  map[string]int
	EmergencyTemplates map[string]string

	// Logger defaults to noop when nil.
	Logger logger.Logger

	// TokenCounter, when set, is used to report prompt-size estimates on
	// attempt events and to charge token consumption against the rate
	// backend.
	TokenCounter token_counter.TokenCounterInterface

	// RateBackend, when set, enforces per-minute request and token caps on
	// top of the daily quota.
	RateBackend rate_limit.Backend
}

// Orchestrator owns the configured providers, their circuit-breaker state,
// and the fallback chain. All mutable state is guarded by one mutex; provider
// network calls happen outside it.
type Orchestrator struct {
	mu        sync.Mutex
	providers map[string]*providerRecord
	disabled  map[string]struct{}

	// fallbackChain is fixed at construction: available providers ordered
	// by priority. Failures toggle availability, never chain position.
	fallbackChain []string

	quota       *quota.Manager
	rateBackend rate_limit.Backend
	validator   contentValidator
	templates   map[string]string

	logger  logger.Logger
	counter token_counter.TokenCounterInterface
	nowFunc func() time.Time

	eventChan chan *Event
}

// contentValidator is what the orchestrator needs from the validate package.
type contentValidator interface {
	Validate(text string, componentType string) (bool, string)
}

// NewOrchestrator builds an orchestrator from the given options. The fallback
// chain is computed once: every registered provider, ordered by priority.
func NewOrchestrator(opts OrchestratorOptions, validator contentValidator) *Orchestrator {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoopLogger()
	}

	records := make(map[string]*providerRecord, len(opts.Providers))
	limits := make([]quota.Limit, 0, len(opts.Providers))
	chain := make([]string, 0, len(opts.Providers))

	for _, spec := range opts.Providers {
		records[spec.Name] = &providerRecord{
			name:                   spec.Name,
			model:                  spec.Model,
			priority:               spec.Priority,
			maxConsecutiveFailures: spec.MaxConsecutiveFailures,
			invoker:                spec.Invoker,
			available:              true,
		}
		limits = append(limits, quota.Limit{Provider: spec.Name, DailyLimit: spec.DailyLimit})
		chain = append(chain, spec.Name)
	}

	sort.SliceStable(chain, func(i, j int) bool {
		return records[chain[i]].priority < records[chain[j]].priority
	})

	templates := make(map[string]string, len(opts.EmergencyTemplates))
	for component, text := range opts.EmergencyTemplates {
		templates[component] = text
	}

	o := &Orchestrator{
		providers:     records,
		disabled:      make(map[string]struct{}),
		fallbackChain: chain,
		quota:         quota.NewManager(limits, normalizeOrderings(opts.Orderings, chain)),
		rateBackend:   opts.RateBackend,
		validator:     validator,
		templates:     templates,
		logger:        log,
		counter:       opts.TokenCounter,
		nowFunc:       time.Now,
		eventChan:     make(chan *Event, 256),
	}

	if len(chain) > 0 {
		log.Printf("orchestrator initialized with %d providers, primary=%s", len(chain), chain[0])
	} else {
		log.Println("orchestrator initialized with no providers; every request will use emergency content")
	}

	return o
}

// normalizeOrderings guarantees a usable "general" ordering even when the
// caller supplies none: the fallback chain itself.
func normalizeOrderings(orderings map[string][]string, chain []string) map[string][]string {
	normalized := make(map[string][]string, len(orderings)+1)
	for component, order := range orderings {
		normalized[component] = append([]string(nil), order...)
	}
	if _, ok := normalized["general"]; !ok {
		normalized["general"] = append([]string(nil), chain...)
	}
	return normalized
}

// Generate produces text for the prompt using the best available provider,
// falling through the chain and finally to the emergency template. It always
// returns non-empty text and absorbs every provider error; the only signals
// of degraded operation are the emergency marker and ProviderStatus.
//
// Context cancellation aborts remaining provider attempts; the in-flight
// attempt is recorded as a transient failure and the emergency template is
// returned.
func (o *Orchestrator) Generate(ctx context.Context, prompt string, componentType string, opts Options) string {
	requestID := uuid.New().String()[:8]
	opts = opts.withDefaults()

	o.mu.Lock()
	o.reactivateDueProviders()
	o.mu.Unlock()

	tried := make(map[string]struct{})

	// First preference: the quota manager's pick for this component type.
	if best, ok := o.quota.BestProvider(componentType); ok {
		tried[best] = struct{}{}
		if text, accepted := o.tryProvider(ctx, requestID, best, prompt, componentType, opts); accepted {
			return o.finalize(requestID, best, text, componentType, opts)
		}
	}

	// Fall through the full chain in priority order, skipping the provider
	// already tried.
	for _, name := range o.fallbackChain {
		if ctx.Err() != nil {
			break
		}
		if _, done := tried[name]; done {
			continue
		}

		if text, accepted := o.tryProvider(ctx, requestID, name, prompt, componentType, opts); accepted {
			return o.finalize(requestID, name, text, componentType, opts)
		}
	}

	o.logger.Printf("[%s] all providers failed or skipped for %s, using emergency template", requestID, componentType)
	o.emitEvent(EventEmergencyUsed, requestID, "", componentType, nil)
	return o.renderEmergency(componentType, opts.Context)
}

// tryProvider runs one generation attempt. It returns the text and true only
// when the provider produced validator-accepted content. Quota is charged as
// soon as the attempt is initiated, whatever the outcome.
func (o *Orchestrator) tryProvider(ctx context.Context, requestID, name, prompt, componentType string, opts Options) (string, bool) {
	o.mu.Lock()
	record, known := o.providers[name]
	if !known || !record.available {
		o.mu.Unlock()
		return "", false
	}
	if _, isDisabled := o.disabled[name]; isDisabled {
		o.mu.Unlock()
		return "", false
	}
	model, invoker := record.model, record.invoker
	o.mu.Unlock()

	if !o.quota.CanUse(name) {
		o.logger.Printf("[%s] %s has no quota remaining", requestID, name)
		return "", false
	}

	promptTokens := o.estimateTokens(prompt)
	if o.rateBackend != nil {
		tokensAvailable, requestsAvailable := o.rateBackend.BudgetAvailable(name)
		if requestsAvailable < 1 || tokensAvailable < promptTokens {
			o.logger.Printf("[%s] %s per-minute budget exhausted, next reset in %s",
				requestID, name, o.rateBackend.TimeUntilReset().Round(time.Second))
			return "", false
		}
	}

	o.logger.Printf("[%s] attempting generation with %s (%s) for %s", requestID, name, model, componentType)
	o.quota.Increment(name)
	if o.rateBackend != nil {
		if err := o.rateBackend.RecordConsumption(name, promptTokens, 1); err != nil {
			o.logger.Printf("[%s] failed to record consumption for %s: %v", requestID, name, err)
		}
	}
	o.emitAttempt(requestID, name, componentType, prompt)

	text, err := invoker.Invoke(ctx, prompt, model, opts)
	if err != nil {
		o.registerFailure(requestID, name, err.Error())
		return "", false
	}

	if len(strings.TrimSpace(text)) < minResultLength {
		o.logger.Printf("[%s] %s returned empty or too-short result", requestID, name)
		return "", false
	}

	valid, reason := o.validator.Validate(text, componentType)
	if !valid {
		// A structurally successful call with unusable content counts as
		// a provider failure.
		o.registerFailure(requestID, name, "content rejected: "+reason)
		return "", false
	}

	o.registerSuccess(requestID, name)
	return text, true
}

// estimateTokens sizes a prompt for rate accounting: the token counter when
// one is configured, otherwise a characters-over-four approximation.
func (o *Orchestrator) estimateTokens(prompt string) int {
	if o.counter != nil {
		return o.counter.EstimatePromptTokens(prompt)
	}
	return len(prompt)/4 + 1
}

// finalize runs the selected content through the validator one more time.
// A last-moment rejection resolves to the emergency template, keeping the
// never-empty contract.
func (o *Orchestrator) finalize(requestID, provider, text, componentType string, opts Options) string {
	valid, reason := o.validator.Validate(text, componentType)
	if !valid {
		o.logger.Printf("[%s] final validation rejected %s content: %s", requestID, provider, reason)
		o.emitEvent(EventEmergencyUsed, requestID, provider, componentType, map[string]any{"reason": reason})
		return o.renderEmergency(componentType, opts.Context)
	}

	o.emitEvent(EventGenerationSucceeded, requestID, provider, componentType, map[string]any{
		"content_length": len(text),
	})
	return text
}

// Request is one unit of batch generation.
type Request struct {
	Key           string
	Prompt        string
	ComponentType string
	Options       Options
}

// GenerateMany runs one Generate per request concurrently, at most
// maxConcurrent at a time, and returns the results keyed by Request.Key.
// Every key is present and non-empty; items that exhaust the chain resolve
// to their emergency template like any other Generate call.
func (o *Orchestrator) GenerateMany(ctx context.Context, requests []Request, maxConcurrent int) map[string]string {
	builder := parallel.NewBuilder()
	for _, request := range requests {
		builder.Add(request.Key, func(ctx context.Context) (any, error) {
			return o.Generate(ctx, request.Prompt, request.ComponentType, request.Options), nil
		})
	}

	results := builder.RunLimited(ctx, maxConcurrent)

	out := make(map[string]string, len(requests))
	for key, result := range results {
		if text, ok := result.Value.(string); ok {
			out[key] = text
		}
	}
	return out
}

// ProviderStatus returns the diagnostic view of every registered provider.
func (o *Orchestrator) ProviderStatus() map[string]ProviderStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	status := make(map[string]ProviderStatus, len(o.providers))
	for name, record := range o.providers {
		_, isDisabled := o.disabled[name]

		entry := ProviderStatus{
			Available:              record.available,
			Model:                  record.model,
			Priority:               record.priority,
			ErrorCount:             record.errorCount,
			ConsecutiveFailures:    record.consecutiveFailures,
			Disabled:               isDisabled,
			QuotaExceeded:          record.quotaExceeded,
			DailyRequestsRemaining: o.quota.Remaining(name),
		}
		if !record.lastSuccess.IsZero() {
			last := record.lastSuccess
			entry.LastSuccess = &last
		}
		status[name] = entry
	}
	return status
}

// DebugState returns a serialization-safe snapshot of the orchestrator's
// internal state for the debug endpoint. The snapshot goes through the safe
// serializer, so cycles, deep nesting, and oversized values are reduced to
// markers instead of breaking the endpoint.
func (o *Orchestrator) DebugState() any {
	o.mu.Lock()
	disabled := make([]string, 0, len(o.disabled))
	for name := range o.disabled {
		disabled = append(disabled, name)
	}
	sort.Strings(disabled)
	o.mu.Unlock()

	snapshot := map[string]any{
		"fallback_chain":  o.FallbackChain(),
		"disabled":        disabled,
		"providers":       o.ProviderStatus(),
		"quota_remaining": o.quota.Snapshot(),
	}
	return safeserialize.Serialize(snapshot)
}

// FallbackChain returns the fixed priority-ordered provider chain.
func (o *Orchestrator) FallbackChain() []string {
	return append([]string(nil), o.fallbackChain...)
}

// SetNowFuncForTests overrides the clock used for cooldown scheduling and
// quota windows so tests can simulate time passing.
func (o *Orchestrator) SetNowFuncForTests(nowFunc func() time.Time) {
	o.mu.Lock()
	o.nowFunc = nowFunc
	o.mu.Unlock()
	o.quota.SetNowFuncForTests(nowFunc)
}
