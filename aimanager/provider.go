package aimanager

import (
	"context"
	"time"
)

// Invoker is the single capability every generation backend exposes. The
// error message of a failed call is inspected for quota/rate-limit vocabulary
// to decide between circuit-breaking and timed suspension.
type Invoker interface {
	Invoke(ctx context.Context, prompt string, model string, opts Options) (string, error)
}

// Options carries the sampling knobs forwarded to providers and the context
// fields substituted into emergency templates.
type Options struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	TopK        int

	// Context supplies emergency-template fields such as "segment" and
	// "product". Never sent to providers.
	Context map[string]string
}

// withDefaults fills unset sampling knobs.
func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = 4096
	}
	if o.Temperature == 0 {
		o.Temperature = 0.7
	}
	if o.TopP == 0 {
		o.TopP = 0.95
	}
	if o.TopK == 0 {
		o.TopK = 64
	}
	return o
}

// ProviderSpec registers one backend with the orchestrator.
type ProviderSpec struct {
	Name                   string
	Model                  string
	Priority               int
	DailyLimit             int
	MaxConsecutiveFailures int
	Invoker                Invoker
}

// providerRecord is the orchestrator's mutable per-provider state. The
// identity fields (name, model, priority, invoker, threshold) are immutable
// after construction; everything else is guarded by the orchestrator mutex.
type providerRecord struct {
	name                   string
	model                  string
	priority               int
	maxConsecutiveFailures int
	invoker                Invoker

	available           bool
	errorCount          int
	consecutiveFailures int
	lastSuccess         time.Time
	quotaExceeded       bool
	reactivateAt        time.Time
}

// ProviderStatus is the diagnostic view of one provider, consumed by the
// operational status page.
type ProviderStatus struct {
	Available              bool       `json:"available"`
	Model                  string     `json:"model"`
	Priority               int        `json:"priority"`
	ErrorCount             int        `json:"error_count"`
	ConsecutiveFailures    int        `json:"consecutive_failures"`
	Disabled               bool       `json:"disabled"`
	QuotaExceeded          bool       `json:"quota_exceeded"`
	DailyRequestsRemaining int        `json:"daily_requests_remaining"`
	LastSuccess            *time.Time `json:"last_success,omitempty"`
}
