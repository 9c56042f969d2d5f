package memory

import (
	"sync"
	"time"

	"github.com/arqlabs/aimanager/rate_limit"
)

// usageData tracks token and request consumption
type usageData struct {
	Tokens   int
	Requests int
}

// Memory is an in-memory rate limit backend for single-process scenarios.
// It tracks rate limits locally without any inter-process communication.
type Memory struct {
	state         map[string]usageData
	currentMinute time.Time
	budgets       map[string]rate_limit.RateLimit
	mu            sync.RWMutex
}

// NewBackend creates a new in-memory rate limit backend with the given
// per-provider budgets. Providers absent from the map have no per-minute cap.
func NewBackend(budgets map[string]rate_limit.RateLimit) *Memory {
	copied := make(map[string]rate_limit.RateLimit, len(budgets))
	for provider, budget := range budgets {
		copied[provider] = budget
	}

	return &Memory{
		state:         make(map[string]usageData),
		currentMinute: time.Now().Truncate(time.Minute),
		budgets:       copied,
	}
}

// NewDefaultBackend creates an in-memory backend with the default budgets.
func NewDefaultBackend() *Memory {
	return NewBackend(rate_limit.DefaultLimits)
}

// BudgetAvailable returns the available token and request budget for the given provider
func (m *Memory) BudgetAvailable(provider string) (tokensAvailable int, requestsAvailable int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkAndResetMinute()

	budget, capped := m.budgets[provider]
	if !capped {
		return int(^uint(0) >> 1), int(^uint(0) >> 1)
	}

	usage := m.state[provider]
	tokensAvailable = budget.TPM - usage.Tokens
	requestsAvailable = budget.RPM - usage.Requests

	if tokensAvailable < 0 {
		tokensAvailable = 0
	}
	if requestsAvailable < 0 {
		requestsAvailable = 0
	}

	return tokensAvailable, requestsAvailable
}

// RecordConsumption records token and request usage for the given provider
func (m *Memory) RecordConsumption(provider string, tokens int, requests int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkAndResetMinute()

	usage := m.state[provider]
	usage.Tokens += tokens
	usage.Requests += requests
	m.state[provider] = usage

	return nil
}

// TimeUntilReset returns the duration until the next minute boundary
func (m *Memory) TimeUntilReset() time.Duration {
	now := time.Now()
	nextMinute := now.Truncate(time.Minute).Add(time.Minute)
	return nextMinute.Sub(now)
}

// SetBudgetForTests sets custom budgets for testing purposes
func (m *Memory) SetBudgetForTests(provider string, tokens int, requests int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.budgets[provider] = rate_limit.RateLimit{
		TPM: tokens,
		RPM: requests,
	}

	return nil
}

// Close is a no-op for in-memory backend (no resources to clean up)
func (m *Memory) Close() error {
	return nil
}

// checkAndResetMinute resets state if we're in a new minute
// Note: caller must hold the lock
func (m *Memory) checkAndResetMinute() {
	currentMinute := time.Now().Truncate(time.Minute)
	if !m.currentMinute.Equal(currentMinute) {
		m.currentMinute = currentMinute
		m.state = make(map[string]usageData)
	}
}
