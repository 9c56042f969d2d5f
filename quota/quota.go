// Package quota tracks per-provider daily request budgets with rolling
// 24-hour windows and answers which provider should be preferred for a given
// component type. It performs no network calls; the only mutation is counter
// bookkeeping.
package quota

import (
	"sync"
	"time"
)

// resetWindow is the rolling window after which a provider's counter resets.
const resetWindow = 24 * time.Hour

// generalComponent is the ordering used for component types without an
// explicit priority list.
const generalComponent = "general"

// providerState tracks budget consumption for one provider.
type providerState struct {
	dailyLimit   int
	requestsMade int
	lastReset    time.Time
}

// Limit pairs a provider name with its daily request budget.
type Limit struct {
	Provider   string
	DailyLimit int
}

// Manager answers "can provider X take another request" and "which provider is
// best for this component type". Safe for concurrent use. Window resets are
// lazy: they happen on the next query after the 24h boundary, not on a timer.
type Manager struct {
	mu        sync.Mutex
	states    map[string]*providerState
	orderings map[string][]string
	nowFunc   func() time.Time
}

// NewManager creates a quota manager for the given provider limits and
// per-component priority orderings. Orderings must contain a "general" entry;
// unknown component types fall back to it.
func NewManager(limits []Limit, orderings map[string][]string) *Manager {
	states := make(map[string]*providerState, len(limits))
	now := time.Now()
	for _, limit := range limits {
		states[limit.Provider] = &providerState{
			dailyLimit: limit.DailyLimit,
			lastReset:  now,
		}
	}

	copied := make(map[string][]string, len(orderings))
	for component, order := range orderings {
		copied[component] = append([]string(nil), order...)
	}

	return &Manager{
		states:    states,
		orderings: copied,
		nowFunc:   time.Now,
	}
}

// CanUse reports whether the provider has remaining quota in the current
// window. The window is reset first if it has expired.
func (m *Manager) CanUse(provider string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[provider]
	if !ok {
		return false
	}

	m.resetIfExpired(state)
	return state.requestsMade < state.dailyLimit
}

// Increment records one request against the provider's budget. It is called
// when an attempt is initiated, before the outcome is known: a failed call
// still consumes quota. That over-counts slightly on failure but keeps the
// accounting race-free and simple.
func (m *Manager) Increment(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.states[provider]; ok {
		m.resetIfExpired(state)
		state.requestsMade++
	}
}

// BestProvider returns the first provider in the component type's priority
// ordering that still has quota, or false when every candidate is exhausted.
func (m *Manager) BestProvider(componentType string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orderings[componentType]
	if !ok {
		order = m.orderings[generalComponent]
	}

	for _, provider := range order {
		state, known := m.states[provider]
		if !known {
			continue
		}

		m.resetIfExpired(state)
		if state.requestsMade < state.dailyLimit {
			return provider, true
		}
	}

	return "", false
}

// Remaining returns how many requests the provider may still make in the
// current window. Unknown providers report zero.
func (m *Manager) Remaining(provider string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[provider]
	if !ok {
		return 0
	}

	m.resetIfExpired(state)
	remaining := state.dailyLimit - state.requestsMade
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Snapshot returns remaining quota for every provider, keyed by name.
func (m *Manager) Snapshot() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[string]int, len(m.states))
	for provider, state := range m.states {
		m.resetIfExpired(state)
		remaining := state.dailyLimit - state.requestsMade
		if remaining < 0 {
			remaining = 0
		}
		snapshot[provider] = remaining
	}
	return snapshot
}

// SetNowFuncForTests overrides the clock so window boundaries can be simulated
// without sleeping.
func (m *Manager) SetNowFuncForTests(nowFunc func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nowFunc = nowFunc
}

// resetIfExpired zeroes the counter when the 24h window has elapsed.
// Note: caller must hold the lock.
func (m *Manager) resetIfExpired(state *providerState) {
	now := m.nowFunc()
	if now.Sub(state.lastReset) >= resetWindow {
		state.requestsMade = 0
		state.lastReset = now
	}
}
