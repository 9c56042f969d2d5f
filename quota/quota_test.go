package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(
		[]Limit{
			{Provider: "alpha", DailyLimit: 2},
			{Provider: "beta", DailyLimit: 5},
		},
		map[string][]string{
			"special": {"beta", "alpha"},
			"general": {"alpha", "beta"},
		},
	)
}

func TestCanUse_RespectsDailyLimit(t *testing.T) {
	m := newTestManager()

	assert.True(t, m.CanUse("alpha"))
	m.Increment("alpha")
	assert.True(t, m.CanUse("alpha"))
	m.Increment("alpha")
	assert.False(t, m.CanUse("alpha"))
}

func TestCanUse_UnknownProvider(t *testing.T) {
	m := newTestManager()
	assert.False(t, m.CanUse("nonexistent"))
}

func TestBestProvider_FollowsComponentOrdering(t *testing.T) {
	m := newTestManager()

	best, ok := m.BestProvider("special")
	require.True(t, ok)
	assert.Equal(t, "beta", best)

	best, ok = m.BestProvider("general")
	require.True(t, ok)
	assert.Equal(t, "alpha", best)
}

func TestBestProvider_UnknownComponentFallsBackToGeneral(t *testing.T) {
	m := newTestManager()

	best, ok := m.BestProvider("never_configured")
	require.True(t, ok)
	assert.Equal(t, "alpha", best)
}

func TestBestProvider_SkipsExhaustedProviders(t *testing.T) {
	m := newTestManager()

	m.Increment("alpha")
	m.Increment("alpha")

	best, ok := m.BestProvider("general")
	require.True(t, ok)
	assert.Equal(t, "beta", best)
}

func TestBestProvider_AllExhausted(t *testing.T) {
	m := NewManager(
		[]Limit{{Provider: "alpha", DailyLimit: 1}},
		map[string][]string{"general": {"alpha"}},
	)

	m.Increment("alpha")

	_, ok := m.BestProvider("general")
	assert.False(t, ok)
}

func TestIncrement_FailedAttemptsStillConsumeQuota(t *testing.T) {
	m := newTestManager()

	// Increment happens when an attempt starts, so a failure downstream
	// has already been charged.
	m.Increment("alpha")
	assert.Equal(t, 1, m.Remaining("alpha"))
}

func TestRemaining_NeverNegative(t *testing.T) {
	m := NewManager(
		[]Limit{{Provider: "alpha", DailyLimit: 1}},
		map[string][]string{"general": {"alpha"}},
	)

	m.Increment("alpha")
	m.Increment("alpha")

	assert.Equal(t, 0, m.Remaining("alpha"))
	assert.Equal(t, 0, m.Remaining("nonexistent"))
}

func TestWindowReset_LazyAfter24Hours(t *testing.T) {
	m := NewManager(
		[]Limit{{Provider: "alpha", DailyLimit: 1}},
		map[string][]string{"general": {"alpha"}},
	)

	base := time.Now()
	m.SetNowFuncForTests(func() time.Time { return base })

	m.Increment("alpha")
	assert.False(t, m.CanUse("alpha"))

	// 23 hours in: still exhausted.
	m.SetNowFuncForTests(func() time.Time { return base.Add(23 * time.Hour) })
	assert.False(t, m.CanUse("alpha"))

	// Past the boundary: the next query resets the counter.
	m.SetNowFuncForTests(func() time.Time { return base.Add(25 * time.Hour) })
	assert.True(t, m.CanUse("alpha"))
	assert.Equal(t, 1, m.Remaining("alpha"))
}

func TestSnapshot(t *testing.T) {
	m := newTestManager()
	m.Increment("alpha")

	snapshot := m.Snapshot()
	assert.Equal(t, map[string]int{"alpha": 1, "beta": 5}, snapshot)
}
