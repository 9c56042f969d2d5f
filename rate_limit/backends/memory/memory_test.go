package memory

import (
	"testing"
	"time"

	"github.com/arqlabs/aimanager/rate_limit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetAvailable_DefaultBudgets(t *testing.T) {
	backend := NewDefaultBackend()
	defer backend.Close()

	tokens, requests := backend.BudgetAvailable("groq")
	assert.Equal(t, rate_limit.DefaultLimits["groq"].TPM, tokens)
	assert.Equal(t, rate_limit.DefaultLimits["groq"].RPM, requests)
}

func TestBudgetAvailable_UncappedProvider(t *testing.T) {
	backend := NewBackend(nil)
	defer backend.Close()

	tokens, requests := backend.BudgetAvailable("anything")
	assert.Greater(t, tokens, 1_000_000_000)
	assert.Greater(t, requests, 1_000_000_000)
}

func TestRecordConsumption_ReducesBudget(t *testing.T) {
	backend := NewBackend(map[string]rate_limit.RateLimit{
		"groq": {RPM: 10, TPM: 1000},
	})
	defer backend.Close()

	require.NoError(t, backend.RecordConsumption("groq", 300, 2))

	tokens, requests := backend.BudgetAvailable("groq")
	assert.Equal(t, 700, tokens)
	assert.Equal(t, 8, requests)
}

func TestBudgetAvailable_NeverNegative(t *testing.T) {
	backend := NewBackend(map[string]rate_limit.RateLimit{
		"groq": {RPM: 1, TPM: 100},
	})
	defer backend.Close()

	require.NoError(t, backend.RecordConsumption("groq", 500, 5))

	tokens, requests := backend.BudgetAvailable("groq")
	assert.Equal(t, 0, tokens)
	assert.Equal(t, 0, requests)
}

func TestSetBudgetForTests(t *testing.T) {
	backend := NewBackend(nil)
	defer backend.Close()

	require.NoError(t, backend.SetBudgetForTests("groq", 50, 5))

	tokens, requests := backend.BudgetAvailable("groq")
	assert.Equal(t, 50, tokens)
	assert.Equal(t, 5, requests)
}

func TestTimeUntilReset_WithinAMinute(t *testing.T) {
	backend := NewDefaultBackend()
	defer backend.Close()

	until := backend.TimeUntilReset()
	assert.Greater(t, until, time.Duration(0))
	assert.LessOrEqual(t, until, time.Minute)
}
