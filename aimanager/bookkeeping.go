package aimanager

import (
	"strings"
	"time"
)

// quotaIndicators are the error-text fragments that mark a failure as quota
// or rate-limit related. Matching is case-insensitive.
var quotaIndicators = []string{
	"quota",
	"rate limit",
	"too many requests",
	"insufficient_quota",
}

// isQuotaError reports whether the error text carries quota/rate-limit
// vocabulary.
func isQuotaError(message string) bool {
	lowered := strings.ToLower(message)
	for _, indicator := range quotaIndicators {
		if strings.Contains(lowered, indicator) {
			return true
		}
	}
	return false
}

// registerFailure records a failed attempt against the provider. Quota
// failures suspend the provider for quotaCooldown without touching the error
// counters; transient failures increment the counters and trip the breaker
// once the consecutive-failure threshold is reached.
func (o *Orchestrator) registerFailure(requestID, name, message string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	record, ok := o.providers[name]
	if !ok {
		return
	}

	if isQuotaError(message) {
		record.available = false
		record.quotaExceeded = true
		record.reactivateAt = o.nowFunc().Add(quotaCooldown)
		o.disabled[name] = struct{}{}

		o.logger.Printf("[%s] %s quota exceeded, suspended until %s: %s",
			requestID, name, record.reactivateAt.Format("15:04:05"), message)
		o.emitEventLocked(EventProviderSuspended, requestID, name, "", map[string]any{
			"reason":        "quota",
			"reactivate_at": record.reactivateAt,
		})
		return
	}

	record.errorCount++
	record.consecutiveFailures++
	o.logger.Printf("[%s] %s failed (%d consecutive): %s",
		requestID, name, record.consecutiveFailures, message)

	if record.consecutiveFailures >= record.maxConsecutiveFailures {
		record.available = false
		record.reactivateAt = o.nowFunc().Add(breakerCooldown)
		o.disabled[name] = struct{}{}

		o.logger.Printf("[%s] %s disabled after %d consecutive failures, retry at %s",
			requestID, name, record.consecutiveFailures, record.reactivateAt.Format("15:04:05"))
		o.emitEventLocked(EventProviderDisabled, requestID, name, "", map[string]any{
			"consecutive_failures": record.consecutiveFailures,
			"reactivate_at":        record.reactivateAt,
		})
	}
}

// registerSuccess records a successful attempt: the consecutive-failure
// streak resets, the provider leaves the disabled set, and the success
// timestamp updates. A standing quota suspension flag stays set until the
// reactivation sweep clears it.
func (o *Orchestrator) registerSuccess(requestID, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	record, ok := o.providers[name]
	if !ok {
		return
	}

	record.consecutiveFailures = 0
	record.lastSuccess = o.nowFunc()
	record.available = true
	delete(o.disabled, name)

	o.logger.Printf("[%s] %s succeeded", requestID, name)
}

// reactivateDueProviders restores every suspended provider whose cooldown has
// elapsed. Reactivation clears the failure streak and quota flag so the
// provider re-enters the chain with a clean slate.
//
// Note: caller must hold the lock.
func (o *Orchestrator) reactivateDueProviders() {
	now := o.nowFunc()
	for name := range o.disabled {
		record, ok := o.providers[name]
		if !ok || record.reactivateAt.After(now) {
			continue
		}

		record.available = true
		record.quotaExceeded = false
		record.consecutiveFailures = 0
		record.reactivateAt = time.Time{}
		delete(o.disabled, name)

		o.logger.Printf("%s reactivated after cooldown", name)
		o.emitEventLocked(EventProviderReactivated, "", name, "", nil)
	}
}
