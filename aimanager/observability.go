package aimanager

import "time"

// EventType labels orchestrator lifecycle events.
type EventType string

const (
	EventGenerationAttempt   EventType = "generation_attempt"
	EventGenerationSucceeded EventType = "generation_succeeded"
	EventProviderSuspended   EventType = "provider_suspended"
	EventProviderDisabled    EventType = "provider_disabled"
	EventProviderReactivated EventType = "provider_reactivated"
	EventEmergencyUsed       EventType = "emergency_used"
)

// Event is one orchestrator lifecycle notification. Events are best-effort:
// when no consumer drains the channel they are dropped, never blocking a
// generation request.
type Event struct {
	Type          EventType      `json:"type"`
	RequestID     string         `json:"request_id,omitempty"`
	Provider      string         `json:"provider,omitempty"`
	ComponentType string         `json:"component_type,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	Details       map[string]any `json:"details,omitempty"`
}

// GetEventChan returns the channel lifecycle events are published on.
func (o *Orchestrator) GetEventChan() <-chan *Event {
	return o.eventChan
}

func (o *Orchestrator) emitEvent(eventType EventType, requestID, provider, componentType string, details map[string]any) {
	event := &Event{
		Type:          eventType,
		RequestID:     requestID,
		Provider:      provider,
		ComponentType: componentType,
		Timestamp:     time.Now(),
		Details:       details,
	}

	select {
	case o.eventChan <- event:
	default:
		// Drop when the buffer is full.
	}
}

// emitEventLocked is emitEvent for call sites already holding the mutex. The
// send itself never blocks, so holding the lock across it is safe.
func (o *Orchestrator) emitEventLocked(eventType EventType, requestID, provider, componentType string, details map[string]any) {
	o.emitEvent(eventType, requestID, provider, componentType, details)
}

// emitAttempt publishes a generation attempt, including a token estimate for
// the prompt when a counter is configured.
func (o *Orchestrator) emitAttempt(requestID, provider, componentType, prompt string) {
	details := map[string]any{"prompt_length": len(prompt)}
	if o.counter != nil {
		details["estimated_tokens"] = o.counter.EstimatePromptTokens(prompt)
	}
	o.emitEvent(EventGenerationAttempt, requestID, provider, componentType, details)
}
