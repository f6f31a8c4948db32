package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/finbook/backend/internal/domain/shared"
)

// TestEvent is a simple domain event for testing.
type TestEvent struct {
	shared.BaseDomainEvent
	Data string
}

// NewTestEvent creates a new test event owned by the given user.
func NewTestEvent(eventType string, ownerID uuid.UUID) *TestEvent {
	return &TestEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), ownerID),
		Data:            "test-data",
	}
}

// EventTypes returns the types of all pending events on the aggregate.
func EventTypes(agg shared.AggregateRoot) []string {
	events := agg.GetDomainEvents()
	types := make([]string, 0, len(events))
	for _, event := range events {
		types = append(types, event.EventType())
	}
	return types
}

// AssertEventRaised asserts that the aggregate has a pending event of the
// given type and returns it.
func AssertEventRaised(t *testing.T, agg shared.AggregateRoot, eventType string) shared.DomainEvent {
	t.Helper()

	for _, event := range agg.GetDomainEvents() {
		if event.EventType() == eventType {
			return event
		}
	}

	t.Fatalf("Expected event %q, got %v", eventType, EventTypes(agg))
	return nil
}

// AssertNoEventRaised asserts that no event of the given type is pending.
func AssertNoEventRaised(t *testing.T, agg shared.AggregateRoot, eventType string) {
	t.Helper()

	assert.NotContains(t, EventTypes(agg), eventType)
}

// WaitForCondition waits for a condition to become true.
// Returns true if the condition was met, false if timeout occurred.
func WaitForCondition(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return false
}
