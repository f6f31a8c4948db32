package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/finbook/backend/internal/domain/identity"
	"github.com/finbook/backend/internal/domain/shared"
	"github.com/finbook/backend/internal/domain/shared/valueobject"
)

func TestNewTestEvent(t *testing.T) {
	ownerID := uuid.New()
	event := NewTestEvent("TestEvent", ownerID)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "TestEvent", event.EventType())
	assert.Equal(t, ownerID, event.OwnerID())
	assert.False(t, event.OccurredAt().IsZero())
	assert.Equal(t, "test-data", event.Data)
}

func TestEventTypes(t *testing.T) {
	agg := &shared.BaseAggregateRoot{}
	agg.AddDomainEvent(NewTestEvent("Event1", uuid.New()))
	agg.AddDomainEvent(NewTestEvent("Event2", uuid.New()))

	assert.Equal(t, []string{"Event1", "Event2"}, EventTypes(agg))
}

func TestAssertEventRaised(t *testing.T) {
	user, err := identity.NewUser("Test User", "events@example.com", "Password123!", valueobject.USD)
	assert.NoError(t, err)

	event := AssertEventRaised(t, user, identity.EventTypeUserRegistered)

	assert.Equal(t, user.ID, event.AggregateID())
	assert.Equal(t, user.ID, event.OwnerID())
}

func TestAssertNoEventRaised(t *testing.T) {
	agg := &shared.BaseAggregateRoot{}
	agg.AddDomainEvent(NewTestEvent("Event1", uuid.New()))

	AssertNoEventRaised(t, agg, "Event2")
}

func TestWaitForCondition(t *testing.T) {
	t.Run("condition met", func(t *testing.T) {
		counter := 0
		go func() {
			time.Sleep(20 * time.Millisecond)
			counter = 1
		}()

		result := WaitForCondition(t, func() bool {
			return counter == 1
		}, 200*time.Millisecond, 10*time.Millisecond)

		assert.True(t, result)
	})

	t.Run("condition not met within timeout", func(t *testing.T) {
		result := WaitForCondition(t, func() bool {
			return false
		}, 50*time.Millisecond, 10*time.Millisecond)

		assert.False(t, result)
	})
}
