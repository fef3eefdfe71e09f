package event

import (
	"testing"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	serializer.Register("sales.invoice.posted", &shared.BaseDomainEvent{})

	event := shared.NewBaseDomainEvent("sales.invoice.posted", "SalesInvoice", uuid.New())
	payload, err := serializer.Serialize(&event)
	require.NoError(t, err)

	restored, err := serializer.Deserialize("sales.invoice.posted", payload)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), restored.EventID())
	assert.Equal(t, event.EventType(), restored.EventType())
	assert.Equal(t, event.AggregateID(), restored.AggregateID())
}

func TestEventSerializer_UnknownType(t *testing.T) {
	serializer := NewEventSerializer()

	_, err := serializer.Deserialize("sales.invoice.posted", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestRegisterLedgerEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterLedgerEvents(serializer)

	for _, eventType := range []string{
		"JournalEntryPosted",
		"AccountingPeriodClosed",
		"AccountingPeriodLocked",
		"AccountingPeriodUnlocked",
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
}
