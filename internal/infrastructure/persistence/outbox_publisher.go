package persistence

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/event"
	"github.com/erp/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// OutboxPublisher writes domain events to the outbox table inside the
// caller's transaction, so an aggregate change and its events commit or roll
// back together
type OutboxPublisher struct {
	serializer *event.EventSerializer
}

// NewOutboxPublisher creates a new OutboxPublisher
func NewOutboxPublisher(serializer *event.EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// SaveEvents persists events within the transaction held by txProvider
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider any, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}

	entryModels := make([]*models.OutboxEntryModel, 0, len(events))
	for _, domainEvent := range events {
		payload, err := p.serializer.Serialize(domainEvent)
		if err != nil {
			return fmt.Errorf("failed to serialize %s event: %w", domainEvent.EventType(), err)
		}
		entry := shared.NewOutboxEntry(domainEvent, payload)
		entryModels = append(entryModels, models.OutboxEntryModelFromDomain(entry))
	}

	return tx.WithContext(ctx).Create(entryModels).Error
}

// Ensure OutboxPublisher implements OutboxEventSaver
var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
