package accounting

import (
	"context"
	"fmt"

	"github.com/erp/ledger/internal/domain/accounting/acl"
	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// PostingEventHandler reacts to inbound module events (sales invoice posted,
// goods receipt posted, stock adjustment recorded) by running the rule-driven
// journaling path. It is registered on the event bus, typically wrapped in an
// IdempotentHandler so redelivered events cannot double-post.
type PostingEventHandler struct {
	journaling *JournalingService
	logger     *zap.Logger
}

// NewPostingEventHandler creates a new handler for postable module events
func NewPostingEventHandler(journaling *JournalingService, logger *zap.Logger) *PostingEventHandler {
	return &PostingEventHandler{
		journaling: journaling,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PostingEventHandler) EventTypes() []string {
	return []string{
		acl.EventTypeSalesInvoicePosted,
		acl.EventTypeGoodsReceiptPosted,
		acl.EventTypeStockAdjustmentRecorded,
	}
}

// Handle processes a module event by applying its posting rule
func (h *PostingEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	sourceEvent, ok := event.(acl.RuleSourceEvent)
	if !ok {
		h.logger.Error("unexpected event type for posting handler",
			zap.String("event_type", event.EventType()),
		)
		return fmt.Errorf("event %s does not carry a posting source document", event.EventType())
	}

	entry, err := h.journaling.ProcessRuleEvent(ctx, sourceEvent)
	if err != nil {
		h.logger.Error("failed to post journal entry for event",
			zap.String("event_type", event.EventType()),
			zap.String("reference", sourceEvent.Reference()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to post journal entry for %s: %w", event.EventType(), err)
	}
	if entry == nil {
		h.logger.Debug("event type has no active posting rule",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	h.logger.Info("journal entry posted for event",
		zap.String("event_type", event.EventType()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("reference", entry.ReferenceNumber),
	)

	return nil
}

// Ensure PostingEventHandler implements shared.EventHandler
var _ shared.EventHandler = (*PostingEventHandler)(nil)
