package event

import (
	"context"
	"sync/atomic"

	"github.com/erp/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyMetrics tracks idempotency-related counters
type IdempotencyMetrics struct {
	DuplicatesSkipped atomic.Int64
	StoreErrors       atomic.Int64
}

// GlobalIdempotencyMetrics is the process-wide metrics instance
var GlobalIdempotencyMetrics = &IdempotencyMetrics{}

// IdempotentHandler wraps an EventHandler with duplicate-event detection.
// Events carry unique IDs; the store remembers which IDs were already handled
// so a redelivered event is skipped instead of reprocessed.
type IdempotentHandler struct {
	inner   shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger
	metrics *IdempotencyMetrics
}

// NewIdempotentHandler creates a new idempotent wrapper around a handler
func NewIdempotentHandler(
	inner shared.EventHandler,
	store shared.IdempotencyStore,
	config shared.IdempotencyConfig,
	logger *zap.Logger,
) *IdempotentHandler {
	return &IdempotentHandler{
		inner:   inner,
		store:   store,
		config:  config,
		logger:  logger,
		metrics: GlobalIdempotencyMetrics,
	}
}

// EventTypes delegates to the inner handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.inner.EventTypes()
}

// Handle processes the event only if it has not been processed before.
// The check-and-set is a single atomic MarkProcessed call, so concurrent
// deliveries of the same event cannot both pass.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.inner.Handle(ctx, event)
	}

	eventID := event.EventID().String()

	newlyMarked, err := h.store.MarkProcessed(ctx, eventID, h.config.TTL)
	if err != nil {
		// Store failure must not block event processing; fall through and
		// accept the risk of a duplicate
		h.metrics.StoreErrors.Add(1)
		h.logger.Warn("idempotency store unavailable, processing without dedup",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return h.inner.Handle(ctx, event)
	}

	if !newlyMarked {
		h.metrics.DuplicatesSkipped.Add(1)
		h.logger.Debug("skipping duplicate event",
			zap.String("event_id", eventID),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	// The mark stays even if the handler fails: rule-driven posting is
	// itself idempotent by reference number, and keeping the mark avoids
	// double-posting when a retry races a slow first attempt.
	return h.inner.Handle(ctx, event)
}

// WrapHandlersWithIdempotency wraps a set of handlers with idempotency checking
func WrapHandlersWithIdempotency(
	handlers []shared.EventHandler,
	store shared.IdempotencyStore,
	config shared.IdempotencyConfig,
	logger *zap.Logger,
) []shared.EventHandler {
	wrapped := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		wrapped = append(wrapped, NewIdempotentHandler(h, store, config, logger))
	}
	return wrapped
}

// Ensure IdempotentHandler implements EventHandler
var _ shared.EventHandler = (*IdempotentHandler)(nil)
