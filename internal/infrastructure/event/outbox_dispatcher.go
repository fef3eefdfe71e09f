package event

import (
	"context"
	"sync"
	"time"

	"github.com/erp/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxDispatcherConfig holds configuration for the outbox dispatcher
type OutboxDispatcherConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultOutboxDispatcherConfig returns the default configuration
func DefaultOutboxDispatcherConfig() OutboxDispatcherConfig {
	return OutboxDispatcherConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// OutboxDispatcher polls the outbox and delivers committed domain events to
// the event bus. Delivery is at-least-once: an entry is only marked sent
// after a successful publish, and failed entries are retried with backoff
// until they go dead.
type OutboxDispatcher struct {
	repo       shared.OutboxRepository
	publisher  shared.EventPublisher
	serializer *EventSerializer
	config     OutboxDispatcherConfig
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxDispatcher creates a new OutboxDispatcher
func NewOutboxDispatcher(
	repo shared.OutboxRepository,
	publisher shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxDispatcherConfig,
	logger *zap.Logger,
) *OutboxDispatcher {
	return &OutboxDispatcher{
		repo:       repo,
		publisher:  publisher,
		serializer: serializer,
		config:     config,
		logger:     logger,
	}
}

// Start starts the background polling and cleanup loops
func (d *OutboxDispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(2)
	go d.dispatchLoop(ctx)
	go d.cleanupLoop(ctx)

	d.logger.Info("outbox dispatcher started",
		zap.Int("batch_size", d.config.BatchSize),
		zap.Duration("poll_interval", d.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the dispatcher
func (d *OutboxDispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("outbox dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *OutboxDispatcher) dispatchLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.dispatchBatch(ctx)
		}
	}
}

// dispatchBatch claims due entries and delivers them
func (d *OutboxDispatcher) dispatchBatch(ctx context.Context) {
	pending, err := d.repo.FindPending(ctx, d.config.BatchSize)
	if err != nil {
		d.logger.Error("failed to find pending outbox entries", zap.Error(err))
		return
	}
	d.dispatchEntries(ctx, pending)

	retryable, err := d.repo.FindRetryable(ctx, time.Now(), d.config.BatchSize)
	if err != nil {
		d.logger.Error("failed to find retryable outbox entries", zap.Error(err))
		return
	}
	d.dispatchEntries(ctx, retryable)
}

func (d *OutboxDispatcher) dispatchEntries(ctx context.Context, entries []*shared.OutboxEntry) {
	if len(entries) == 0 {
		return
	}

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}

	claimed, err := d.repo.MarkProcessing(ctx, ids)
	if err != nil {
		d.logger.Error("failed to claim outbox entries", zap.Error(err))
		return
	}

	for _, entry := range claimed {
		d.dispatchEntry(ctx, entry)
	}
}

// dispatchEntry delivers one entry to the bus and records the outcome
func (d *OutboxDispatcher) dispatchEntry(ctx context.Context, entry *shared.OutboxEntry) {
	domainEvent, err := d.serializer.Deserialize(entry.EventType, entry.Payload)
	if err != nil {
		d.recordFailure(ctx, entry, err)
		return
	}

	if err := d.publisher.Publish(ctx, domainEvent); err != nil {
		d.recordFailure(ctx, entry, err)
		return
	}

	entry.MarkSent()
	if err := d.repo.Update(ctx, entry); err != nil {
		// The event was delivered; the entry stays claimed and is retried
		// by hand or cleanup, never redelivered as pending
		d.logger.Error("failed to mark outbox entry sent",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
		return
	}

	d.logger.Debug("outbox entry delivered",
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
	)
}

func (d *OutboxDispatcher) recordFailure(ctx context.Context, entry *shared.OutboxEntry, cause error) {
	entry.MarkFailed(cause.Error())
	if entry.IsDead() {
		d.logger.Warn("outbox entry moved to dead letter",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Int("retry_count", entry.RetryCount),
			zap.String("last_error", entry.LastError),
		)
	} else {
		d.logger.Error("outbox delivery failed, will retry",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Int("retry_count", entry.RetryCount),
			zap.Error(cause),
		)
	}
	if err := d.repo.Update(ctx, entry); err != nil {
		d.logger.Error("failed to update outbox entry", zap.Error(err))
	}
}

func (d *OutboxDispatcher) cleanupLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.cleanup(ctx)
		}
	}
}

// cleanup removes sent entries past the retention window
func (d *OutboxDispatcher) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-d.config.CleanupRetention)
	deleted, err := d.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		d.logger.Error("failed to clean up outbox", zap.Error(err))
		return
	}
	if deleted > 0 {
		d.logger.Info("cleaned up sent outbox entries", zap.Int64("deleted", deleted))
	}
}
