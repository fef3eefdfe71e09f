package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountingapp "github.com/erp/ledger/internal/application/accounting"
	"github.com/erp/ledger/internal/domain/accounting"
	"github.com/erp/ledger/internal/domain/shared"
	"github.com/erp/ledger/internal/infrastructure/cache"
	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/erp/ledger/internal/infrastructure/event"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/infrastructure/persistence"
	"github.com/erp/ledger/internal/interfaces/http/handler"
	"github.com/erp/ledger/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	if err := db.Migrate(); err != nil {
		return err
	}
	log.Info("database ready",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	// Repositories
	accountRepo := persistence.NewGormChartOfAccountRepository(db.DB())
	journalRepo := persistence.NewGormJournalEntryRepository(db.DB())
	periodRepo := persistence.NewGormAccountingPeriodRepository(db.DB())
	ruleRepo := persistence.NewGormPostingRuleRepository(db.DB())

	// Event bus and idempotency store
	bus := event.NewInMemoryEventBus(log.Named("eventbus"))
	if err := bus.Start(ctx); err != nil {
		return err
	}
	defer bus.Stop(context.Background()) //nolint:errcheck

	// Transactional outbox: posted-entry events commit with the entry and
	// are delivered to the bus by the dispatcher afterwards
	serializer := event.NewEventSerializer()
	event.RegisterLedgerEvents(serializer)
	journalRepo.SetOutboxEventSaver(persistence.NewOutboxPublisher(serializer))

	outboxRepo := persistence.NewGormOutboxRepository(db.DB())
	dispatcher := event.NewOutboxDispatcher(
		outboxRepo, bus, serializer, event.DefaultOutboxDispatcherConfig(), log.Named("outbox"),
	)
	if err := dispatcher.Start(ctx); err != nil {
		return err
	}
	defer dispatcher.Stop(context.Background()) //nolint:errcheck

	var idempotencyStore shared.IdempotencyStore
	if cfg.Event.UseRedisStore {
		store, err := cache.NewRedisIdempotencyStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		idempotencyStore = store
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore(cfg.Event.CleanupInterval)
	}
	defer idempotencyStore.Close() //nolint:errcheck

	// Application services
	journaling := accountingapp.NewJournalingService(
		accountRepo, journalRepo, periodRepo, ruleRepo, log.Named("journaling"),
	)
	periodService := accountingapp.NewPeriodService(
		periodRepo, accounting.NewPeriodValidator(periodRepo), bus, log.Named("periods"),
	)
	ruleService := accountingapp.NewPostingRuleService(ruleRepo, accountRepo, log.Named("rules"))
	accountService := accountingapp.NewAccountService(accountRepo, log.Named("accounts"))

	// Rule-driven posting reacts to module events on the bus; the idempotent
	// wrapper drops redelivered events
	postingHandler := accountingapp.NewPostingEventHandler(journaling, log.Named("posting"))
	idempotencyConfig := shared.IdempotencyConfig{
		TTL:     cfg.Event.IdempotencyTTL,
		Enabled: cfg.Event.IdempotencyEnabled,
	}
	for _, h := range event.WrapHandlersWithIdempotency(
		[]shared.EventHandler{postingHandler},
		idempotencyStore, idempotencyConfig, log.Named("idempotency"),
	) {
		bus.Subscribe(h)
	}

	// HTTP surface
	engine, err := router.New(
		router.Config{Env: cfg.App.Env, TrustedProxies: cfg.HTTP.TrustedProxies},
		log.Named("http"),
		handler.NewSystemHandler(db),
		handler.NewAccountHandler(accountService),
		handler.NewPeriodHandler(periodService),
		handler.NewJournalEntryHandler(journaling, journalRepo),
		handler.NewPostingRuleHandler(ruleService),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
