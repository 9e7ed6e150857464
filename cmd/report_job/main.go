package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	reportapp "crm_backend/internal/application/report"
	"crm_backend/internal/config"
	"crm_backend/internal/infrastructure/cache"
	"crm_backend/internal/infrastructure/http/heartbeat"
	"crm_backend/internal/infrastructure/logsink"
	"crm_backend/internal/infrastructure/persistence/postgres"
	"crm_backend/internal/infrastructure/scheduler"
	"crm_backend/pkg/logger"
)

// report_job runs the periodic CRM jobs: report generation, pending-order
// reminders and the API heartbeat. It shares the store with the API binary
// but never serves HTTP itself.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		zlog.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	db := postgres.NewDB(pool)
	customerRepo := postgres.NewCustomerRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	var recorder reportapp.Recorder
	if cfg.Redis.Addr != "" {
		store := cache.NewReportStore(cfg.Redis)
		defer func() { _ = store.Close() }()
		if err := store.Ping(ctx); err != nil {
			zlog.Warn("redis unreachable, report runs will not be recorded", logger.Error(err))
		} else {
			recorder = store
		}
	}

	reportService := reportapp.NewService(
		customerRepo,
		orderRepo,
		productRepo,
		logsink.NewFileSink(cfg.Sinks.ReportLog),
		logsink.NewFileSink(cfg.Sinks.SummaryLog),
		recorder,
		zlog,
	)
	reminderService := reportapp.NewReminderService(
		customerRepo,
		orderRepo,
		logsink.NewFileSink(cfg.Sinks.ReminderLog),
		zlog,
	)
	probe := heartbeat.NewProbe(cfg.Jobs.APIBaseURL, logsink.NewFileSink(cfg.Sinks.HeartbeatLog), zlog)

	sched := scheduler.New(zlog)
	sched.Add(scheduler.Job{
		Name:       "crm_report",
		Interval:   cfg.Jobs.ReportInterval,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Run: func(ctx context.Context) error {
			_, err := reportService.Generate(ctx, "weekly")
			return err
		},
	})
	sched.Add(scheduler.Job{
		Name:       "order_reminders",
		Interval:   cfg.Jobs.ReminderInterval,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Run: func(ctx context.Context) error {
			_, err := reminderService.SendReminders(ctx)
			return err
		},
	})
	sched.Add(scheduler.Job{
		Name:     "heartbeat",
		Interval: cfg.Jobs.HeartbeatInterval,
		Run:      probe.Run,
	})

	zlog.Info("job runner starting",
		logger.String("report_interval", cfg.Jobs.ReportInterval.String()),
		logger.String("heartbeat_interval", cfg.Jobs.HeartbeatInterval.String()),
		logger.String("reminder_interval", cfg.Jobs.ReminderInterval.String()),
	)
	sched.Start(ctx)
	zlog.Info("job runner stopped")
}
