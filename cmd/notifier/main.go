package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/worker"

	natsadapter "github.com/autlan/recolecta/internal/adapters/nats"
	"github.com/autlan/recolecta/internal/adapters/postgres"
	"github.com/autlan/recolecta/internal/pkg/config"
	"github.com/autlan/recolecta/internal/pkg/logging"
	"github.com/autlan/recolecta/internal/workflows"
)

func main() {
	cfg, err := config.Load("recolecta-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	// The worker updates rows the api wrote, so it needs the shared database.
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("notifier requires database.driver=%q, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	c, err := workflows.Dial(cfg.Temporal)
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	w.RegisterWorkflow(workflows.ContactRequestWorkflow)
	w.RegisterActivity(&workflows.ContactActivities{
		Contacts: postgres.NewContactRepo(db),
		Events:   pub,
	})

	slog.Info("notifier worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
