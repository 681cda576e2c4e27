package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/autlan/recolecta/internal/adapters/http"
	"github.com/autlan/recolecta/internal/adapters/memory"
	natsadapter "github.com/autlan/recolecta/internal/adapters/nats"
	"github.com/autlan/recolecta/internal/adapters/postgres"
	"github.com/autlan/recolecta/internal/adapters/valkey"
	"github.com/autlan/recolecta/internal/core/ports"
	"github.com/autlan/recolecta/internal/core/usecases"
	"github.com/autlan/recolecta/internal/pkg/config"
	"github.com/autlan/recolecta/internal/pkg/geospatial"
	"github.com/autlan/recolecta/internal/pkg/logging"
	"github.com/autlan/recolecta/internal/pkg/metrics"
	"github.com/autlan/recolecta/internal/pkg/telemetry"
	"github.com/autlan/recolecta/internal/workflows"
)

// repositories is the set of stores the services are built on.
type repositories struct {
	routes        ports.RouteRepository
	neighborhoods ports.NeighborhoodRepository
	trucks        ports.TruckRepository
	drivers       ports.DriverRepository
	assignments   ports.AssignmentRepository
	articles      ports.ArticleRepository
	roles         ports.RoleRepository
	profiles      ports.ProfileRepository
	contacts      ports.ContactRepository
	ping          http.Pinger
}

func main() {
	cfg, err := config.Load("recolecta-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	geospatial.OnDropped = func(n int) { metrics.GeometryPointsDropped.Add(float64(n)) }

	// Storage
	var repos repositories
	switch cfg.Database.Driver {
	case config.DriverMemory:
		slog.Warn("using in-memory storage, data is lost on restart")
		repos = memoryRepos(memory.NewStore())
	default:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		repos = postgresRepos(db)
		go reportPoolStats(ctx, db)
	}

	// Cache. Services take a nil interface when it is unavailable.
	var cache ports.CacheService
	var cachePing http.Pinger
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		defer vc.Close()
		cache, cachePing = vc, vc
	}

	// NATS
	var events ports.EventPublisher
	var pub *natsadapter.Publisher
	if p, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer p.Close()
		pub, events = p, p
	}

	var subscriber ports.EventSubscriber
	if s, err := natsadapter.NewSubscriber(cfg.NATS.URL); err != nil {
		slog.Warn("nats subscriber unavailable, live map updates disabled", "error", err)
	} else {
		defer s.Close()
		subscriber = s
	}

	// Durable contact delivery
	var starter ports.ContactWorkflowStarter
	if cfg.Temporal.Enabled {
		tc, err := workflows.Dial(cfg.Temporal)
		if err != nil {
			slog.Warn("temporal unavailable, contact requests published directly", "error", err)
		} else {
			defer tc.Close()
			starter = workflows.NewStarter(tc, cfg.Temporal.TaskQueue)
		}
	}

	deps := &http.Dependencies{
		Routes:        usecases.NewRouteService(repos.routes, cache, events),
		Neighborhoods: usecases.NewNeighborhoodService(repos.neighborhoods),
		Trucks:        usecases.NewTruckService(repos.trucks),
		Drivers:       usecases.NewDriverService(repos.drivers),
		Assignments:   usecases.NewAssignmentService(repos.assignments, repos.trucks, repos.drivers, repos.routes),
		Articles:      usecases.NewArticleService(repos.articles, cache),
		Roles:         usecases.NewRoleService(repos.roles, repos.profiles),
		Contact: usecases.NewContactService(repos.contacts, events, starter, usecases.ContactLimits{
			PerHour: cfg.Contact.RatePerHour,
			Burst:   cfg.Contact.Burst,
		}),
		Auth:   http.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Events: subscriber,
		DB:     repos.ping,
		Cache:  cachePing,
	}
	if pub != nil {
		deps.NATS = pub.Conn()
	}
	if deps.Auth == nil {
		slog.Warn("auth.jwt_secret not set, /v1/me and /v1/admin will reject every request")
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Recolecta API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-None-Match",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, http.Options{RateLimit: 120})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "driver", cfg.Database.Driver)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func memoryRepos(s *memory.Store) repositories {
	return repositories{
		routes:        s.Routes(),
		neighborhoods: s.Neighborhoods(),
		trucks:        s.Trucks(),
		drivers:       s.Drivers(),
		assignments:   s.Assignments(),
		articles:      s.Articles(),
		roles:         s.Roles(),
		profiles:      s.Profiles(),
		contacts:      s.Contacts(),
		ping:          s,
	}
}

func postgresRepos(db *postgres.DB) repositories {
	return repositories{
		routes:        postgres.NewRouteRepo(db),
		neighborhoods: postgres.NewNeighborhoodRepo(db),
		trucks:        postgres.NewTruckRepo(db),
		drivers:       postgres.NewDriverRepo(db),
		assignments:   postgres.NewAssignmentRepo(db),
		articles:      postgres.NewArticleRepo(db),
		roles:         postgres.NewRoleRepo(db),
		profiles:      postgres.NewProfileRepo(db),
		contacts:      postgres.NewContactRepo(db),
		ping:          db,
	}
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		}
	}
}
