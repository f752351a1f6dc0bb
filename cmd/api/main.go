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

	"github.com/samirrijal/routemap/internal/adapters/http"
	"github.com/samirrijal/routemap/internal/adapters/mapview"
	natsadapter "github.com/samirrijal/routemap/internal/adapters/nats"
	"github.com/samirrijal/routemap/internal/adapters/nominatim"
	"github.com/samirrijal/routemap/internal/adapters/openroute"
	"github.com/samirrijal/routemap/internal/adapters/postgres"
	"github.com/samirrijal/routemap/internal/adapters/s3archive"
	"github.com/samirrijal/routemap/internal/adapters/valkey"
	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/core/usecases"
	"github.com/samirrijal/routemap/internal/pkg/config"
	"github.com/samirrijal/routemap/internal/pkg/httpclient"
	"github.com/samirrijal/routemap/internal/pkg/logging"
	"github.com/samirrijal/routemap/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("routemap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

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

	deps := &http.Dependencies{Version: version}

	// Upstream services
	client := httpclient.New(cfg.Planner.HTTPTimeout)
	if cfg.Router.APIKey == "" {
		slog.Warn("router.api_key is empty, openrouteservice will reject requests")
	}
	router := openroute.New(client, cfg.Router.BaseURL, cfg.Router.APIKey, cfg.Router.Profile)
	var geocoder ports.Geocoder = nominatim.New(client, cfg.Geocoder.BaseURL, cfg.Geocoder.CountryCode, cfg.Geocoder.UserAgent)

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
	if err != nil {
		slog.Warn("valkey unavailable, geocode cache disabled", "error", err)
	} else {
		defer cache.Close()
		deps.Cache = cache
		geocoder = usecases.NewGeocodeService(geocoder, cache, cfg.Geocoder.CountryCode, cfg.Geocoder.CacheTTL)
	}

	// Database
	var repo ports.LookupRepository
	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			slog.Warn("database unavailable, lookup history disabled", "error", err)
		} else {
			defer db.Close()
			applied, err := db.MigrateUp(ctx)
			if err != nil {
				log.Fatalf("migrate: %v", err)
			}
			if len(applied) > 0 {
				slog.Info("migrations applied", "versions", applied)
			}
			repo = postgres.NewLookupRepo(db)
			deps.DB = db
		}
	}

	// NATS, with the in-process hub as the command relay when absent
	var events ports.EventPublisher
	var commandSink func(sessionID string) mapview.Sink
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, relaying map commands in process", "error", err)
		hub := mapview.NewHub()
		commandSink = hub.Sink
		deps.Commands = hub
	} else {
		defer pub.Close()
		events = pub
		commandSink = func(sessionID string) mapview.Sink {
			return mapview.SinkFunc(func(ctx context.Context, cmd domain.MapCommand) error {
				return pub.PublishMapCommand(ctx, sessionID, cmd)
			})
		}
		sub := natsadapter.NewSubscriber(pub.Conn())
		deps.Commands = sub
		deps.Events = sub
		deps.NATS = pub.Conn()
	}

	// Route archive
	var archive ports.RouteArchive
	if cfg.Archive.Enabled {
		a, err := s3archive.New(ctx, cfg.Archive.Region, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			slog.Warn("s3 archive unavailable", "error", err)
		} else {
			archive = a
		}
	}

	// Use cases
	lookups := usecases.NewLookupService(repo, events, archive)
	presenters := mapview.Factory{NewSink: func(sessionID string) mapview.Sink {
		return mapview.Tee(commandSink(sessionID), mapview.Log(slog.Default(), sessionID))
	}}
	sessions := usecases.NewSessionRegistry(presenters, geocoder, router, lookups, usecases.PlannerConfigFrom(cfg))
	go sessions.Run(ctx, time.Minute, cfg.Planner.SessionIdle)

	deps.Sessions = sessions
	deps.Lookups = lookups

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "routemap",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
