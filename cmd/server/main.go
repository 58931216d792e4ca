package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	fieldshandler "fieldgate/internal/fields/handler"
	fieldsmetrics "fieldgate/internal/fields/metrics"
	fieldsservice "fieldgate/internal/fields/service"
	"fieldgate/internal/fields/store/definition"
	"fieldgate/internal/fields/store/value"
	"fieldgate/internal/platform/config"
	"fieldgate/internal/platform/httpserver"
	"fieldgate/internal/platform/logger"
	platformmetrics "fieldgate/internal/platform/metrics"
	platformredis "fieldgate/internal/platform/redis"
	"fieldgate/internal/platform/token"
	"fieldgate/internal/settings"
	settingshandler "fieldgate/internal/settings/handler"
	httptransport "fieldgate/internal/transport/http"
	"fieldgate/internal/verification"
	verificationconfig "fieldgate/internal/verification/config"
	verificationhandler "fieldgate/internal/verification/handler"
	verificationmetrics "fieldgate/internal/verification/metrics"
	"fieldgate/internal/verification/store/credential"
	"fieldgate/pkg/platform/audit"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			fatal(log, "failed to connect audit publisher", err)
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("audit events publishing to kafka", "topic", cfg.KafkaTopic)
	} else {
		publisher = audit.NewMemoryPublisher()
		log.Warn("AUDIT_KAFKA_BROKERS not set, audit events stay in memory")
	}

	var (
		definitionStore fieldsservice.DefinitionStore
		valueStore      fieldsservice.ValueStore
		credentialStore verification.CredentialStore
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			fatal(log, "failed to open database", err)
		}
		defer db.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			fatal(log, "failed to ping database", err)
		}
		definitionStore = definition.NewPostgres(db)
		valueStore = value.NewPostgres(db)
		credentialStore = credential.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		definitionStore = definition.NewInMemory()
		valueStore = value.NewInMemory()
		credentialStore = credential.NewInMemory()
	}

	var settingsStore settings.Store
	if cfg.RedisAddr != "" {
		client, err := platformredis.New(ctx, cfg.RedisAddr)
		if err != nil {
			fatal(log, "failed to connect to redis", err)
		}
		defer client.Close()
		settingsStore = settings.NewRedisStore(client)
	} else {
		log.Warn("REDIS_ADDR not set, using in-memory settings store")
		settingsStore = settings.NewMemoryStore()
	}

	settingsService := settings.NewService(settingsStore, log, publisher)

	fieldsService := fieldsservice.New(definitionStore, valueStore,
		fieldsservice.WithLogger(log),
		fieldsservice.WithMetrics(fieldsmetrics.New()),
		fieldsservice.WithAuditPublisher(publisher),
	)

	verificationService := verification.NewService(
		verificationconfig.NewLoader(settingsService),
		credentialStore,
		verification.WithLogger(log),
		verification.WithMetrics(verificationmetrics.New()),
		verification.WithAuditPublisher(publisher),
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:       log,
		Metrics:      platformmetrics.New(),
		Validator:    token.NewValidator(cfg.JWTSigningKey),
		AdminKeyHash: cfg.AdminKeyHash,
		Fields:       fieldshandler.New(fieldsService, log),
		Verification: verificationhandler.New(verificationService, log),
		Settings:     settingshandler.New(settingsService, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting fieldgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fatal(log, "graceful shutdown failed", err)
	}
	log.Info("fieldgate stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err.Error())
	os.Exit(1)
}
