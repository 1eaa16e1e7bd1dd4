// cmd/proposal-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"proposal-service/internal/audit"
	"proposal-service/internal/cache"
	commonaws "proposal-service/internal/common/aws"
	"proposal-service/internal/common/config"
	"proposal-service/internal/common/database"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/common/observability"
	"proposal-service/internal/notify"
	"proposal-service/internal/proposal/assemble"
	"proposal-service/internal/proposal/template"
	"proposal-service/internal/render"
	"proposal-service/internal/server"
	"proposal-service/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting proposal document service...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	readiness := map[string]server.ReadinessCheck{}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	readiness["postgres"] = pg.Ping
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis (optional, document cache) ---
	var documentCache server.DocumentCache
	if cfg.Cache.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			// Cache is advisory: run without it rather than refusing to start.
			zapLog.Warn("redis unavailable, document cache disabled", zap.Error(err))
		} else {
			defer redis.Close()
			readiness["redis"] = redis.Ping
			documentCache = cache.NewDocumentCache(redis,
				time.Duration(cfg.Cache.TTL)*time.Second, log)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Init Elasticsearch (optional, audit trail) ---
	var trail *audit.Trail
	if cfg.Database.Elasticsearch.GetURL() != "" {
		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, audit trail disabled", zap.Error(err))
		} else {
			trail = audit.NewTrail(esClient, log)
			zapLog.Info("Elasticsearch audit trail enabled")
		}
	}

	// --- Init AWS clients (optional, proposal delivery) ---
	var notifier *notify.Notifier
	if cfg.AWS.Region != "" {
		var email notify.EmailSender
		var events notify.EventPublisher

		if sesClient, err := commonaws.NewSESClient(ctx, cfg.AWS.Region); err != nil {
			zapLog.Warn("SES client initialization failed", zap.Error(err))
		} else {
			email = sesClient
		}
		if snsClient, err := commonaws.NewSNSClient(ctx, cfg.AWS.Region); err != nil {
			zapLog.Warn("SNS client initialization failed", zap.Error(err))
		} else {
			events = snsClient
		}

		notifier = notify.New(notify.Config{
			Email:    email,
			Events:   events,
			Sender:   cfg.AWS.SESSender,
			TopicARN: cfg.AWS.SNSTopicARN,
			Logger:   log,
		})
		zapLog.Info("AWS delivery clients initialized")
	}

	// --- Template registry and assembler ---
	registry := template.NewRegistry(template.RegistryOptions{
		Logger:      log,
		OverrideDir: cfg.Template.OverrideDir,
	})
	for _, name := range template.ThemeNames {
		if problems := template.Validate(registry.Variant(name)); len(problems) > 0 {
			zapLog.Warn("theme variant failed structural validation",
				zap.String("theme", name),
				zap.Strings("problems", problems),
			)
		}
	}

	assembler := assemble.New(assemble.Config{
		Registry:      registry,
		Logger:        log,
		Observability: obs,
		ValidityDays:  cfg.Template.ValidityDays,
	})

	// --- External PDF renderer ---
	var pdfRenderer server.PDFRenderer
	if cfg.Renderer.URL != "" {
		pdfRenderer = render.New(render.Config{
			URL:           cfg.Renderer.URL,
			Timeout:       time.Duration(cfg.Renderer.Timeout) * time.Millisecond,
			MaxConcurrent: cfg.Renderer.MaxConcurrent,
			Logger:        log,
		})
		zapLog.Info("PDF renderer configured", zap.String("url", cfg.Renderer.URL))
	}

	srv, err := server.New(server.Dependencies{
		Assembler: assembler,
		Store:     store.NewProposalStore(pg, log),
		Cache:     documentCache,
		Renderer:  pdfRenderer,
		Notifier:  notifier,
		Trail:     trail,
		Logger:    log,
		BaseURL:   cfg.Server.BaseURL,
		Readiness: readiness,
	})
	if err != nil {
		zapLog.Fatal("server initialization failed", zap.Error(err))
	}

	// pprof on a side port in non-production environments.
	if cfg.App.Environment != "production" {
		go func() {
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				zapLog.Warn("pprof server stopped", zap.Error(err))
			}
		}()
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(runCtx, cfg.Server.Addr()); err != nil {
		zapLog.Fatal("server terminated", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
