package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qwery-ai/internal/bootstrap"
	"qwery-ai/internal/config"
	"qwery-ai/internal/pkg/logger"
	"qwery-ai/internal/server"
	"qwery-ai/internal/tracer"
	"qwery-ai/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(logger.Options{
		FilePath: cfg.App.LogFilePath,
		Level:    cfg.App.LogLevel,
		IsProd:   cfg.App.IsProduction(),
	})
	defer func() { _ = sysLogger.Sync() }()

	// 2. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(ctx, cfg.Tracing, sysLogger)
	defer func() { _ = shutdownTracer(context.Background()) }()

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(ctx, cfg.Database.DSN(), database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogLevel:     cfg.App.LogLevel,
	})
	if err != nil {
		sysLogger.Error("SERVER", "Unable to connect to database", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer func() { _ = database.Close(gormDB) }()

	if cfg.Database.EnsureSchema {
		dim, err := database.EnsureSchema(ctx, gormDB, database.SchemaOptions{
			Dimension: cfg.Database.Dimension,
			Lists:     cfg.Database.IndexLists,
		})
		if err != nil {
			sysLogger.Error("SERVER", "Failed to ensure schema", map[string]interface{}{"error": err.Error()})
			return err
		}
		sysLogger.Info("SERVER", "Schema ready", map[string]interface{}{"dimension": dim})
	}

	// 4. Container
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg, sysLogger)
	if err != nil {
		sysLogger.Error("SERVER", "Failed to build container", map[string]interface{}{"error": err.Error()})
		return err
	}
	defer func() { _ = container.Publisher.Close() }()

	// 5. Background consumer
	if container.EventConsumer != nil {
		defer func() { _ = container.EventConsumer.Close() }()
		if err := container.EventConsumer.Consume(ctx); err != nil {
			sysLogger.Warn("EVENTS", "Event consumer failed to start", map[string]interface{}{"error": err.Error()})
		}
	}

	// 6. Serve until a signal arrives
	srv := server.New(cfg, container, sysLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		sysLogger.Info("SERVER", "Shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
