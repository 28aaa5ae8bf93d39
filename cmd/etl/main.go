package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qwery-ai/internal/bootstrap"
	"qwery-ai/internal/config"
	"qwery-ai/internal/etl"
	"qwery-ai/internal/pkg/logger"
	"qwery-ai/internal/service"
	"qwery-ai/pkg/database"
	"qwery-ai/pkg/embedding"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.Load()

	var (
		sourcePath string
		modelName  string
		dimension  int
		lists      int
	)

	rootCmd := &cobra.Command{
		Use:           "etl",
		Short:         "Load text documents with embeddings into pgvector",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Loader.DocumentsPath = sourcePath
			cfg.Embedding.LocalModel = modelName
			cfg.Database.Dimension = dimension
			cfg.Database.IndexLists = lists
			return runPipeline(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().StringVar(&sourcePath, "source", cfg.Loader.DocumentsPath, "Directory scanned recursively for *.txt files")
	rootCmd.Flags().StringVar(&modelName, "model", cfg.Embedding.LocalModel, "Embedding model served by the local model runtime")
	rootCmd.Flags().IntVar(&dimension, "dimension", cfg.Database.Dimension, "Embedding column dimension used when creating the table")
	rootCmd.Flags().IntVar(&lists, "lists", cfg.Database.IndexLists, "ivfflat list count used when creating the index")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("ETL pipeline failed: %v", err)
		stop()
		os.Exit(1)
	}
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	sysLogger := logger.NewZapLogger(logger.Options{
		FilePath: cfg.App.LogFilePath,
		Level:    cfg.App.LogLevel,
		IsProd:   cfg.App.IsProduction(),
	})
	defer func() { _ = sysLogger.Sync() }()

	publisher, consumer, err := bootstrap.NewPublisher(ctx, cfg.Events, sysLogger)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()
	if consumer != nil {
		// The in-process bus only has listeners inside this run; a NATS
		// consumer belongs to the query service.
		if cfg.Events.Bus == "memory" {
			if err := consumer.Consume(ctx); err != nil {
				sysLogger.Warn("EVENTS", "Event consumer failed to start", map[string]interface{}{"error": err.Error()})
			}
		} else {
			_ = consumer.Close()
		}
	}

	connect := etl.GormConnector(
		cfg.Database.DSN(),
		database.PoolConfig{
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			LogLevel:     cfg.App.LogLevel,
		},
		database.SchemaOptions{
			Dimension: cfg.Database.Dimension,
			Lists:     cfg.Database.IndexLists,
		},
	)
	model := embedding.NewLocalModel(cfg.Embedding.BaseURL, cfg.Embedding.LocalModel)

	pipeline := etl.NewPipeline(
		connect,
		model,
		service.NewEventService(publisher, sysLogger),
		etl.Options{SourcePath: cfg.Loader.DocumentsPath},
		sysLogger,
	)

	color.Cyan("Starting ETL pipeline (source %s, model %s)", cfg.Loader.DocumentsPath, cfg.Embedding.LocalModel)
	report, err := pipeline.Run(ctx)
	printReport(report)
	return err
}

func printReport(r *etl.Report) {
	if r == nil {
		return
	}
	fmt.Println()
	fmt.Printf("  %-10s %s\n", "run", r.RunId)
	fmt.Printf("  %-10s %d\n", "extracted", r.Extracted)
	fmt.Printf("  %-10s %d\n", "embedded", r.Embedded)
	if r.Failed > 0 {
		color.Yellow("  %-10s %d", "failed", r.Failed)
	} else {
		fmt.Printf("  %-10s %d\n", "failed", r.Failed)
	}
	color.Green("  %-10s %d", "loaded", r.Loaded)
	fmt.Printf("  %-10s %s\n", "duration", r.Duration.Round(time.Millisecond))
	fmt.Println()
}
