// docufieldd is the extraction service daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docufield/docufield/internal/config"
	"github.com/docufield/docufield/internal/export"
	"github.com/docufield/docufield/internal/extract"
	"github.com/docufield/docufield/internal/llm/openai"
	"github.com/docufield/docufield/internal/observability/logging"
	"github.com/docufield/docufield/internal/observability/metrics"
	"github.com/docufield/docufield/internal/patterns"
	"github.com/docufield/docufield/internal/pdftext"
	"github.com/docufield/docufield/internal/pipeline"
	"github.com/docufield/docufield/internal/repository"
	"github.com/docufield/docufield/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.NewJSONLogger("docufieldd", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store *repository.SQLStore
		err   error
	)
	openCtx, cancel := context.WithTimeout(ctx, cfg.Store.DialTimeout)
	switch cfg.Store.Driver {
	case "postgres":
		store, err = repository.OpenPostgres(openCtx, cfg.Store.DSN, log)
	default:
		store, err = repository.OpenSQLite(openCtx, cfg.Store.DSN, log)
	}
	cancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.HealthCheck(ctx, cfg.Store.DialTimeout); err != nil {
		return fmt.Errorf("store health: %w", err)
	}
	log.Info("store.ready", "driver", cfg.Store.Driver)

	m := metrics.NewPipelineMetrics()

	tasks := repository.NewTaskRepository(store)
	templates := repository.NewTemplateRepository(store)

	textExtractor := pdftext.NewExtractor(pdftext.Config{}, log)
	primary := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		MaxTextLen:  cfg.LLM.MaxTextLen,
	}, log)
	fallback := patterns.NewExtractor(log)
	fields := extract.NewCombined(primary, fallback, log, m)

	pipe := pipeline.New(tasks, textExtractor, fields, log, m)
	exporter := export.NewService(tasks, log)

	srv := server.New(cfg.Server.Addr, server.Deps{
		Tasks:     tasks,
		Templates: templates,
		Text:      textExtractor,
		Fields:    fields,
		Pipeline:  pipe,
		Export:    exporter,
		Metrics:   m,
		Health: func(hctx context.Context) error {
			return store.HealthCheck(hctx, 3*time.Second)
		},
		Logger:         log,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: splitOrigins(cfg.Server.CORSOrigins),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
