package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/pipeline-monitor/internal/api"
	"github.com/ignite/pipeline-monitor/internal/config"
	"github.com/ignite/pipeline-monitor/internal/email"
	"github.com/ignite/pipeline-monitor/internal/ingestion"
	"github.com/ignite/pipeline-monitor/internal/pipeline"
	"github.com/ignite/pipeline-monitor/internal/pkg/logger"
	"github.com/ignite/pipeline-monitor/internal/rules"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to yaml config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logger.DEBUG)
	}

	if err := checkPortAvailable(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Error("port check failed", "error", err)
		os.Exit(1)
	}

	drafter, err := email.NewDrafter(cfg.Email.SenderName)
	if err != nil {
		logger.Error("failed to build email drafter", "error", err)
		os.Exit(1)
	}

	engine := rules.NewEngine(cfg.Rules)
	evaluator := pipeline.NewEvaluator(ingestion.Normalize, engine, drafter)
	handlers := api.NewHandlers(evaluator)

	// Pre-load sample data so the dashboard has something to show before
	// the first upload.
	if cfg.Data.SamplePath != "" {
		if err := loadSample(handlers, cfg.Data.SamplePath); err != nil {
			logger.Warn("could not load sample data", "path", cfg.Data.SamplePath, "error", err)
		}
	}

	server := api.NewServer(cfg.Server, handlers)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
			os.Exit(1)
		}
	}
}

func loadSample(handlers *api.Handlers, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := ingestion.ReadCSV(f)
	if err != nil {
		return err
	}

	batch := handlers.LoadRecords(records, path)
	logger.Info("loaded sample data",
		"path", path,
		"batch_id", batch.ID,
		"evaluated", len(batch.Result.Insights),
		"skipped", len(batch.Result.RecordErrors),
	)
	return nil
}
