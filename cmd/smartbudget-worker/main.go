package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"smartbudget/internal/amqp"
	"smartbudget/internal/cli"
	"smartbudget/internal/config"
	"smartbudget/internal/log"
	"smartbudget/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfgFile := flag.String("config", "", "YAML config file (environment variables take precedence)")
	flag.Parse()

	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	v := config.NewViper()
	if err := config.ReadFile(v, *cfgFile); err != nil {
		return err
	}
	cfg := config.Load(v)

	logger := cli.SetupLogger(cfg.LogLevel, os.Stderr).WithComponent(log.ComponentWorker)
	logger.Info("Starting smartbudget-worker", log.FieldOperation, log.OpStartup)

	if !cfg.AMQPEnabled() {
		return errors.New("AMQP_URL is required for the worker")
	}

	repo, err := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		_ = repo.Close()
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		return err
	}
	client.SetLogger(logger)

	auditWorker := worker.NewAuditWorker(repo, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, auditWorker.HandleChange)
	})
	g.Go(func() error {
		return cli.WaitForSignal(gctx, logger)
	})

	err = g.Wait()

	cli.Shutdown(logger, shutdownTimeout, func() {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, cerr)
		}
		if cerr := repo.Close(); cerr != nil {
			logger.Warn("Failed to close SQLite repository", log.FieldError, cerr)
		}
	})

	stats := auditWorker.Stats()
	logger.Info("Worker stopped",
		log.FieldOperation, log.OpShutdown,
		"recorded", stats.Recorded,
		"duplicates", stats.Duplicates,
		"failed", stats.Failed)

	if errors.Is(err, cli.ErrShutdownSignal) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
