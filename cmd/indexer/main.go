package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dash-indexer/internal/classify"
	"dash-indexer/internal/config"
	"dash-indexer/internal/ingest"
	"dash-indexer/internal/observability"
	"dash-indexer/internal/solana"
	"dash-indexer/internal/storage"
	"dash-indexer/internal/storage/memory"
	"dash-indexer/internal/storage/migrations"
	pgstore "dash-indexer/internal/storage/postgres"
)

func main() {
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")
	enrichTimeout := flag.Duration("enrich-timeout", ingest.DefaultEnrichTimeout, "Timeout per block time lookup")
	dbTimeout := flag.Duration("db-timeout", ingest.DefaultDBTimeout, "Timeout per database upsert")

	flag.Parse()

	logger := log.New(os.Stdout, "[indexer] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Config error: %v", err)
	}

	metrics := observability.NewMetrics("")

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()

		sig = <-sigCh
		logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
		os.Exit(1)
	}()

	err = run(ctx, logger, cfg, metrics, *useMemory, *enrichTimeout, *dbTimeout)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, cfg *config.Config, metrics *observability.Metrics, useMemory bool, enrichTimeout, dbTimeout time.Duration) error {
	var (
		burns        storage.BurnStore
		failures     storage.TxFailureStore
		instructions storage.TxInstructionStore
	)

	if useMemory {
		logger.Println("Using in-memory storage")
		burns = memory.NewBurnStore()
		failures = memory.NewTxFailureStore()
		instructions = memory.NewTxInstructionStore()
	} else {
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pool.Metrics = metrics

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		logger.Println("Database schema ensured")

		burns = pgstore.NewBurnStore(pool)
		failures = pgstore.NewTxFailureStore(pool)
		instructions = pgstore.NewTxInstructionStore(pool)
	}

	processor := ingest.NewProcessor(ingest.ProcessorOptions{
		Burns:         burns,
		Failures:      failures,
		Instructions:  instructions,
		BlockTimes:    solana.NewBlockTimeClient(cfg.JSONRPCURL, enrichTimeout),
		Noise:         classify.NewNoiseSet(cfg.BotProgramID),
		Metrics:       metrics,
		Logger:        logger,
		EnrichTimeout: enrichTimeout,
		DBTimeout:     dbTimeout,
	})

	accountInclude := []string{cfg.BotProgramID}
	if cfg.BotAccount != "" {
		accountInclude = append(accountInclude, cfg.BotAccount)
	}

	sessionCfg := solana.SessionConfig{
		Endpoint:       cfg.StreamEndpoint,
		Token:          cfg.StreamToken,
		Commitment:     cfg.Commitment,
		AccountInclude: accountInclude,
		Logger:         logger,
		Metrics:        metrics,
	}

	supervisor := ingest.NewSupervisor(ingest.SupervisorOptions{
		RunSession: func(ctx context.Context) error {
			return solana.RunSession(ctx, sessionCfg, processor)
		},
		Metrics: metrics,
		Logger:  logger,
	})

	logger.Printf("Subscribing to transactions for program %s", cfg.BotProgramID)
	return supervisor.Run(ctx)
}
