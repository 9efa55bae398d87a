// Command sentinel runs the live pool-detection pipeline: poll the
// chain for new blocks, match DEX pool creations, score each first-seen
// pool and route it to the (simulated) trade hook.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/config"
	"cardano-pool-sentinel/internal/decision"
	"cardano-pool-sentinel/internal/dex"
	"cardano-pool-sentinel/internal/discovery"
	"cardano-pool-sentinel/internal/observability"
	"cardano-pool-sentinel/internal/risk"
	"cardano-pool-sentinel/internal/scanner"
	"cardano-pool-sentinel/internal/storage"
	chstore "cardano-pool-sentinel/internal/storage/clickhouse"
	"cardano-pool-sentinel/internal/storage/memory"
	"cardano-pool-sentinel/internal/storage/migrations"
	pgstore "cardano-pool-sentinel/internal/storage/postgres"
	"cardano-pool-sentinel/internal/tokens"
	"cardano-pool-sentinel/internal/trade"
)

func main() {
	configPath := flag.String("config", ".", "Directory containing config.yaml")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Configuration error")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig.String()).Info("Shutting down")
		cancel()

		select {
		case sig := <-sigCh:
			logger.WithField("signal", sig.String()).Warn("Forcing immediate shutdown")
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Warn("Graceful shutdown timed out, forcing exit")
			os.Exit(1)
		}
	}()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("Sentinel failed")
	}
	logger.Info("Shutdown complete")
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics("", registry)
	startMetricsServer(cfg.Metrics.ListenAddr, registry, logger)

	client := chain.NewHTTPClient(cfg.Chain.BaseURL, cfg.Chain.ProjectID)
	if status, err := client.NetworkStatus(ctx); err != nil {
		return err
	} else if status.SyncProgress < 1 {
		logger.WithField("sync", status.SyncProgress).Warn("Provider not fully synced")
	}

	// Default to the in-memory stores; a Postgres DSN makes progress
	// and the ledger survive restarts.
	var ledgerStore storage.PoolLedgerStore = memory.NewPoolLedgerStore()
	var progressStore storage.ScanProgressStore = memory.NewScanProgressStore()
	if cfg.Database.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		ledgerStore = pgstore.NewPoolLedgerStore(pool)
		progressStore = pgstore.NewScanProgressStore(pool)
		logger.Info("Using Postgres storage")
	}

	var assessments storage.AssessmentStore
	if cfg.Database.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Database.ClickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		assessments = chstore.NewAssessmentStore(conn)
		logger.Info("Archiving assessments to ClickHouse")
	}

	var tips <-chan *chain.Block
	if cfg.Chain.TipStreamWS != "" {
		stream, err := chain.NewTipStream(ctx, cfg.Chain.TipStreamWS, nil)
		if err != nil {
			logger.WithError(err).Warn("Tip stream unavailable, polling only")
		} else {
			defer stream.Close()
			tips = stream.Tips()
		}
	}

	resolver := tokens.NewResolver(client, logger)
	matcher := discovery.NewMatcher(dex.Default(), resolver, cfg.Trading.MinLiquidityADA)
	ledger := discovery.NewLedger(ledgerStore)
	stats := scanner.NewStats(cfg.Trading.TradeADA, metrics)
	executor := trade.NewSimulatedExecutor(cfg.Trading.TradeADA, logger)
	evaluator := decision.NewEvaluator(executor, stats, cfg.Trading.RiskThreshold, logger)

	runner := scanner.NewRunner(scanner.RunnerOptions{
		Client:         client,
		Cursor:         scanner.NewCursor(client, progressStore),
		Matcher:        matcher,
		Ledger:         ledger,
		Engine:         risk.NewEngine(client, logger),
		Evaluator:      evaluator,
		Assessments:    assessments,
		Stats:          stats,
		Tips:           tips,
		ScanInterval:   cfg.Scanner.ScanInterval,
		ReportInterval: cfg.Scanner.ReportInterval,
		ErrorBackoff:   cfg.Scanner.ErrorBackoff,
		FetchLimit:     cfg.Scanner.FetchLimit,
		Logger:         logger,
	})

	logger.WithFields(logrus.Fields{
		"network":        cfg.Chain.Network,
		"risk_threshold": cfg.Trading.RiskThreshold,
		"min_liquidity":  cfg.Trading.MinLiquidityADA,
		"dry_run":        cfg.Trading.DryRun,
	}).Info("Starting pool sentinel")

	return runner.Run(ctx)
}

// startMetricsServer exposes /metrics and /health. Empty addr disables
// the server.
func startMetricsServer(addr string, registry *prometheus.Registry, logger *logrus.Logger) {
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler(registry))
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		logger.WithField("addr", addr).Info("Starting metrics server")
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Metrics server error")
		}
	}()
}
