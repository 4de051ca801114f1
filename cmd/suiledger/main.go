package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/suiledger/internal/api"
	"github.com/mtlprog/suiledger/internal/coin"
	"github.com/mtlprog/suiledger/internal/config"
	"github.com/mtlprog/suiledger/internal/database"
	"github.com/mtlprog/suiledger/internal/domain"
	"github.com/mtlprog/suiledger/internal/enrich"
	"github.com/mtlprog/suiledger/internal/export"
	"github.com/mtlprog/suiledger/internal/history"
	"github.com/mtlprog/suiledger/internal/journal"
	"github.com/mtlprog/suiledger/internal/ledger"
	"github.com/mtlprog/suiledger/internal/logging"
	"github.com/mtlprog/suiledger/internal/metrics"
	"github.com/mtlprog/suiledger/internal/rpc"
	"github.com/mtlprog/suiledger/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	app := &cli.App{
		Name:  "suiledger",
		Usage: "reconcile and display Sui account transaction ledgers",
		Before: func(c *cli.Context) error {
			cfg := config.Load()
			logging.Setup(logOutput(c.Args().First()), cfg.LogLevel, cfg.LogFormat)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the refresh worker",
				Action: serve,
			},
			{
				Name:  "history",
				Usage: "reconcile one account and print its ledger as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Required: true},
					&cli.StringFlag{Name: "mode", Value: string(coin.ModeLoose), Usage: "loose or accurate"},
				},
				Action: printHistory,
			},
			{
				Name:  "format",
				Usage: "format an integer balance for display",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "balance", Required: true},
					&cli.StringFlag{Name: "coin-type", Value: domain.NativeCoin().String()},
					&cli.StringFlag{Name: "mode", Value: string(coin.ModeLoose), Usage: "loose or accurate"},
				},
				Action: formatBalance,
			},
			{
				Name:  "parse-amount",
				Usage: "convert a decimal amount into the coin's smallest unit",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "amount", Required: true},
					&cli.StringFlag{Name: "coin-type", Value: domain.NativeCoin().String()},
				},
				Action: parseAmount,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// logOutput keeps stdout free for the JSON that one-shot commands print.
func logOutput(command string) io.Writer {
	if command == "serve" {
		return os.Stdout
	}
	return os.Stderr
}

func newRPCClient(cfg config.Config) *rpc.Client {
	return rpc.NewClient(cfg.RPCURL, rpc.Options{
		MaxRetries:       cfg.RPCRetryMax,
		BaseDelay:        cfg.RPCRetryBaseDelay,
		Timeout:          cfg.RPCTimeout,
		RateLimit:        cfg.RPCRateLimit,
		Burst:            cfg.RPCBurst,
		BatchSize:        cfg.RPCBatchSize,
		BatchConcurrency: cfg.RPCBatchConcurrency,
	})
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	registry := cfg.CoinRegistry()

	// Run journal is optional
	var (
		recorder ledger.RunRecorder
		runs     api.RunReader
	)
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()

		migrationsSub, err := fs.Sub(migrationsFS, "migrations")
		if err != nil {
			return fmt.Errorf("creating migrations sub-fs: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

		repo := journal.NewPgRepository(pool)
		recorder, runs = repo, repo
	} else {
		slog.Warn("DATABASE_URL not set, run journal disabled")
	}

	cache := ledger.NewCache()
	cache.Subscribe(func(address string, state domain.LedgerState) {
		slog.Debug("ledger state changed", "address", address, "phase", state.Phase, "entries", len(state.Entries))
	})

	client := newRPCClient(cfg)
	metricsSvc := metrics.NewService()
	executor := ledger.NewExecutor(
		cache,
		history.NewService(client, client),
		enrich.NewService(client, registry, cfg.ObjectCacheTTL),
		recorder,
		metricsSvc,
	)

	refreshWorker := worker.NewRefreshWorker(executor, cfg.WatchAddresses, cfg.RefreshInterval)
	go refreshWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, refresh endpoint is unprotected")
	}

	handler := api.NewHandler(executor.Cache(), executor, runs, registry)
	srv := api.NewServer(cfg.HTTPPort, handler, metricsSvc.Handler(), cfg.AdminAPIKey)

	go func() {
		slog.Info("HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func printHistory(c *cli.Context) error {
	mode, err := coin.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	cfg := config.Load()
	registry := cfg.CoinRegistry()
	client := newRPCClient(cfg)
	executor := ledger.NewExecutor(
		ledger.NewCache(),
		history.NewService(client, client),
		enrich.NewService(client, registry, 0),
		nil,
		nil,
	)

	address := c.String("address")
	if _, err := executor.Run(c.Context, address); err != nil {
		return fmt.Errorf("reconciling %s: %w", address, err)
	}

	state := executor.Cache().Get(address)
	return writeOutput(c, export.BuildRows(state.Entries, registry, mode))
}

func formatBalance(c *cli.Context) error {
	balance, err := coin.ParseBalance(c.String("balance"))
	if err != nil {
		return fmt.Errorf("parsing balance: %w", err)
	}
	coinType, err := coin.ParseCoinType(c.String("coin-type"))
	if err != nil {
		return err
	}
	mode, err := coin.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}
	return writeOutput(c, config.Load().CoinRegistry().FormatForDisplay(balance, coinType, mode))
}

func parseAmount(c *cli.Context) error {
	coinType, err := coin.ParseCoinType(c.String("coin-type"))
	if err != nil {
		return err
	}
	amount, err := config.Load().CoinRegistry().ParseAmount(c.String("amount"), coinType)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, amount.String())
	return err
}

func writeOutput(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
