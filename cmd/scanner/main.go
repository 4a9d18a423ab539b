package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/openquant/bwb-scanner/internal/api"
	"github.com/openquant/bwb-scanner/internal/chain"
	"github.com/openquant/bwb-scanner/internal/config"
	"github.com/openquant/bwb-scanner/internal/models"
	"github.com/openquant/bwb-scanner/internal/scanner"
)

func main() {
	var (
		configPath string
		serve      bool
		ticker     string
		expiry     string
	)
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.BoolVar(&serve, "serve", false, "Run the HTTP API instead of a one-shot scan")
	flag.StringVar(&ticker, "ticker", "", "Ticker to scan (one-shot mode; defaults to chain.ticker)")
	flag.StringVar(&expiry, "expiry", "", "Optional expiry to scan (YYYY-MM-DD)")
	flag.Parse()

	// Optional .env for ${VAR} expansion in the config file.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.Environment.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	loader := chain.NewLoader(logger)
	provider, err := buildProvider(cfg, loader, logger)
	if err != nil {
		logger.Fatalf("Failed to build chain provider: %v", err)
	}

	var cache *scanner.ResultCache
	if cfg.Cache.Enabled {
		cache = scanner.NewResultCache(cfg.Cache.Capacity)
	}
	sc := scanner.NewScanner(cfg.Policy(), cache, logger)

	if serve {
		runServer(cfg, sc, provider, logger)
		return
	}

	if ticker == "" {
		ticker = cfg.Chain.Ticker
	}
	if ticker == "" {
		logger.Fatal("No ticker: pass -ticker or set chain.ticker in the config")
	}
	runScan(sc, provider, logger, ticker, expiry)
}

func buildProvider(cfg *config.Config, loader *chain.Loader, logger *logrus.Logger) (chain.Provider, error) {
	switch cfg.Chain.Source {
	case config.SourceFile:
		return chain.NewFileProvider(cfg.Chain.Path, loader), nil
	case config.SourceHTTP:
		return chain.NewHTTPProvider(cfg.Chain.URL, loader, logger), nil
	case config.SourceSynthetic:
		gen := chain.NewGenerator(cfg.Chain.Ticker, cfg.Chain.Seed)
		return chain.NewSyntheticProvider(gen, cfg.Chain.Spot, cfg.Chain.DTEs, cfg.Chain.Strikes), nil
	default:
		return nil, fmt.Errorf("unknown chain source %q", cfg.Chain.Source)
	}
}

func runServer(cfg *config.Config, sc *scanner.Scanner, provider chain.Provider, logger *logrus.Logger) {
	srv := api.NewServer(api.Config{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, sc, provider, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, stopping server...")
		cancel()
	}()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown error: %v", err)
		}
	}

	logger.Info("Server stopped")
}

func runScan(sc *scanner.Scanner, provider chain.Provider, logger *logrus.Logger, ticker, expiry string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rows, err := provider.Chain(ctx)
	if err != nil {
		logger.Fatalf("Failed to load options chain: %v", err)
	}

	var results []models.BWBPosition
	if expiry != "" {
		results = sc.Scan(rows, ticker, expiry)
	} else {
		results = sc.ScanAll(rows, ticker)
	}

	if len(results) == 0 {
		logger.Infof("No eligible BWB positions for %s", ticker)
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Expiry", "DTE", "K1", "K2", "K3", "Wings", "Credit", "Max Profit", "Max Loss", "Score"})
	for _, pos := range results {
		table.Append([]string{
			pos.Expiry,
			fmt.Sprintf("%d", pos.DTE),
			fmt.Sprintf("%.0f", pos.K1),
			fmt.Sprintf("%.0f", pos.K2),
			fmt.Sprintf("%.0f", pos.K3),
			fmt.Sprintf("%.0f/%.0f", pos.WingLeft, pos.WingRight),
			fmt.Sprintf("%.2f", pos.Credit),
			fmt.Sprintf("$%.2f", pos.MaxProfit),
			fmt.Sprintf("$%.2f", pos.MaxLoss),
			fmt.Sprintf("%.2f", pos.Score),
		})
	}
	table.Render()

	summary := scanner.Summarize(results)
	logger.Infof("%d positions, best score %.2f, avg score %.2f, avg credit %.2f",
		summary.TotalFound, summary.BestScore, summary.AvgScore, summary.AvgCredit)
}
