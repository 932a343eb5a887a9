package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kitkwok/tightzone/internal/api"
	"github.com/kitkwok/tightzone/internal/api/handlers"
	"github.com/kitkwok/tightzone/internal/chart"
	"github.com/kitkwok/tightzone/internal/pipeline"
	"github.com/kitkwok/tightzone/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

Endpoints:
  GET /api/health                - Health check
  GET /api/stocks                - Current VCP result set
  GET /api/stocks/{symbol}/chart - Contraction chart for one symbol
  GET /api/refresh               - Force a re-scan and cache rebuild

Example:
  go run ./cmd/tightzone api
  go run ./cmd/tightzone api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config, logger, provider clients
	d, err := setup()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	d.log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// 2. Connect to Redis (degrades to no-op when disabled)
	rdb, err := redis.New(d.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	cache := redis.NewCache(rdb, "tightzone")

	// 3. Create the chart generator
	charts := chart.NewGenerator(d.quotes, d.log, "6mo", "1d")

	// 4. Create the pipeline
	pipe := pipeline.New(d.scanner, d.quotes, charts, cache, d.log, pipeline.Config{
		Market:   d.cfg.Market,
		PageSize: d.cfg.PageSize,
		ChartDir: d.cfg.ChartDir,
		CacheTTL: d.cfg.Redis.CacheTTL,
	})

	// 5. Create handler and router
	stocksHandler := handlers.NewStocksHandler(pipe, d.log)
	router := api.NewRouter(stocksHandler, d.log)

	// 6. Create server
	server := api.New(d.cfg, d.log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	d.log.Info("API server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
