package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/company-enricher/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing POST /api/enrich, GET /health and GET /metrics.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT, default 3001)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	a.logger.Info("starting enricher",
		zap.Int("port", port),
		zap.Bool("ai_enabled", a.cfg.AIEnabled()),
		zap.String("model", a.cfg.GeminiModel),
		zap.String("backend_url", a.cfg.BackendURL),
		zap.Bool("use_browser", a.cfg.UseBrowser),
		zap.Bool("dedupe_inflight", a.cfg.DedupeInflight))

	srv := server.New(server.Config{Port: port}, a.service, a.metrics, a.logger.Named("http"))
	return srv.Start(ctx)
}
