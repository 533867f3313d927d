package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mcpadapter "browsetree/internal/adapters/mcp"
	"browsetree/internal/app"
	"browsetree/internal/config"
	"browsetree/internal/logging"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "path to the config file")
	dataDirFlag := flag.String("data-dir", "", "override the data directory")
	ephemeralFlag := flag.Bool("ephemeral", false, "keep every store in memory")
	flag.Parse()

	loader := config.NewLoader(*configFlag)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("browsetree-mcp: %v", err)
	}
	if *dataDirFlag != "" {
		cfg.DataDir = *dataDirFlag
	}

	// stdout carries the protocol
	lc := app.LoggingConfig(cfg, "mcp")
	if lc.Output == "stdout" {
		lc.Output = "stderr"
	}
	logger, err := logging.New(lc)
	if err != nil {
		log.Fatalf("browsetree-mcp: %v", err)
	}
	defer logger.Close()

	a, err := app.Open(cfg, logger.Logger, app.Options{Ephemeral: *ephemeralFlag})
	if err != nil {
		log.Fatalf("browsetree-mcp: %v", err)
	}
	defer a.Close()

	watchConfig(loader, logger)
	defer loader.Close()

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	mcpServer := server.NewMCPServer(
		"browsetree-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	deps := mcpadapter.Deps{
		Trees:  a.Trees,
		Links:  a.Links,
		Env:    a.Env,
		Clock:  a.Clock,
		Logger: logger.Logger,
	}
	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	logger.Info("serving MCP over stdio", "data_dir", cfg.DataDirPath(), "ephemeral", *ephemeralFlag)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("server stopped", "error", err)
	}
}

// watchConfig follows the config file and applies log level changes live.
// Store settings only take effect on restart.
func watchConfig(loader *config.Loader, logger *logging.Logger) {
	loader.OnChange(func(cfg *config.Config) {
		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			logger.Warn("ignoring log level from reloaded config", "error", err)
			return
		}
		logger.SetLevel(level)
		logger.Info("config reloaded", "level", level)
	})

	if err := loader.Watch(); err != nil {
		logger.Warn("config file is not watched", "error", err)
		return
	}

	go func() {
		for err := range loader.Errors() {
			logger.Warn("config reload failed", "error", err)
		}
	}()
}

func serveMetrics(addr string, logger *logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
