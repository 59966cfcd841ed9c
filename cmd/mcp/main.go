package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"docportal/internal/bootstrap"
	"docportal/internal/config"
	"docportal/internal/logger"
	"docportal/internal/mcpserver"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// stdout carries the protocol.
	if err := logger.InitStderr(cfg.LogLevel); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Tokens.AccessToken == "" {
		logger.Log.Warn("mcp_no_access_token", zap.String("hint", "set DOCPORTAL_ACCESS_TOKEN"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Registerer:    prometheus.NewRegistry(),
		StoreOverride: "memory",
	})
	if err != nil {
		logger.Log.Fatal("bootstrap_failed", zap.Error(err))
	}
	defer app.Close()

	server := mcpserver.New(version, mcpserver.RegistryDeps(app.Teams))
	if err := mcpserver.Run(ctx, server, &mcp.StdioTransport{}); err != nil {
		logger.Log.Error("mcp_server_stopped", zap.Error(err))
	}
}
