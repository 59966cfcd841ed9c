package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"docportal/internal/bootstrap"
	"docportal/internal/cli"
	"docportal/internal/config"
	"docportal/internal/logger"
	"docportal/internal/repository"
	"docportal/internal/service"
	"docportal/internal/tokens"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "docctl:", err)
		return 2
	}
	level := os.Getenv("DOCCTL_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	if err := logger.InitStderr(level); err != nil {
		fmt.Fprintln(os.Stderr, "docctl:", err)
		return 2
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Registerer: prometheus.NewRegistry()})
	if err != nil {
		fmt.Fprintln(os.Stderr, "docctl:", err)
		return 1
	}
	defer app.Close()

	root := cli.Root(cli.Deps{
		Out:       os.Stdout,
		Sessions:  app.Sessions,
		Teams:     app.Teams,
		Documents: repository.Documents,
		Logs:      repository.Logs,
		Auth:      repository.Auth,
		Login: func(ctx context.Context, announce func(string)) (tokens.Record, error) {
			return service.RunLogin(ctx, cfg.OIDC, app.Sessions, announce)
		},
		Mirror: app.Mirror,
	})

	if err := root.Execute(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "docctl:", err)
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
