package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/careers-portal/internal/api"
	"github.com/jonathan/careers-portal/internal/config"
	"github.com/jonathan/careers-portal/internal/logging"
	"github.com/jonathan/careers-portal/internal/server"
	"github.com/jonathan/careers-portal/internal/session"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portal HTTP server",
	Long:  `Start an HTTP server that exposes the job listing, apply flow, candidate auth and profile endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newAPIClient(cfg, log)
	if err != nil {
		return err
	}

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{Config: cfg, Remote: client, Store: store, Logger: log})
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

func newAPIClient(cfg *config.Config, log *logging.Logger) (*api.Client, error) {
	client, err := api.NewClient(api.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		AuthScheme: cfg.API.AuthScheme,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return client, nil
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		store, err := session.NewRedisStore(ctx, cfg.Redis, cfg.Session.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	default:
		return session.NewMemoryStore(cfg.Session.TTL), nil
	}
}
