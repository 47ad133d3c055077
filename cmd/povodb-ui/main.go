package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // root CAs for calling an https API from minimal containers

	povodb "github.com/povodb/povodb-ui"
	"github.com/povodb/povodb-ui/internal/logger"
	"github.com/povodb/povodb-ui/internal/ui/client"
	"github.com/povodb/povodb-ui/internal/ui/config"
	"github.com/povodb/povodb-ui/internal/ui/queries"
	"github.com/povodb/povodb-ui/internal/ui/query"
	"github.com/povodb/povodb-ui/internal/ui/server"
	"github.com/povodb/povodb-ui/internal/version"
)

func main() {
	cmd := &cobra.Command{
		Use:   "povodb-ui",
		Short: "PovoDB web user interface",
		Long:  `Web UI for browsing politicians, bills, votes and campaign contributions recorded in PovoDB`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	cmd.Version = version.Get().String()
	cmd.AddCommand(newFetchCommand())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, corsMiddleware, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load UI configuration: %w", err)
	}

	serverLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
	slog.SetDefault(serverLogger)

	serverLogger.Info("Starting UI server",
		slog.String("version", version.Get().Version),
		slog.String("environment", cfg.Environment),
	)

	svc, cache := newQueries(cfg, serverLogger)
	defer cache.Close()

	s, err := server.NewServer(cfg, corsMiddleware, svc, serverLogger)
	if err != nil {
		serverLogger.Error("Failed to create UI server", slog.String("error", err.Error()))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Start(ctx); err != nil {
		serverLogger.Error("UI server error", slog.String("error", err.Error()))
		return err
	}

	serverLogger.Info("UI server shutdown complete")
	return nil
}

// newQueries wires the API client and the query cache. The caller closes the cache.
func newQueries(cfg *config.Config, log *slog.Logger) (*queries.Service, *query.Cache) {
	api := client.NewClient(cfg.APIBaseURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		client.WithRequestInterceptors(client.RequestID()),
		client.WithResponseInterceptors(
			client.LogErrors(log),
			client.OnUnauthorized(func(req *http.Request) {
				log.Warn("API request was not authorized", slog.String("path", req.URL.Path))
			}),
		),
	)

	cache := query.New(query.Config{
		StaleTime:       cfg.StaleTime,
		RefetchInterval: cfg.RefetchInterval,
		GCTime:          cfg.GCTime,
		Retry:           povodb.DefaultRetry,
		Logger:          log,
	})

	return queries.NewService(api, cache, log), cache
}
