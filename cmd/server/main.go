package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/churn-dashboard/internal/briefing"
	"github.com/BerylCAtieno/churn-dashboard/internal/churnapi"
	"github.com/BerylCAtieno/churn-dashboard/internal/config"
	"github.com/BerylCAtieno/churn-dashboard/internal/logging"
	"github.com/BerylCAtieno/churn-dashboard/internal/session"
	"github.com/BerylCAtieno/churn-dashboard/internal/web"
)

const shutdownTimeout = 10 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:          "churn-dashboard",
	Short:        "Customer churn prediction dashboard",
	Long:         "Serves the churn dashboard: customer lookup, the prediction wizard and customer details, backed by the churn prediction API.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	api := churnapi.New(cfg.APIURL, cfg.APITimeout)

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close session store", zap.Error(err))
		}
	}()

	deps := web.Deps{API: api, Sessions: store, Logger: logger}
	if cfg.BriefingEnabled() {
		gemini, err := briefing.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer gemini.Close()
		deps.Briefer = briefing.New(gemini)
		logger.Info("retention briefs enabled", zap.String("model", cfg.GeminiModel))
	}

	gin.SetMode(cfg.GinMode)
	router, err := web.NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("churn dashboard starting",
		zap.String("port", cfg.Port),
		zap.String("api_url", api.BaseURL()),
		zap.String("session_backend", cfg.SessionBackend),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	if cfg.SessionBackend != config.SessionBackendRedis {
		return session.NewMemoryStore(cfg.SessionTTL, time.Minute), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := session.Connect(connectCtx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(client, cfg.SessionTTL), nil
}
