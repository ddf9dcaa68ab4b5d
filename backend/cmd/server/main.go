package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"vocabgraph/backend/internal/api"
	"vocabgraph/backend/internal/services"
	"vocabgraph/backend/pkg/config"
	"vocabgraph/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	if err := run(cfg, logger.Get()); err != nil {
		logger.Get().Error("Server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting vocabulary API server...", zap.String("vocabulary", cfg.VocabularyFile))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, log)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Wait for interrupt signal or a serve failure
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}

// newServer loads the vocabulary and wires it behind the HTTP router.
// Nothing is served until the vocabulary has loaded.
func newServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*http.Server, error) {
	vocab := services.NewVocabularyService(cfg.VocabularyFile, log.Named("vocabulary"))
	vocab.SetDefaults(cfg.DefaultRelation, cfg.DerivedRelation)
	if err := vocab.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	router := api.NewRouter(vocab, api.RouterConfig{
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
	}, log)

	return &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}, nil
}
