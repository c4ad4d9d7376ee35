package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loan-approval/config"
	"loan-approval/dataset"
	httpLayer "loan-approval/http"
	"loan-approval/knn"
	"loan-approval/repository"
	"loan-approval/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func loadModel(cfg *config.Config, log *zap.Logger) (*knn.Model, error) {
	snapshot, err := dataset.Load(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("load model data: %w", err)
	}
	model, err := snapshot.Model(cfg.Model.K)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	approved, rejected := model.LabelCounts()
	log.Info("model loaded",
		zap.String("path", cfg.Model.Path),
		zap.Int("records", model.Size()),
		zap.Int("approved", approved),
		zap.Int("rejected", rejected),
		zap.Int("k", model.K()),
	)
	return model, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	model, err := loadModel(cfg, log)
	if err != nil {
		return err
	}

	var (
		predictionRepo repository.PredictionRepository
		cache          repository.CacheRepository
	)
	if cfg.Redis.Enabled {
		rdb, err := repository.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		predictionRepo = repository.NewPredictionRepositoryRedis(rdb, cfg.Redis.KeyPrefix, cfg.History.Limit)
		cache = repository.NewRedisCache(rdb, cfg.Redis.KeyPrefix, cfg.Cache.TTL, log)
		log.Info("using redis storage", zap.String("address", cfg.Redis.Address))
	} else {
		predictionRepo = repository.NewPredictionRepositoryMemory(cfg.History.Limit)
		cache = repository.NewMemoryCache(cfg.Cache.TTL)
	}

	predictionService := service.NewPredictionService(model, predictionRepo, cache, log)
	predictionHandler := httpLayer.NewPredictionHandler(predictionService, log)

	var rateLimiter *httpLayer.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      httpLayer.NewRouter(predictionHandler, rateLimiter, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("api listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
