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

	"recipe-insight/internal/api"
	"recipe-insight/internal/core/ai/cache"
	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/core/ai/service"
	"recipe-insight/internal/core/ml"
	generator "recipe-insight/internal/core/service"
	"recipe-insight/internal/infrastructure/config"
	"recipe-insight/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_key", common.MaskSecret(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.Bool("generator_enabled", cfg.OpenRouter.Active()),
		zap.Bool("image_enabled", cfg.Image.Active()),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 分類器只訓練一次，之後唯讀
	models, err := ml.NewModels()
	if err != nil {
		common.LogFatal("Failed to train classifier models", zap.Error(err))
	}
	if !models.Health.Trained() {
		common.LogFallback("health_classifier", ml.ReasonTrainFailed, zap.Error(models.Health.TrainError()))
	}

	// 初始化快取
	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Second)
	store, err := cache.NewStore(startCtx, cfg)
	cancelStart()
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}

	var textGen provider.TextGenerator
	if cfg.OpenRouter.Active() {
		textGen = generator.NewOpenRouterService(cfg.OpenRouter)
	}
	var imageGen provider.ImageGenerator
	if cfg.Image.Active() {
		imageGen = generator.NewImageGenerationService(cfg.Image)
	}

	aiService := service.NewService(cfg, textGen, imageGen, store)
	defer aiService.Close()

	router, err := api.SetupRouter(cfg, models, aiService)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
