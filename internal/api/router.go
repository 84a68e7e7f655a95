package api

import (
	"fmt"
	"net/http"
	"time"

	"recipe-insight/internal/api/handlers/health"
	recipeHandler "recipe-insight/internal/api/handlers/recipe"
	"recipe-insight/internal/api/middleware"
	"recipe-insight/internal/core/ai/service"
	"recipe-insight/internal/core/image"
	"recipe-insight/internal/core/ml"
	recipeService "recipe-insight/internal/core/recipe"
	"recipe-insight/internal/infrastructure/config"
	"recipe-insight/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter 設置路由；models 需已訓練完成
func SetupRouter(cfg *config.Config, models *ml.Models, aiService *service.Service) (*gin.Engine, error) {
	if models == nil {
		return nil, fmt.Errorf("classifier models are required")
	}
	if aiService == nil {
		return nil, fmt.Errorf("ai service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RequestContext(cfg.Server.RequestTimeout))

	imageSvc := image.NewService(cfg.Image.MaxSizeBytes)
	recipeSvc := recipeService.NewService(models, recipeService.NewSource(aiService))
	visualSvc := recipeService.NewVisualService(aiService, imageSvc)

	healthHandler := health.NewHandler(cfg, models, aiService)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.Deduplication(cfg.DedupWindow))
	{
		handler := recipeHandler.NewHandler(recipeSvc, visualSvc)

		recipeGroup := api.Group("/recipe")
		{
			// 食譜生成與分類
			recipeGroup.POST("", handler.HandleRecipe)

			// 圖文食譜
			recipeGroup.POST("/visual", handler.HandleVisualRecipe)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		common.WriteError(c, common.ErrNotFound)
	})
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, common.ErrorResponse{
			Code:    common.ErrMethodNotAllowed.Code,
			Message: common.ErrMethodNotAllowed.Message,
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("generator_enabled", cfg.OpenRouter.Active()),
		zap.Bool("image_enabled", cfg.Image.Active()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
