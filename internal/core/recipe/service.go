package recipe

import (
	"context"
	"errors"

	"recipe-insight/internal/core/ml"
	"recipe-insight/internal/infrastructure/metrics"
	"recipe-insight/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrModelsUnavailable 模型未注入
var ErrModelsUnavailable = errors.New("classifier models unavailable")

// Service 食譜服務：來源、分類與指標組合
type Service struct {
	models *ml.Models
	source *Source
}

// NewService 創建食譜服務，models 需已訓練完成
func NewService(models *ml.Models, source *Source) *Service {
	return &Service{
		models: models,
		source: source,
	}
}

// Generate 產生完整回應；分類與生成失敗都會回退，不會部分輸出
func (s *Service) Generate(ctx context.Context, req Request) (*Response, error) {
	if s.models == nil || s.models.Cuisine == nil || s.models.Health == nil {
		return nil, ErrModelsUnavailable
	}
	if !ml.IsCuisine(req.Cuisine) {
		return nil, common.ErrInvalidCuisine
	}

	requestID := common.RequestIDFromContext(ctx)
	text := req.Ingredients

	cuisine := s.models.Cuisine.Predict(text, ml.CuisineLabel(req.Cuisine))
	if cuisine.Fallback {
		common.LogFallback("cuisine_classifier", cuisine.Reason,
			zap.String("selected", req.Cuisine),
			zap.String("request_id", requestID),
		)
	}
	metrics.PredictionsTotal.WithLabelValues("naive_bayes", string(cuisine.Label), metrics.BoolLabel(cuisine.Fallback)).Inc()

	health := s.models.Health.Predict(text)
	if health.Fallback {
		common.LogFallback("health_classifier", health.Reason,
			zap.Ints("features", health.Features),
			zap.String("request_id", requestID),
		)
	}
	metrics.PredictionsTotal.WithLabelValues("decision_tree", string(health.Label), metrics.BoolLabel(health.Fallback)).Inc()

	result := s.source.Recipes(ctx, req)

	common.LogDebug("食譜組合完成",
		zap.String("source", result.Source),
		zap.String("reason", result.Reason),
		zap.Int("recipes", len(result.Recipes)),
		zap.String("cuisine", string(cuisine.Label)),
		zap.String("health", string(health.Label)),
		zap.String("request_id", requestID),
	)

	return &Response{
		Recipes:          result.Recipes,
		PredictedCuisine: cuisine.Label,
		PredictedHealth:  health.Label,
		Metrics:          StaticMetrics,
	}, nil
}
