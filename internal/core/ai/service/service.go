package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"recipe-insight/internal/core/ai/cache"
	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/core/ai/queue"
	"recipe-insight/internal/infrastructure/config"
	"recipe-insight/internal/infrastructure/metrics"
	"recipe-insight/internal/pkg/common"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Service 外部生成服務的統一入口：緩存、併發、超時、熔斷
type Service struct {
	config       *config.Config
	generator    provider.TextGenerator
	images       provider.ImageGenerator
	cache        cache.Store
	queue        *queue.Manager
	textBreaker  *gobreaker.CircuitBreaker[string]
	imageBreaker *gobreaker.CircuitBreaker[[]provider.GeneratedImage]
}

// NewService 創建 AI 服務，generator、images、store 皆可為 nil
func NewService(cfg *config.Config, generator provider.TextGenerator, images provider.ImageGenerator, store cache.Store) *Service {
	s := &Service{
		config:    cfg,
		generator: generator,
		images:    images,
		cache:     store,
		queue:     queue.NewManager(cfg.Queue),
	}
	if generator != nil {
		s.textBreaker = newBreaker[string](generator.Name(), cfg.Breaker)
	}
	if images != nil {
		s.imageBreaker = newBreaker[[]provider.GeneratedImage](images.Name(), cfg.Breaker)
	}
	return s
}

// GenerateText 生成文字，命中緩存時不呼叫外部服務；validate 不為 nil 時只緩存通過驗證的內容
func (s *Service) GenerateText(ctx context.Context, prompt string, validate func(string) error) (string, error) {
	if s.generator == nil {
		return "", provider.ErrDisabled
	}

	prompt = strings.TrimSpace(prompt)
	// 統一空白，確保快取 key 一致
	key := cache.Key("text", s.generator.Name(), s.config.OpenRouter.Model, normalizePrompt(prompt))

	if s.cache != nil {
		val, err := s.cache.Get(ctx, key)
		switch {
		case err == nil && val != "" && accepts(validate, val):
			metrics.CacheLookupsTotal.WithLabelValues(s.cache.Backend(), "hit").Inc()
			common.LogDebug("快取命中", zap.String("鍵", key))
			return val, nil
		case err == nil && val != "":
			metrics.CacheLookupsTotal.WithLabelValues(s.cache.Backend(), "invalid").Inc()
			common.LogDebug("快取內容未通過驗證，重新生成", zap.String("鍵", key))
		case err != nil && !errors.Is(err, common.ErrCacheMiss):
			metrics.CacheLookupsTotal.WithLabelValues(s.cache.Backend(), "error").Inc()
			common.LogWarn("快取讀取失敗", zap.Error(err))
		default:
			metrics.CacheLookupsTotal.WithLabelValues(s.cache.Backend(), "miss").Inc()
		}
	}

	content, err := execute(ctx, s.queue, s.textBreaker, s.generator.Name(), s.config.OpenRouter.Timeout,
		func(ctx context.Context) (string, error) {
			return s.generator.Generate(ctx, &provider.TextRequest{
				Prompt:      prompt,
				MaxTokens:   s.config.OpenRouter.MaxTokens,
				Temperature: s.config.OpenRouter.Temperature,
			})
		})
	if err != nil {
		return "", err
	}

	if s.cache == nil {
		return content, nil
	}
	if validate != nil {
		if err := validate(content); err != nil {
			common.LogDebug("生成內容未通過驗證，不寫入快取",
				zap.Error(err),
				zap.String("request_id", common.RequestIDFromContext(ctx)),
			)
			return content, nil
		}
	}
	if err := s.cache.Set(ctx, key, content); err != nil {
		common.LogWarn("快取寫入失敗", zap.Error(err))
	}
	return content, nil
}

func accepts(validate func(string) error, content string) bool {
	return validate == nil || validate(content) == nil
}

// GenerateImages 生成圖片，不緩存
func (s *Service) GenerateImages(ctx context.Context, prompt string) ([]provider.GeneratedImage, error) {
	if s.images == nil {
		return nil, provider.ErrDisabled
	}

	return execute(ctx, s.queue, s.imageBreaker, s.images.Name(), s.config.Image.Timeout,
		func(ctx context.Context) ([]provider.GeneratedImage, error) {
			return s.images.GenerateImages(ctx, &provider.ImageRequest{
				Prompt: prompt,
				Count:  s.config.Image.Count,
				Size:   s.config.Image.Size,
			})
		})
}

// Status 熔斷器與緩存狀態
func (s *Service) Status() map[string]interface{} {
	status := map[string]interface{}{
		"text_generator":  "disabled",
		"image_generator": "disabled",
	}
	if s.textBreaker != nil {
		status["text_generator"] = s.textBreaker.State().String()
	}
	if s.imageBreaker != nil {
		status["image_generator"] = s.imageBreaker.State().String()
	}
	if s.cache != nil {
		status["cache"] = s.cache.Stats()
	}
	status["queue"] = s.queue.Status()
	return status
}

// Close 釋放緩存資源
func (s *Service) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// execute 取得併發名額後在熔斷器內以超時呼叫生成服務並記錄指標
func execute[T any](ctx context.Context, q *queue.Manager, cb *gobreaker.CircuitBreaker[T], name string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	requestID := common.RequestIDFromContext(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := func() (T, error) {
		release, err := q.Acquire(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		defer release()
		return cb.Execute(func() (T, error) {
			return fn(ctx)
		})
	}()
	duration := time.Since(start)

	status := callStatus(err)
	metrics.GeneratorDuration.WithLabelValues(name, status).Observe(duration.Seconds())
	if status != "disabled" {
		common.LogGeneratorCall(name, duration, err, requestID)
	}
	return result, err
}

func callStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, provider.ErrDisabled):
		return "disabled"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, queue.ErrQueueFull):
		return "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// newBreaker 連續失敗達門檻即開啟熔斷
func newBreaker[T any](name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[T] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	metrics.GeneratorBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMax,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 未啟用與呼叫端取消不算失敗
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, provider.ErrDisabled) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogWarn("熔斷器狀態變更",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.GeneratorBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}
