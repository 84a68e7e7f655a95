package recipe

import (
	"context"
	"errors"
	"net/http"

	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/core/ai/queue"
	recipeService "recipe-insight/internal/core/recipe"
	"recipe-insight/internal/infrastructure/metrics"
	"recipe-insight/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var (
	errMissingFields  = common.NewError(common.ErrCodeInvalidRequest, "Please provide ingredients, cuisine, style and dishType.", http.StatusBadRequest, nil)
	errMissingVisual  = common.NewError(common.ErrCodeInvalidRequest, "Please provide ingredients, cuisine and style.", http.StatusBadRequest, nil)
	errGenerateFailed = common.NewError(common.ErrCodeInternalError, "Something went wrong.", http.StatusInternalServerError, nil)
)

// Handler 食譜處理程序
type Handler struct {
	recipeService *recipeService.Service
	visualService *recipeService.VisualService
}

// NewHandler 創建新的食譜處理程序
func NewHandler(recipeService *recipeService.Service, visualService *recipeService.VisualService) *Handler {
	RegisterValidators()
	return &Handler{
		recipeService: recipeService,
		visualService: visualService,
	}
}

// HandleRecipe 生成食譜並附上分類結果
func (h *Handler) HandleRecipe(c *gin.Context) {
	requestID := common.RequestID(c)

	var req recipeService.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		metrics.RecipeRequestsTotal.WithLabelValues("recipe", "invalid").Inc()
		common.WriteError(c, bindError(err, errMissingFields))
		return
	}

	resp, err := h.recipeService.Generate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCuisine) {
			metrics.RecipeRequestsTotal.WithLabelValues("recipe", "invalid").Inc()
			common.WriteError(c, common.ErrInvalidCuisine)
			return
		}
		common.LogError("食譜組合失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		metrics.RecipeRequestsTotal.WithLabelValues("recipe", "error").Inc()
		common.WriteError(c, errGenerateFailed)
		return
	}

	metrics.RecipeRequestsTotal.WithLabelValues("recipe", "ok").Inc()
	c.JSON(http.StatusOK, resp)
}

// HandleVisualRecipe 生成圖文食譜，沒有本地回退
func (h *Handler) HandleVisualRecipe(c *gin.Context) {
	requestID := common.RequestID(c)

	var req recipeService.VisualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		metrics.RecipeRequestsTotal.WithLabelValues("visual", "invalid").Inc()
		common.WriteError(c, bindError(err, errMissingVisual))
		return
	}

	resp, err := h.visualService.Generate(c.Request.Context(), req)
	if err != nil {
		common.LogError("圖文食譜生成失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		metrics.RecipeRequestsTotal.WithLabelValues("visual", "error").Inc()
		common.WriteError(c, visualError(err))
		return
	}

	metrics.RecipeRequestsTotal.WithLabelValues("visual", "ok").Inc()
	c.JSON(http.StatusOK, resp)
}

// bindError 菜系標籤錯誤獨立回報，其餘視為缺少欄位
func bindError(err error, missing *common.CustomError) *common.CustomError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "cuisine" {
				return common.ErrInvalidCuisine.WithErr(err)
			}
		}
	}
	return missing.WithErr(err)
}

// visualError 未啟用與熔斷為 503，超時為 504，其餘為 500
func visualError(err error) *common.CustomError {
	switch {
	case errors.Is(err, provider.ErrDisabled):
		return common.ErrGeneratorDisabled.WithErr(err)
	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, queue.ErrQueueFull):
		return common.ErrServiceUnavailable.WithErr(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.WithErr(err)
	default:
		return common.ErrGeneratorFailed.WithErr(err)
	}
}
