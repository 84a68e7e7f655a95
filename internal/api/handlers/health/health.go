package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-insight/internal/core/ml"
	"recipe-insight/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// StatusProvider 外部服務狀態（熔斷器、緩存）
type StatusProvider interface {
	Status() map[string]interface{}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Models    *ModelStatus           `json:"models"`
	Services  map[string]interface{} `json:"services,omitempty"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// ModelStatus 分類器狀態
type ModelStatus struct {
	CuisineClasses []string `json:"cuisine_classes"`
	HealthTrained  bool     `json:"health_tree_trained"`
	HealthError    string   `json:"health_tree_error,omitempty"`
}

// Handler 健康檢查處理器
type Handler struct {
	config   *config.Config
	models   *ml.Models
	services StatusProvider
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, models *ml.Models, services StatusProvider) *Handler {
	return &Handler{
		config:   cfg,
		models:   models,
		services: services,
	}
}

// HealthCheck 健康檢查；決策樹退化時回報 degraded
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Models:    h.modelStatus(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if response.Models == nil {
		response.Status = "unavailable"
	} else if !response.Models.HealthTrained {
		response.Status = "degraded"
	}
	if h.services != nil {
		response.Services = h.services.Status()
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) modelStatus() *ModelStatus {
	if h.models == nil || h.models.Cuisine == nil || h.models.Health == nil {
		return nil
	}
	status := &ModelStatus{
		CuisineClasses: h.models.Cuisine.Classes(),
		HealthTrained:  h.models.Health.Trained(),
	}
	if err := h.models.Health.TrainError(); err != nil {
		status.HealthError = err.Error()
	}
	return status
}

// ReadinessCheck 模型訓練完成即就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.models == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
