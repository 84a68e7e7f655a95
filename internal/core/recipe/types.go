package recipe

import (
	"recipe-insight/internal/core/ml"
	"recipe-insight/internal/pkg/common"
)

// Request 食譜生成請求，四個欄位皆必填
type Request struct {
	Ingredients string `json:"ingredients" binding:"required"`
	Cuisine     string `json:"cuisine" binding:"required,cuisine"`
	Style       string `json:"style" binding:"required"`
	DishType    string `json:"dishType" binding:"required"`
}

// Response 組合後的回應，不會部分輸出
type Response struct {
	Recipes          []common.Recipe `json:"recipes"`
	PredictedCuisine ml.CuisineLabel `json:"predictedCuisine"`
	PredictedHealth  ml.HealthLabel  `json:"predictedHealth"`
	Metrics          Metrics         `json:"metrics"`
}

// Metrics 兩個分類器的展示指標
type Metrics struct {
	NaiveBayes   ModelMetrics `json:"naiveBayes"`
	DecisionTree ModelMetrics `json:"decisionTree"`
}

// ModelMetrics 單一模型指標
type ModelMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// StaticMetrics 固定展示值，並非由資料評估而來
var StaticMetrics = Metrics{
	NaiveBayes:   ModelMetrics{Accuracy: 0.93, Precision: 0.9, Recall: 0.92, F1: 0.91},
	DecisionTree: ModelMetrics{Accuracy: 0.88, Precision: 0.86, Recall: 0.87, F1: 0.865},
}

// VisualRequest 圖文食譜請求
type VisualRequest struct {
	Ingredients string `json:"ingredients" binding:"required"`
	Cuisine     string `json:"cuisine" binding:"required"`
	Style       string `json:"style" binding:"required"`
}

// VisualResponse 圖文食譜回應
type VisualResponse struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	ImageURLs   []string `json:"imageUrls"`
}
