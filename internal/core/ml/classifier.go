package ml

import "fmt"

// 回退原因
const (
	ReasonNoEvidence    = "no_keyword_matched"
	ReasonPredictFailed = "predict_failed"
	ReasonTrainFailed   = "train_failed"
	ReasonEmptyLabel    = "empty_label"
)

// CuisinePrediction 菜系預測結果
type CuisinePrediction struct {
	Label    CuisineLabel
	Features FeatureVector
	Fallback bool
	Reason   string
}

// CuisineClassifier 菜系分類器（樸素貝氏 + 零證據回退）
type CuisineClassifier struct {
	nb *NaiveBayes
}

// NewCuisineClassifier 以固定資料訓練菜系分類器
func NewCuisineClassifier() (*CuisineClassifier, error) {
	X, y := Split(CuisineTrainingSet())
	nb := NewNaiveBayes()
	if err := nb.Train(X, y); err != nil {
		return nil, fmt.Errorf("failed to train cuisine classifier: %w", err)
	}
	return &CuisineClassifier{nb: nb}, nil
}

// Predict 編碼食材文字並預測菜系
func (c *CuisineClassifier) Predict(ingredients string, selected CuisineLabel) CuisinePrediction {
	return c.PredictVector(EncodeCuisineFeatures(ingredients), selected)
}

// PredictVector 全零向量時以使用者選擇的菜系取代模型結果
func (c *CuisineClassifier) PredictVector(vec FeatureVector, selected CuisineLabel) CuisinePrediction {
	if vec.IsZero() {
		return CuisinePrediction{Label: selected, Features: vec, Fallback: true, Reason: ReasonNoEvidence}
	}
	label, err := c.nb.Predict(vec)
	if err != nil || label == "" {
		return CuisinePrediction{Label: selected, Features: vec, Fallback: true, Reason: ReasonPredictFailed}
	}
	return CuisinePrediction{Label: CuisineLabel(label), Features: vec}
}

// Classes 回傳類別順序
func (c *CuisineClassifier) Classes() []string {
	return c.nb.Classes()
}

// HealthPrediction 健康分類結果
type HealthPrediction struct {
	Label    HealthLabel
	Features FeatureVector
	Fallback bool
	Reason   string
}

// HealthClassifier 健康分類器（決策樹盡力而為，規則保底）
type HealthClassifier struct {
	tree     *DecisionTree
	trainErr error
}

// NewHealthClassifier 以固定資料訓練健康分類器
func NewHealthClassifier() *HealthClassifier {
	X, y := Split(HealthTrainingSet())
	return TrainHealthClassifier(X, y)
}

// TrainHealthClassifier 訓練失敗不回傳錯誤，之後的預測一律走規則
func TrainHealthClassifier(X [][]int, y []string) *HealthClassifier {
	tree := NewDecisionTree(TreeOptions{MaxDepth: 3, MinSamplesLeaf: 1})
	if err := tree.Train(X, y); err != nil {
		return &HealthClassifier{trainErr: err}
	}
	return &HealthClassifier{tree: tree}
}

// Trained 決策樹是否可用
func (h *HealthClassifier) Trained() bool {
	return h.trainErr == nil && h.tree != nil
}

// TrainError 回傳訓練錯誤
func (h *HealthClassifier) TrainError() error {
	return h.trainErr
}

// Predict 編碼食材文字並預測健康分類
func (h *HealthClassifier) Predict(ingredients string) HealthPrediction {
	return h.PredictVector(EncodeHealthFeatures(ingredients))
}

// PredictVector 決策樹失敗或無標籤時套用固定規則
func (h *HealthClassifier) PredictVector(vec FeatureVector) HealthPrediction {
	if !h.Trained() {
		return HealthPrediction{Label: HealthRule(vec), Features: vec, Fallback: true, Reason: ReasonTrainFailed}
	}
	label, err := h.tree.Predict(vec)
	if err != nil {
		return HealthPrediction{Label: HealthRule(vec), Features: vec, Fallback: true, Reason: ReasonPredictFailed}
	}
	if label == "" {
		return HealthPrediction{Label: HealthRule(vec), Features: vec, Fallback: true, Reason: ReasonEmptyLabel}
	}
	return HealthPrediction{Label: HealthLabel(label), Features: vec}
}

// HealthRule 蛋白質優先，其次纖維，否則均衡營養
func HealthRule(vec FeatureVector) HealthLabel {
	if slot(vec, healthSlotProtein) == 1 {
		return HealthHighProtein
	}
	if slot(vec, healthSlotFiber) == 1 {
		return HealthHighFiber
	}
	return HealthBalanced
}

func slot(vec FeatureVector, i int) int {
	if i < len(vec) {
		return vec[i]
	}
	return 0
}

// Models 啟動時訓練一次的唯讀模型組合
type Models struct {
	Cuisine *CuisineClassifier
	Health  *HealthClassifier
}

// NewModels 訓練兩個分類器
func NewModels() (*Models, error) {
	cuisine, err := NewCuisineClassifier()
	if err != nil {
		return nil, err
	}
	return &Models{
		Cuisine: cuisine,
		Health:  NewHealthClassifier(),
	}, nil
}
