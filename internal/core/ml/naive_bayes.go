package ml

import (
	"errors"
	"fmt"
	"math"
)

// 訓練與推論錯誤
var (
	ErrEmptyTrainingSet   = errors.New("training set is empty")
	ErrLabelMismatch      = errors.New("feature rows and labels differ in length")
	ErrNonUniformFeatures = errors.New("feature rows are not uniform")
	ErrNotTrained         = errors.New("model is not trained")
	ErrDimensionMismatch  = errors.New("query vector length does not match training features")
)

// probabilityFloor 取代 0 機率，避免 log(0)
const probabilityFloor = 1e-9

// NaiveBayes 類別型樸素貝氏分類器
type NaiveBayes struct {
	classes     []string
	priors      map[string]float64
	likelihoods map[string][]float64
	features    int
}

// NewNaiveBayes 創建未訓練的分類器
func NewNaiveBayes() *NaiveBayes {
	return &NaiveBayes{}
}

// Train 計算類別先驗與每個特徵的條件機率
// 類別順序以訓練資料中首次出現的順序為準
func (nb *NaiveBayes) Train(X [][]int, y []string) error {
	features, err := validateTrainingSet(X, y)
	if err != nil {
		return err
	}

	type tally struct {
		total int
		sums  []float64
	}
	counts := make(map[string]*tally)
	var classes []string
	for i, label := range y {
		t, ok := counts[label]
		if !ok {
			t = &tally{sums: make([]float64, features)}
			counts[label] = t
			classes = append(classes, label)
		}
		t.total++
		for j, v := range X[i] {
			t.sums[j] += float64(v)
		}
	}

	priors := make(map[string]float64, len(classes))
	likelihoods := make(map[string][]float64, len(classes))
	for _, c := range classes {
		t := counts[c]
		priors[c] = float64(t.total) / float64(len(y))
		lk := make([]float64, features)
		for j, s := range t.sums {
			lk[j] = s / float64(t.total)
		}
		likelihoods[c] = lk
	}

	nb.classes = classes
	nb.priors = priors
	nb.likelihoods = likelihoods
	nb.features = features
	return nil
}

// Predict 回傳對數分數最高的類別，同分時先出現的類別勝出
func (nb *NaiveBayes) Predict(x []int) (string, error) {
	if len(nb.classes) == 0 {
		return "", ErrNotTrained
	}
	if len(x) != nb.features {
		return "", fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), nb.features)
	}

	best := ""
	bestScore := math.Inf(-1)
	for _, c := range nb.classes {
		score := math.Log(floor(nb.priors[c]))
		for j, p := range nb.likelihoods[c] {
			score += float64(x[j]) * math.Log(floor(p))
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best, nil
}

// Classes 回傳訓練時的類別順序
func (nb *NaiveBayes) Classes() []string {
	return append([]string(nil), nb.classes...)
}

// Prior 回傳類別先驗
func (nb *NaiveBayes) Prior(class string) float64 {
	return nb.priors[class]
}

// Likelihoods 回傳類別的特徵條件機率
func (nb *NaiveBayes) Likelihoods(class string) []float64 {
	return append([]float64(nil), nb.likelihoods[class]...)
}

func floor(p float64) float64 {
	if p <= 0 {
		return probabilityFloor
	}
	return p
}

// validateTrainingSet 檢查訓練資料形狀，回傳特徵數
func validateTrainingSet(X [][]int, y []string) (int, error) {
	if len(X) == 0 || len(y) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrLabelMismatch, len(X), len(y))
	}
	features := len(X[0])
	if features == 0 {
		return 0, ErrNonUniformFeatures
	}
	for i, row := range X {
		if len(row) != features {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrNonUniformFeatures, i, len(row), features)
		}
	}
	return features, nil
}
