package ml

// TrainingExample 一筆訓練樣本
type TrainingExample struct {
	Features FeatureVector
	Label    string
}

// CuisineTrainingSet 每個菜系一筆 one-hot 樣本，順序即類別列舉順序
func CuisineTrainingSet() []TrainingExample {
	out := make([]TrainingExample, len(cuisineLexicon))
	for i, g := range cuisineLexicon {
		vec := make(FeatureVector, len(cuisineLexicon))
		vec[i] = 1
		out[i] = TrainingExample{Features: vec, Label: g.Label}
	}
	return out
}

// HealthTrainingSet 健康決策樹的固定訓練資料
func HealthTrainingSet() []TrainingExample {
	return []TrainingExample{
		{Features: FeatureVector{1, 0, 0}, Label: string(HealthHighProtein)},
		{Features: FeatureVector{0, 1, 0}, Label: string(HealthLowFat)},
		{Features: FeatureVector{0, 0, 1}, Label: string(HealthHighFiber)},
		{Features: FeatureVector{1, 1, 0}, Label: string(HealthHeartHealthy)},
		{Features: FeatureVector{0, 1, 1}, Label: string(HealthEnergyBooster)},
	}
}

// Split 拆成特徵矩陣與標籤
func Split(examples []TrainingExample) ([][]int, []string) {
	X := make([][]int, len(examples))
	y := make([]string, len(examples))
	for i, ex := range examples {
		X[i] = append([]int(nil), ex.Features...)
		y[i] = ex.Label
	}
	return X, y
}
