package ml

import "strings"

// FeatureVector 固定長度的 0/1 特徵向量
type FeatureVector []int

// IsZero 是否全為 0
func (v FeatureVector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// EncodeCuisineFeatures 將食材文字編碼為 5 槽菜系向量
func EncodeCuisineFeatures(text string) FeatureVector {
	return encode(text, cuisineLexicon)
}

// EncodeHealthFeatures 將食材文字編碼為 3 槽健康向量（蛋白質、脂肪、纖維）
func EncodeHealthFeatures(text string) FeatureVector {
	return encode(text, healthLexicon)
}

// encode 以子字串比對，每個槽位獨立判斷，可同時命中多個槽位
func encode(text string, lexicon []KeywordGroup) FeatureVector {
	lower := strings.ToLower(text)
	vec := make(FeatureVector, len(lexicon))
	for i, group := range lexicon {
		for _, kw := range group.Keywords {
			if strings.Contains(lower, kw) {
				vec[i] = 1
				break
			}
		}
	}
	return vec
}
