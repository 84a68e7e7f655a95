package common

import "strings"

// Recipe 食譜
// 欄位名稱需與前端約定一致（camelCase）
type Recipe struct {
	Title          string   `json:"title"`
	Ingredients    []string `json:"ingredients"`
	Steps          []string `json:"steps"`
	HealthBenefits []string `json:"healthBenefits"`
}

// Normalize 確保切片不為 nil，序列化時輸出 [] 而非 null
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.HealthBenefits == nil {
		r.HealthBenefits = []string{}
	}
}

// SplitIngredients 以逗號切分食材，去除空白與空項目
func SplitIngredients(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MaskSecret 遮罩金鑰，只顯示前後各 4 個字符
func MaskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
