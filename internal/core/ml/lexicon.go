package ml

// CuisineLabel 菜系標籤（封閉集合）
type CuisineLabel string

const (
	CuisineIndian  CuisineLabel = "Indian"
	CuisineItalian CuisineLabel = "Italian"
	CuisineChinese CuisineLabel = "Chinese"
	CuisineMexican CuisineLabel = "Mexican"
	CuisineFrench  CuisineLabel = "French"
)

// HealthLabel 健康分類標籤
type HealthLabel string

const (
	HealthHighProtein   HealthLabel = "High Protein"
	HealthLowFat        HealthLabel = "Low Fat"
	HealthHighFiber     HealthLabel = "High Fiber"
	HealthHeartHealthy  HealthLabel = "Heart Healthy"
	HealthEnergyBooster HealthLabel = "Energy Booster"
	HealthBalanced      HealthLabel = "Balanced Nutrition"
)

// KeywordGroup 一個特徵槽位與其關鍵字
type KeywordGroup struct {
	Label    string
	Keywords []string
}

// 槽位順序即特徵向量的索引順序，必須與訓練資料一致
var cuisineLexicon = []KeywordGroup{
	{Label: string(CuisineIndian), Keywords: []string{"turmeric", "curry", "masala", "ginger", "garam", "dal", "spices"}},
	{Label: string(CuisineItalian), Keywords: []string{"basil", "olive oil", "tomato", "mozzarella", "pasta", "parmesan"}},
	{Label: string(CuisineChinese), Keywords: []string{"soy", "garlic", "noodles", "sesame", "chili sauce"}},
	{Label: string(CuisineMexican), Keywords: []string{"beans", "chili", "tortilla", "avocado", "salsa", "corn"}},
	{Label: string(CuisineFrench), Keywords: []string{"butter", "cream", "wine", "cheese", "herbs", "onion"}},
}

// 健康特徵：蛋白質、脂肪來源、纖維
var healthLexicon = []KeywordGroup{
	{Label: "protein", Keywords: []string{"chicken", "egg", "paneer", "tofu", "beans", "lentil"}},
	{Label: "fat", Keywords: []string{"olive oil", "butter", "ghee", "avocado", "nuts", "salmon"}},
	{Label: "fiber", Keywords: []string{"leafy", "broccoli", "spinach", "oats", "brown rice", "fiber"}},
}

// 健康向量槽位索引
const (
	healthSlotProtein = 0
	healthSlotFat     = 1
	healthSlotFiber   = 2
)

// Cuisines 回傳菜系列舉（依槽位順序）
func Cuisines() []CuisineLabel {
	out := make([]CuisineLabel, len(cuisineLexicon))
	for i, g := range cuisineLexicon {
		out[i] = CuisineLabel(g.Label)
	}
	return out
}

// IsCuisine 檢查是否為支援的菜系
func IsCuisine(s string) bool {
	for _, g := range cuisineLexicon {
		if g.Label == s {
			return true
		}
	}
	return false
}
