package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"recipe-insight/internal/core/ai/provider"
	"recipe-insight/internal/core/ai/queue"
	"recipe-insight/internal/infrastructure/metrics"
	"recipe-insight/internal/pkg/common"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// 食譜來源
const (
	SourceGenerator = "generator"
	SourceFallback  = "fallback"
)

// 來源結果原因
const (
	ReasonOK                   = "ok"
	ReasonGeneratorDisabled    = "generator_disabled"
	ReasonGeneratorError       = "generator_error"
	ReasonGeneratorTimeout     = "generator_timeout"
	ReasonGeneratorUnavailable = "generator_unavailable"
	ReasonEmptyResponse        = "empty_response"
	ReasonInvalidJSON          = "invalid_json"
	ReasonNotArray             = "not_array"
	ReasonEmptyArray           = "empty_array"
	ReasonInvalidRecipe        = "invalid_recipe"
)

// 預設名詞，輸入切分後為空時使用
const (
	quickDefault     = "Dish"
	homestyleDefault = "Recipe"
	freshDefault     = "Salad"
)

// TextGenerator 食譜來源需要的生成能力，validate 決定內容能否被緩存
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, validate func(string) error) (string, error)
}

// SourceResult 食譜候選與來源
type SourceResult struct {
	Recipes []common.Recipe
	Source  string
	Reason  string
	Err     error
}

// ParseResult 生成內容的解析結果
type ParseResult struct {
	Recipes []common.Recipe
	Reason  string
	Err     error
}

// OK 解析是否成功
func (p ParseResult) OK() bool {
	return p.Reason == ReasonOK
}

// Source 食譜來源：優先外部生成，失敗時以模板合成
type Source struct {
	generator TextGenerator
}

// NewSource 創建食譜來源，generator 可為 nil
func NewSource(generator TextGenerator) *Source {
	return &Source{generator: generator}
}

// Recipes 取得候選食譜，永不回傳錯誤
func (s *Source) Recipes(ctx context.Context, req Request) SourceResult {
	if s.generator == nil {
		return s.fallback(ctx, req.Ingredients, ReasonGeneratorDisabled, nil)
	}

	content, err := s.generator.GenerateText(ctx, BuildPrompt(req), validateRecipes)
	if err != nil {
		return s.fallback(ctx, req.Ingredients, generatorReason(err), err)
	}

	parsed := ParseRecipes(content)
	if !parsed.OK() {
		return s.fallback(ctx, req.Ingredients, parsed.Reason, parsed.Err)
	}

	metrics.RecipeSourceTotal.WithLabelValues(SourceGenerator, ReasonOK).Inc()
	return SourceResult{Recipes: parsed.Recipes, Source: SourceGenerator, Reason: ReasonOK}
}

func (s *Source) fallback(ctx context.Context, ingredients, reason string, err error) SourceResult {
	fields := []zap.Field{zap.String("request_id", common.RequestIDFromContext(ctx))}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if reason == ReasonGeneratorDisabled {
		common.LogDebug("生成服務未啟用，使用模板食譜", fields...)
	} else {
		common.LogFallback("recipe_source", reason, fields...)
	}
	metrics.RecipeSourceTotal.WithLabelValues(SourceFallback, reason).Inc()

	return SourceResult{
		Recipes: FallbackRecipes(ingredients),
		Source:  SourceFallback,
		Reason:  reason,
		Err:     err,
	}
}

func generatorReason(err error) string {
	switch {
	case errors.Is(err, provider.ErrDisabled):
		return ReasonGeneratorDisabled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonGeneratorTimeout
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, queue.ErrQueueFull):
		return ReasonGeneratorUnavailable
	default:
		return ReasonGeneratorError
	}
}

// validateRecipes 只有可解析的食譜陣列才能進入快取
func validateRecipes(content string) error {
	parsed := ParseRecipes(content)
	if parsed.OK() {
		return nil
	}
	if parsed.Err != nil {
		return fmt.Errorf("%s: %w", parsed.Reason, parsed.Err)
	}
	return errors.New(parsed.Reason)
}

// BuildPrompt 生成要求回傳 JSON 陣列的指令
func BuildPrompt(req Request) string {
	return fmt.Sprintf("You are a professional chef. Create 3 creative %s recipes. "+
		"Cuisine: %s, Style: %s. Main ingredients: %s. "+
		"Return valid JSON only in this format: "+
		`[ {"title": string, "ingredients": [string], "steps": [string], "healthBenefits": [string]} ]`,
		req.DishType, req.Cuisine, req.Style, req.Ingredients)
}

// ParseRecipes 去除程式碼圍欄後驗證為食譜陣列
func ParseRecipes(content string) ParseResult {
	text := common.StripCodeFence(content)
	if text == "" {
		return ParseResult{Reason: ReasonEmptyResponse}
	}

	var items []json.RawMessage
	if err := common.ParseJSON(text, &items); err != nil {
		var decoded interface{}
		if common.ParseJSON(text, &decoded) == nil {
			return ParseResult{Reason: ReasonNotArray, Err: fmt.Errorf("expected JSON array, got %T", decoded)}
		}
		return ParseResult{Reason: ReasonInvalidJSON, Err: err}
	}
	// null 也會解成 nil 切片
	if items == nil {
		return ParseResult{Reason: ReasonNotArray, Err: fmt.Errorf("expected JSON array, got null")}
	}
	if len(items) == 0 {
		return ParseResult{Reason: ReasonEmptyArray}
	}

	recipes := make([]common.Recipe, 0, len(items))
	for i, item := range items {
		var r common.Recipe
		if err := common.ParseJSONBytes(item, &r); err != nil {
			return ParseResult{Reason: ReasonInvalidRecipe, Err: fmt.Errorf("recipe %d: %w", i, err)}
		}
		if strings.TrimSpace(r.Title) == "" {
			return ParseResult{Reason: ReasonInvalidRecipe, Err: fmt.Errorf("recipe %d: missing title", i)}
		}
		r.Normalize()
		recipes = append(recipes, r)
	}
	return ParseResult{Recipes: recipes, Reason: ReasonOK}
}

// FallbackRecipes 以三個固定模板合成食譜，無隨機性
func FallbackRecipes(raw string) []common.Recipe {
	ingredients := common.SplitIngredients(raw)
	first := func(def string) string {
		if len(ingredients) > 0 {
			return ingredients[0]
		}
		return def
	}
	list := func() []string {
		return append([]string{}, ingredients...)
	}

	return []common.Recipe{
		{
			Title:          "Quick " + first(quickDefault),
			Ingredients:    list(),
			Steps:          []string{"Combine ingredients", "Cook on medium heat", "Garnish & serve"},
			HealthBenefits: []string{"Balanced nutrition", "Easy to make"},
		},
		{
			Title:          "Homestyle " + first(homestyleDefault),
			Ingredients:    list(),
			Steps:          []string{"Chop ingredients", "Sauté with spices", "Serve hot"},
			HealthBenefits: []string{"Comfort food", "Nutritious"},
		},
		{
			Title:          "Fresh " + first(freshDefault),
			Ingredients:    list(),
			Steps:          []string{"Chop", "Toss with dressing", "Serve chilled"},
			HealthBenefits: []string{"Light", "High in fibre"},
		},
	}
}
