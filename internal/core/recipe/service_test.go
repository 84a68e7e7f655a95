package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"recipe-insight/internal/core/ml"
	"recipe-insight/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, gen TextGenerator) *Service {
	t.Helper()
	models, err := ml.NewModels()
	require.NoError(t, err)
	return NewService(models, NewSource(gen))
}

func TestGenerateFallbackResponse(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Generate(context.Background(), Request{
		Ingredients: "tomato, onion, garlic",
		Cuisine:     "Mexican",
		Style:       "Rustic",
		DishType:    "lunch",
	})
	require.NoError(t, err)

	require.Len(t, resp.Recipes, 3)
	assert.Equal(t, "Quick tomato", resp.Recipes[0].Title)
	assert.Equal(t, StaticMetrics, resp.Metrics)
	assert.NotEmpty(t, resp.PredictedHealth)
}

func TestGenerateCuisinePrediction(t *testing.T) {
	svc := newTestService(t, nil)

	tests := []struct {
		name        string
		ingredients string
		selected    string
		want        ml.CuisineLabel
	}{
		{"indian keywords", "turmeric and ginger curry", "French", ml.CuisineIndian},
		{"no keywords uses selection", "rice, water", "French", ml.CuisineFrench},
		{"no keywords other selection", "lamb", "Chinese", ml.CuisineChinese},
		{"italian keywords", "basil, mozzarella", "Mexican", ml.CuisineItalian},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Generate(context.Background(), Request{
				Ingredients: tt.ingredients, Cuisine: tt.selected, Style: "Modern", DishType: "dinner",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.PredictedCuisine)
		})
	}
}

func TestGenerateHealthPrediction(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Generate(context.Background(), Request{
		Ingredients: "chicken and spinach", Cuisine: "Indian", Style: "Modern", DishType: "dinner",
	})
	require.NoError(t, err)
	assert.Equal(t, ml.HealthHighProtein, resp.PredictedHealth)
}

func TestGenerateUsesGeneratorRecipes(t *testing.T) {
	gen := &stubGenerator{content: "```json\n[{\"title\":\"A\",\"ingredients\":[\"x\"],\"steps\":[\"y\"],\"healthBenefits\":[\"z\"]},{\"title\":\"B\"}]\n```"}
	svc := newTestService(t, gen)

	resp, err := svc.Generate(context.Background(), testRequest("basil"))
	require.NoError(t, err)
	require.Len(t, resp.Recipes, 2)
	assert.Equal(t, common.Recipe{Title: "A", Ingredients: []string{"x"}, Steps: []string{"y"}, HealthBenefits: []string{"z"}}, resp.Recipes[0])
	assert.Equal(t, "B", resp.Recipes[1].Title)
}

func TestGenerateGeneratorFailureIsNotSurfaced(t *testing.T) {
	svc := newTestService(t, &stubGenerator{err: errors.New("upstream 500")})

	resp, err := svc.Generate(context.Background(), testRequest("tomato, onion, garlic"))
	require.NoError(t, err)
	assert.Len(t, resp.Recipes, 3)
}

func TestGenerateErrors(t *testing.T) {
	_, err := NewService(nil, NewSource(nil)).Generate(context.Background(), testRequest("x"))
	assert.ErrorIs(t, err, ErrModelsUnavailable)

	svc := newTestService(t, nil)
	req := testRequest("x")
	req.Cuisine = "Martian"
	_, err = svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, common.ErrInvalidCuisine)
}

func TestResponseJSONShape(t *testing.T) {
	svc := newTestService(t, nil)
	resp, err := svc.Generate(context.Background(), testRequest(""))
	require.NoError(t, err)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"recipes", "predictedCuisine", "predictedHealth", "metrics"} {
		assert.Contains(t, decoded, key)
	}
	m := decoded["metrics"].(map[string]interface{})
	nb := m["naiveBayes"].(map[string]interface{})
	assert.Equal(t, 0.93, nb["accuracy"])
	assert.Equal(t, 0.91, nb["f1"])
	dt := m["decisionTree"].(map[string]interface{})
	assert.Equal(t, 0.865, dt["f1"])

	recipe := decoded["recipes"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, recipe, "healthBenefits")
	assert.Equal(t, []interface{}{}, recipe["ingredients"])
}
