package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[{"title":"a"}]`, `[{"title":"a"}]`},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"bare fence", "```\n{}\n```", "{}"},
		{"surrounding space", "  \n```json [] ```  ", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestParseJSONRejectsTrailingData(t *testing.T) {
	var v []int
	require.NoError(t, ParseJSON("[1,2]", &v))
	assert.Equal(t, []int{1, 2}, v)
	assert.Error(t, ParseJSON("[1] [2]", &v))
}

func TestParseJSONBytesIgnoresUnknownFields(t *testing.T) {
	var r Recipe
	require.NoError(t, ParseJSONBytes([]byte(`{"title":"x","servings":4}`), &r))
	assert.Equal(t, "x", r.Title)
}

func TestSplitIngredients(t *testing.T) {
	assert.Equal(t, []string{"tomato", "onion", "garlic"}, SplitIngredients("tomato, onion, garlic"))
	assert.Equal(t, []string{"a", "b"}, SplitIngredients(" a ,, b , "))
	assert.Equal(t, []string{}, SplitIngredients(" , "))
}

func TestRecipeNormalize(t *testing.T) {
	r := Recipe{Title: "x"}
	r.Normalize()
	assert.NotNil(t, r.Ingredients)
	assert.NotNil(t, r.Steps)
	assert.NotNil(t, r.HealthBenefits)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "sk-o...wxyz", MaskSecret("sk-or-abcdefwxyz"))
}

func TestCustomErrorWrapping(t *testing.T) {
	wrapped := ErrInvalidCuisine.WithErr(assert.AnError)
	assert.ErrorIs(t, wrapped, ErrInvalidCuisine)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.NotErrorIs(t, wrapped, ErrInvalidRequest)
	assert.Equal(t, assert.AnError.Error(), wrapped.Error())
	assert.Equal(t, ErrInvalidCuisine.Message, ErrInvalidCuisine.Error())
}
