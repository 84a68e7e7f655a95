package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCuisineFeatures(t *testing.T) {
	tests := []struct {
		name string
		text string
		want FeatureVector
	}{
		{"indian only", "turmeric and ginger curry", FeatureVector{1, 0, 0, 0, 0}},
		{"case folded", "Fresh BASIL and Mozzarella", FeatureVector{0, 1, 0, 0, 0}},
		{"several slots", "tomato, onion, garlic", FeatureVector{0, 1, 1, 0, 1}},
		{"multi word keyword", "a splash of olive oil", FeatureVector{0, 1, 0, 0, 0}},
		{"ginger is indian only", "fresh ginger", FeatureVector{1, 0, 0, 0, 0}},
		{"bok choy not listed", "steamed bok choy", FeatureVector{0, 0, 0, 0, 0}},
		{"no match", "chicken and spinach", FeatureVector{0, 0, 0, 0, 0}},
		{"empty", "", FeatureVector{0, 0, 0, 0, 0}},
		// 子字串比對會命中較長單字中的關鍵字
		{"substring inside word", "soybean sprouts", FeatureVector{0, 0, 1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeCuisineFeatures(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, 5)
		})
	}
}

func TestEncodeHealthFeatures(t *testing.T) {
	tests := []struct {
		name string
		text string
		want FeatureVector
	}{
		{"protein and fiber", "chicken and spinach", FeatureVector{1, 0, 1}},
		{"fat only", "salmon with butter", FeatureVector{0, 1, 0}},
		{"all slots", "tofu, avocado, brown rice", FeatureVector{1, 1, 1}},
		{"nothing", "tomato, onion, garlic", FeatureVector{0, 0, 0}},
		{"uppercase", "EGG", FeatureVector{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeHealthFeatures(tt.text))
		})
	}
}

func TestFeatureVectorIsZero(t *testing.T) {
	assert.True(t, FeatureVector{0, 0, 0}.IsZero())
	assert.True(t, FeatureVector{}.IsZero())
	assert.False(t, FeatureVector{0, 1, 0}.IsZero())
}

func TestLexiconOrderMatchesTrainingSet(t *testing.T) {
	examples := CuisineTrainingSet()
	cuisines := Cuisines()
	assert.Len(t, examples, len(cuisines))
	for i, ex := range examples {
		assert.Equal(t, string(cuisines[i]), ex.Label)
		assert.Equal(t, 1, ex.Features[i])
		assert.Equal(t, EncodeCuisineFeatures(cuisineLexicon[i].Keywords[0]), ex.Features)
	}
}
