package recipe

import (
	"sync"

	"recipe-insight/internal/core/ml"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 在 gin 綁定引擎註冊 cuisine 標籤
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("cuisine", func(fl validator.FieldLevel) bool {
				return ml.IsCuisine(fl.Field().String())
			})
		}
	})
}
