package validator

import (
	"sync"

	"github.com/NethermindEth/snapreader/core/felt"
	"github.com/NethermindEth/snapreader/utils"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// validateFelt accepts strings that parse as a field element
func validateFelt(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := felt.FromString[felt.Felt](s)
	return err == nil
}

func validateLogLevel(fl validator.FieldLevel) bool {
	level, ok := fl.Field().Interface().(utils.LogLevel)
	return ok && level >= utils.DEBUG && level <= utils.FATAL
}

// Validator returns a singleton that can be used to validate various objects
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()

		if err := v.RegisterValidation("felt", validateFelt); err != nil {
			panic("failed to register validation: " + err.Error())
		}

		if err := v.RegisterValidation("log_level", validateLogLevel); err != nil {
			panic("failed to register validation: " + err.Error())
		}
	})
	return v
}
