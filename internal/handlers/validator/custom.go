package validator

import (
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	api "github.com/socovidiu/loc-solutions-backend/api/v1alpha1"
)

// localeValidator accepts well-formed BCP 47 language tags ("en-US", "ro-RO").
func localeValidator(fl validator.FieldLevel) bool {
	tag, err := language.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return tag != language.Und
}

func priorityValidator(fl validator.FieldLevel) bool {
	switch api.JobPriority(fl.Field().String()) {
	case api.JobPriorityLow, api.JobPriorityNormal, api.JobPriorityHigh:
		return true
	default:
		return false
	}
}
