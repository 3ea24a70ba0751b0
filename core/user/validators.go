package user

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hamasa/core"
)

var (
	accessCodeTag   = "accesscode"
	accessCodeText  = "must be exactly 5 uppercase letters or digits"
	accessCodeRegex = regexp.MustCompile(`^[A-Z0-9]{5}$`)
)

// RegisterValidators registers user-domain validation tags on validate.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(accessCodeTag, accessCodeValidation)
	core.RegisterCustomTranslation(validate, translator, accessCodeTag, accessCodeText)
}

// accessCodeValidation allows exactly 5 uppercase alphanumeric characters.
func accessCodeValidation(fl validator.FieldLevel) bool {
	return accessCodeRegex.MatchString(fl.Field().String())
}
