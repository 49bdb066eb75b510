package rest

import (
	et "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	envalidator "github.com/go-playground/validator/v10/translations/en"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wgparish/buy-it-for-life-tracker/app/common"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func GetValidator() *validator.Validate {
	return validate
}

func GetValidationError(errs validator.ValidationErrors) error {
	validationErrors := errs.Translate(translator)
	details := make([]string, 0)

	for _, err := range validationErrors {
		details = append(details, err)
	}
	return common.NewValidationError(
		"Validation Error",
		details,
	)
}

func init() {
	validate = validator.New()

	en := et.New()
	uni := ut.New(en, en)

	translator, _ = uni.GetTranslator("en")
	if err := envalidator.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	if err := registerValidation(
		validate,
		translator,
		"objectid",
		"Invalid object id passed into {0}",
		objectIDValidator,
	); err != nil {
		panic(err)
	}
}

func objectIDValidator(fieldLevel validator.FieldLevel) bool {
	targetToCheck := fieldLevel.Field().String()

	_, err := primitive.ObjectIDFromHex(targetToCheck)

	return err == nil
}

func registerValidation(
	validate *validator.Validate,
	translator ut.Translator,
	tag string,
	msg string,
	validatorFunc validator.Func,
) error {
	if err := validate.RegisterValidation(tag, validatorFunc); err != nil {
		return err
	}

	err := setErrorMessage(validate, translator, tag, msg)

	return err
}

func setErrorMessage(
	validate *validator.Validate,
	translator ut.Translator,
	tag string,
	msg string,
) error {
	return validate.RegisterTranslation(
		tag,
		translator,
		func(ut ut.Translator) error {
			return ut.Add(tag, msg, false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}
