package validation

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

// Domain-flavored messages, keyed by "Field|tag". Anything not listed falls
// back to the translator's default wording.
var fieldMessages = map[string]string{
	"Name|required":              "Please provide a name",
	"Name|min":                   "Name is too short",
	"Name|max":                   "Name is too long",
	"Email|required":             "Please provide an email",
	"Email|email":                "Please provide a valid email",
	"Age|required":               "Please provide an age",
	"Age|gte":                    "You must be 18 and above to join this platform",
	"Role|oneof":                 "Invalid role",
	"Password|required":          "Please provide a password",
	"PasswordConfirm|required":   "Please confirm your password",
	"PasswordConfirm|eqfield":    "Passwords do not match",
	"NewPasswordConfirm|eqfield": "Passwords do not match",
	"StartDate|required":         "Please provide a start date for the event",
	"Participants|required":      "Please provide participants",
	"Participants|min":           "Please provide participants",
	"Duration|required":          "Please provide a duration",
	"Duration|gt":                "Duration must be a positive number",
}

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func FormatValidationErrors(err error) []FieldError {
	var errors []FieldError

	validationErrors, ok := err.(validator.ValidationErrors)

	if !ok {
		return nil
	}

	for _, fieldError := range validationErrors {
		message, ok := fieldMessages[fieldError.Field()+"|"+fieldError.Tag()]

		if !ok {
			message = fieldError.Translate(Translator)
		}

		errors = append(errors, FieldError{
			Field:   strings.ToLower(fieldError.Field()[:1]) + fieldError.Field()[1:],
			Message: message,
		})
	}

	return errors
}
