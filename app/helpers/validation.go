package helpers

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports JSON field names and knows
// the password strength tags used at registration.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("hasupper", hasRune(unicode.IsUpper))
	_ = v.RegisterValidation("hasdigit", hasRune(unicode.IsDigit))
	_ = v.RegisterValidation("hasspecial", hasRune(isSpecial))
	_ = v.RegisterValidation("maxbytes", maxBytes)

	return v
}

func hasRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		for _, r := range fl.Field().String() {
			if pred(r) {
				return true
			}
		}
		return false
	}
}

// maxBytes limits the UTF-8 encoded length of a string. bcrypt rejects
// passwords longer than 72 bytes while max counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) && unicode.IsPrint(r)
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		if _, seen := errorMessages[field]; seen {
			continue
		}
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", field)
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", field)
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", field)
		case "min":
			errorMessages[field] = minMessage(err)
		case "max":
			errorMessages[field] = maxMessage(err)
		case "gt":
			errorMessages[field] = fmt.Sprintf("%s must be greater than %s.", field, err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", field, strings.ReplaceAll(err.Param(), " ", ", "))
		case "maxbytes":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s bytes long.", field, err.Param())
		case "hasupper":
			errorMessages[field] = fmt.Sprintf("%s must contain at least one uppercase letter.", field)
		case "hasdigit":
			errorMessages[field] = fmt.Sprintf("%s must contain at least one number.", field)
		case "hasspecial":
			errorMessages[field] = fmt.Sprintf("%s must contain at least one special character.", field)
		default:
			errorMessages[field] = fmt.Sprintf("%s failed the %s validation.", field, err.Tag())
		}
	}
	return errorMessages
}

func isLengthCheck(err validator.FieldError) bool {
	switch err.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

func minMessage(err validator.FieldError) string {
	if isLengthCheck(err) {
		return fmt.Sprintf("%s must be at least %s characters long.", err.Field(), err.Param())
	}
	return fmt.Sprintf("%s must be at least %s.", err.Field(), err.Param())
}

func maxMessage(err validator.FieldError) string {
	if isLengthCheck(err) {
		return fmt.Sprintf("%s must be at most %s characters long.", err.Field(), err.Param())
	}
	return fmt.Sprintf("%s must be at most %s.", err.Field(), err.Param())
}
