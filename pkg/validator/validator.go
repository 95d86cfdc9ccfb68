package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/snaplinkhq/snaplink/pkg/response"
)

var validate *validator.Validate

var shortCodeRe = regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
		return ValidShortCode(fl.Field().String())
	})
	validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
		return ValidURL(fl.Field().String())
	})
}

// ValidShortCode reports whether code is 3-20 alphanumeric characters.
// Matching is case-sensitive; no normalization is applied.
func ValidShortCode(code string) bool {
	return shortCodeRe.MatchString(code)
}

// ValidURL reports whether raw is an absolute http or https URL with a
// non-empty host. Internal hosts pass; use IsInternalHost to flag them.
func ValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsInternalHost reports whether raw points at a loopback or private-range
// host. Such URLs are accepted but should be audit-logged by the caller.
func IsInternalHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()

	if host == "localhost" || host == "127.0.0.1" {
		return true
	}
	return strings.HasPrefix(host, "192.168.") || strings.HasPrefix(host, "10.")
}

// ValidValidityMinutes reports whether n is within 1 minute to one year.
func ValidValidityMinutes(n int) bool {
	return n >= 1 && n <= 525600
}

// Validate runs struct-tag validation and converts failures into
// field-level error messages.
func Validate(data interface{}) []response.ValidationError {
	var validationErrors []response.ValidationError

	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, response.ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "httpurl":
		return fmt.Sprintf("%s must be a valid http(s) URL", field)
	case "shortcode":
		return fmt.Sprintf("%s must be 3-20 alphanumeric characters", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
