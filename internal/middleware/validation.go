package middleware

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

var (
	floatPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	intPattern   = regexp.MustCompile(`^[+-]?\d+$`)
)

func init() {
	validate = validator.New()

	// Report fields under their form names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("floatmin", validateFloatMin)
	validate.RegisterValidation("intmin", validateIntMin)
}

// validateFloatMin accepts decimal text whose value is at least the tag parameter
func validateFloatMin(fl validator.FieldLevel) bool {
	text := fl.Field().String()
	if !floatPattern.MatchString(text) {
		return false
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(value, 0) {
		return false
	}
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}
	return value >= limit
}

// validateIntMin accepts integer text whose value is at least the tag
// parameter. Values must fit the 32-bit stock column.
func validateIntMin(fl validator.FieldLevel) bool {
	text := fl.Field().String()
	if !intPattern.MatchString(text) {
		return false
	}
	value, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return false
	}
	limit, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	return value >= limit
}

// ValidateRequest validates a struct with validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format.
// Messages keyed by field name replace the generic per-tag text.
func FormatValidationErrors(err error, messages map[string]string) []ValidationError {
	var fieldErrors []ValidationError

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			message, ok := messages[e.Field()]
			if !ok {
				message = getErrorMessage(e)
			}
			fieldErrors = append(fieldErrors, ValidationError{
				Field:   e.Field(),
				Message: message,
			})
		}
	}

	return fieldErrors
}

func getErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Invalid identifier"
	case "floatmin":
		return "Must be a number of at least " + e.Param()
	case "intmin":
		return "Must be a whole number of at least " + e.Param()
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	default:
		return "Invalid value"
	}
}
