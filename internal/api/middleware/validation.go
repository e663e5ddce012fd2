package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"whisper-api/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateQuery binds and validates query parameters into req.
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return translate(err, "query", "invalid query parameters")
	}
	return validateDomain(req)
}

// ValidateForm binds and validates multipart or urlencoded form fields,
// including file headers, into req.
func ValidateForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBind(req); err != nil {
		return translate(err, "request", "invalid form data")
	}
	return validateDomain(req)
}

func validateDomain(req interface{}) error {
	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}

func translate(err error, fallbackField, fallbackMessage string) error {
	fields := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		for _, fieldError := range validationErrs {
			field := strings.ToLower(fieldError.Field())

			switch fieldError.Tag() {
			case "required":
				fields[field] = "is required"
			case "min":
				fields[field] = "is too short"
			case "max":
				fields[field] = "is too long"
			case "oneof":
				fields[field] = "must be one of the allowed values"
			default:
				fields[field] = "is invalid"
			}
		}
	} else {
		fields[fallbackField] = fallbackMessage
	}

	return errors.NewValidationError("Validation failed", fields)
}
