package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/erp/mws-connector/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes binding errors report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

func fieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// FormatValidationErrors formats validation errors into a standard response.
// Errors that are not field validation failures, such as malformed JSON,
// yield a response without details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 with the formatted validation errors
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

var validationMessages = map[string]string{
	"required": "This field is required",
	"len":      "Must be exactly %s characters",
	"uuid":     "Invalid UUID format",
	"oneof":    "Must be one of: %s",
	"gt":       "Must be greater than %s",
	"gte":      "Must be at least %s",
}

func validationMessage(e validator.FieldError) string {
	if tag := e.Tag(); tag == "min" || tag == "max" {
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be %s %s characters", bound, e.Param())
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain %s %s item(s)", bound, e.Param())
		}
		return fmt.Sprintf("Must be %s %s", bound, e.Param())
	}
	msg, ok := validationMessages[e.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, e.Param())
	}
	return msg
}
