package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/erp/checkout/internal/interfaces/http/dto"
)

// SetupValidator reports binding errors under json (or form) field names
// and registers the currency and iso2 tags
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", lettersOfLen(3))
		_ = v.RegisterValidation("iso2", lettersOfLen(2))
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// lettersOfLen accepts codes such as "usd" or "IN": exactly n ASCII letters,
// either case. Callers upper-case before lookup.
func lettersOfLen(n int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := strings.TrimSpace(fl.Field().String())
		if len(v) != n {
			return false
		}
		for _, r := range v {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
				return false
			}
		}
		return true
	}
}

// HandleValidationError writes a 400 response describing a binding error
func HandleValidationError(c *gin.Context, err error) {
	var details []dto.ValidationDetail
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			details = append(details, dto.ValidationDetail{Field: e.Field(), Message: validationMessage(e)})
		}
	}
	message := "Request validation failed"
	if len(details) == 0 {
		message = "Malformed request body"
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(message, GetRequestID(c), details))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Must be at least " + e.Param()
	case "max":
		return "Must be at most " + e.Param()
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "url":
		return "Invalid URL format"
	case "uuid":
		return "Invalid UUID format"
	case "currency":
		return "Must be a 3-letter currency code"
	case "iso2":
		return "Must be a 2-letter ISO country code"
	default:
		return "Invalid value"
	}
}
