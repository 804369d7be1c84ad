package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/itemtrack/backend/internal/domain/inventory"
	"github.com/itemtrack/backend/internal/interfaces/http/dto"
)

var registerOnce sync.Once

// SetupValidator teaches gin's validator the item_status tag and makes it
// report fields by their json (or form) name. Repeated calls are no-ops.
func SetupValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(wireName)
		_ = v.RegisterValidation("item_status", func(fl validator.FieldLevel) bool {
			_, err := inventory.ParseStatus(fl.Field().String())
			return err == nil
		})
	})
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// HandleValidationError answers 400 for a failed ShouldBind. Tag violations
// are listed per field; anything else means the body did not parse.
func HandleValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.Set(ErrorCodeKey, dto.ErrCodeInvalidJSON)
		c.JSON(http.StatusBadRequest, dto.Fail(dto.ErrCodeInvalidJSON,
			"Request body or query could not be parsed", GetRequestID(c), nil))
		return
	}

	fields := make([]dto.ValidationDetail, len(verrs))
	for i, fe := range verrs {
		fields[i] = dto.ValidationDetail{Field: fe.Field(), Message: describe(fe)}
	}
	c.Set(ErrorCodeKey, dto.ErrCodeValidation)
	c.JSON(http.StatusBadRequest, dto.Invalid(GetRequestID(c), fields))
}

func describe(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min", "gte":
		return fmt.Sprintf("Must be at least %s%s", fe.Param(), unit)
	case "max", "lte":
		return fmt.Sprintf("Must be at most %s%s", fe.Param(), unit)
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "item_status":
		return fmt.Sprintf("Must be one of: %s %s %s",
			inventory.StatusInInventory, inventory.StatusWithEmployee, inventory.StatusSold)
	case "uuid":
		return "Invalid UUID format"
	}
	return "Invalid value"
}
