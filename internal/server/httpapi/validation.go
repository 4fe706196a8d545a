package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const bcryptMaxBytes = auth.MaxPasswordBytes

var registerOnce sync.Once

// registerValidators teaches gin's validator the json field names and the
// "bcryptlen" tag. Safe to call more than once.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) <= bcryptMaxBytes
		})
	})
}

// toValidationError converts a ShouldBindJSON failure into field details.
func toValidationError(err error) *common.ValidationError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return &common.ValidationError{Fields: []common.FieldError{{Field: "body", Message: "must be a valid JSON object"}}}
	}

	fields := make([]common.FieldError, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, common.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return &common.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", bcryptMaxBytes)
	default:
		return "is invalid"
	}
}
