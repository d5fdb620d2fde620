// Package validation wires domain validators into gin's binding engine and
// turns validator errors into field maps.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/relation-models/internal/model"
)

// Register installs the custom tags on gin's validator. Safe to call more than once.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterOn(v)
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("shirtsize", func(fl validator.FieldLevel) bool {
		return model.ShirtSize(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("relationtype", func(fl validator.FieldLevel) bool {
		return model.RelationType(fl.Field().String()).Valid()
	})
}

// Details flattens err into field -> message. ok is false when err is not a
// validator error (e.g. malformed JSON).
func Details(err error) (map[string]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = "this field is required"
		case "max":
			out[field] = "value is too long (max: " + fe.Param() + ")"
		case "min", "gte":
			out[field] = "value must be at least " + fe.Param()
		case "shirtsize":
			out[field] = "invalid shirt size, must be one of S, M, L"
		case "relationtype":
			out[field] = "invalid relation type, must be f (follow) or b (block)"
		default:
			out[field] = "invalid value"
		}
	}
	return out, true
}
