package validator

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/route-planner/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// В деталях ошибок используем имена полей из json-тегов
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate - валидация структуры. Ошибки валидатора превращаются в
// errors.ErrValidation с деталями по полям.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.ErrInvalidRequest.WithCause(err)
	}

	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fieldPath(fe.Namespace())] = ruleDescription(fe)
	}
	return errors.ErrValidation.WithDetails(details)
}

// fieldPath убирает имя корневой структуры: "CreateRouteRequest.start_coordinates.longitude"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func ruleDescription(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
