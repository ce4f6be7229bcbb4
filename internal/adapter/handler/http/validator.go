package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/wekeepgrowing/semo-customer/pkg/errors"
)

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !apperrors.As(err, &fieldErrs) {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid request", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fe.Field()+" must satisfy "+fe.Tag()+"="+fe.Param())
		} else {
			msgs = append(msgs, fe.Field()+" must satisfy "+fe.Tag())
		}
	}
	return apperrors.NewAppError(apperrors.ErrInvalidArgument, strings.Join(msgs, "; "), err)
}
