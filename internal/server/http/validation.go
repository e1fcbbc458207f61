package http

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255,nomarkup"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=20"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=20"`
}

type updateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=255,nomarkup"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=20"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (u updateRequest) empty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.Role == nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	strict := bluemonday.StrictPolicy()
	_ = v.RegisterValidation("nomarkup", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strict.Sanitize(s) == html.EscapeString(s)
	})

	return v
}

// validateStruct returns nil when s passes, otherwise one FieldError per
// failed rule.
func validateStruct(v *validator.Validate, s any) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return "Invalid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "nomarkup":
		return fmt.Sprintf("%s must not contain markup", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
