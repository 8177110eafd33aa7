// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

// MaxNameLength bounds the profile name.
const MaxNameLength = 100

type registerInput struct {
	IdentityKey string `json:"email" validate:"required,email,max=254"`
	Secret      string `json:"password" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
}

type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &inputValidator{v: v}
}

// validate returns ErrValidation naming the first offending field.
func (iv *inputValidator) validate(input any) error {
	err := iv.v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return oops.Code(CodeInvalidInput).Wrap(fmt.Errorf("%w: %s", ErrValidation, err.Error()))
	}

	fe := fieldErrs[0]
	msg := describe(fe)
	return oops.Code(CodeInvalidInput).
		With("field", fe.Field()).
		With("rule", fe.Tag()).
		Public(msg).
		Wrap(fmt.Errorf("%w: %s", ErrValidation, msg))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func trimName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
