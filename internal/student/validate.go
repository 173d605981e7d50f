package student

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// ValidateDraft checks the fields a new record needs: non-empty name and major
// and an enrollment year after MinEnrollmentYear. Text is trimmed first.
// The returned error is a *errors.ValidationError naming the first bad field.
func ValidateDraft(d Draft) error {
	err := validatorInstance().Struct(d.Normalized())
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return rostererrors.NewValidationError("", err.Error(), err)
	}

	first := fieldErrs[0]
	return rostererrors.NewValidationError(first.Field(), describe(first), err)
}

// ValidateRecord checks a record received from the server.
func ValidateRecord(r Record) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("record %q has no id", r.Name)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return "is invalid"
	}
}
