// Package validation checks command and query structs with
// go-playground/validator and turns failures into domain errors.
package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared instance with the gradebook rules registered:
//
//	studentid  "S" followed by exactly three digits
//	notblank   non-empty after trimming whitespace
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("studentid", func(fl validator.FieldLevel) bool {
			return student.IsValidID(fl.Field().String())
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
		instance = v
	})
	return instance
}

// Struct validates s. The first failing field decides the returned error;
// well-known fields map to the roster sentinels so callers can errors.Is them.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return shared.WrapError("validation", "Struct", shared.ErrValidation, "invalid input", err)
	}

	return translate(verrs[0])
}

func translate(fe validator.FieldError) error {
	switch fe.Tag() {
	case "studentid":
		return shared.ErrInvalidStudentID
	case "gte", "lte", "min", "max":
		if fe.Field() == "Score" {
			return shared.ErrScoreOutOfRange
		}
	case "notblank", "required":
		switch fe.Field() {
		case "ID", "StudentID":
			return shared.ErrInvalidStudentID
		case "Name":
			return shared.ErrBlankName
		case "Subject":
			return shared.ErrBlankSubject
		}
	}

	return shared.NewDomainError(
		"validation",
		fe.StructNamespace(),
		shared.ErrValidation,
		fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()),
	)
}
