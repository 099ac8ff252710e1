package apperror

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

func isISODate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// FieldError is one entry of the details array of a validation failure.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// MapValidationError turns a binding error into a validation AppError. The
// message describes the first failing field; details list all of them.
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		details := make([]FieldError, 0, len(errs))
		for _, fe := range errs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}

		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		var appErr *AppError
		switch e.Tag() {
		case "required":
			appErr = RequiredField(humanReadableField)
		default:
			appErr = InvalidField(humanReadableField)
		}
		return appErr.WithDetails(details)
	}

	return New(KindValidation, CodeValidation, "Invalid input")
}
