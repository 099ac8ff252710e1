package reporterrors

import "go-timesheet/internal/shared/apperror"

var (
	ErrInvalidMonth = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"month must be between 1 and 12",
	)
	ErrInvalidYear = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"year must be between 2000 and 2100",
	)
	ErrInvalidDate = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
	)
	ErrInvalidDateRange = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"end_date must be on or after start_date",
	)
	ErrRangeTooLong = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"date range must not exceed 366 days",
	)
	ErrUnsupportedFormat = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"format must be json, csv or xlsx",
	)
)
