package shifterrors

import "go-timesheet/internal/shared/apperror"

var (
	ErrInvalidUserID = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid user id",
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
	ErrInvalidShiftType = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"shift_type must be General Shift or Second Shift",
	)
	ErrInvalidClock = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"start_time and end_time must be HH:MM",
	)
)
