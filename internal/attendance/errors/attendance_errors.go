package attendanceerrors

import "go-timesheet/internal/shared/apperror"

var (
	ErrInvalidUserID = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid user id",
	)
	ErrInvalidShiftID = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid shift id",
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
	ErrDateRangeTooLong = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"date range must not exceed 366 days",
	)
	ErrInvalidClock = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"clock_in and clock_out must be HH:MM",
	)
	ErrInvalidStatus = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"status must be one of present, absent, half_day, on_leave",
	)
	ErrInvalidTotalHours = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"total_hours must be between 0 and 24",
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.KindConflict,
		apperror.CodeConflict,
		"already clocked in for today",
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.KindConflict,
		apperror.CodeConflict,
		"already clocked out for today",
	)
	ErrOnLeaveToday = apperror.New(
		apperror.KindConflict,
		apperror.CodeInvalidState,
		"today is marked as on leave",
	)
	ErrClockInNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"clock in not found for today",
	)
)
