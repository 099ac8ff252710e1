package leaveerrors

import (
	"go-timesheet/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid user id",
	)
	ErrInvalidReviewerID = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid reviewer id",
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
	)
	ErrInvalidDateRange = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"end_date must be on or after start_date",
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"invalid leave type",
	)
	ErrInvalidSession = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"invalid session",
	)
	ErrHalfDaySpan = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"a half day leave must start and end on the same day",
	)
	ErrInvalidStatus = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"status must be approved or rejected",
	)
	ErrLeaveOverlap = apperror.New(
		apperror.KindConflict,
		apperror.CodeConflict,
		"leave already exists in overlapping period",
	)
	ErrLeaveNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"leave request not found",
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.KindConflict,
		apperror.CodeInvalidState,
		"leave request has already been reviewed",
	)
)
