package usererrors

import "go-timesheet/internal/shared/apperror"

var (
	ErrUserNotFound = apperror.New(
		apperror.KindNotFound,
		apperror.CodeNotFound,
		"User not found",
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.KindConflict,
		apperror.CodeConflict,
		"User with the same email already exists",
	)

	ErrInvalidUserID = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"Invalid user ID",
	)

	ErrInvalidRole = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"role must be admin, employee or user",
	)
)
