package apperror

import "fmt"

var (
	ErrNotFound = New(
		KindNotFound,
		CodeNotFound,
		"Resource not found",
	)

	ErrForbidden = New(
		KindAuthorization,
		CodeForbidden,
		"You do not have permission to access this resource",
	)

	ErrInternal = New(
		KindInternal,
		CodeInternalError,
		"Internal server error",
	)

	ErrUnauthorized = New(
		KindUnauthenticated,
		CodeUnauthorized,
		"Authentication is required",
	)

	ErrInvalidInput = New(
		KindValidation,
		CodeInvalidInput,
		"The provided input is invalid",
	)

	ErrTooManyRequests = New(
		KindRateLimited,
		CodeTooManyRequests,
		"Too many requests",
	)

	ErrFeatureDisabled = New(
		KindNotFound,
		CodeNotFound,
		"This feature is not enabled",
	)
)

func RequiredField(field string) *AppError {
	return New(KindValidation, CodeValidation, fmt.Sprintf("%s is required", field))
}

func InvalidField(field string) *AppError {
	return New(KindValidation, CodeValidation, fmt.Sprintf("%s is invalid", field))
}
