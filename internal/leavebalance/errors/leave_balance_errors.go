package leavebalanceerrors

import "go-timesheet/internal/shared/apperror"

var (
	ErrInvalidUserID = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid user id",
	)
	ErrInvalidFinancialYear = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"financial_year must look like 2024-25",
	)
	ErrNegativeQuantity = apperror.New(
		apperror.KindValidation,
		apperror.CodeValidation,
		"opening_balance, availed and lapse must not be negative",
	)
	ErrInvalidLapseDate = apperror.New(
		apperror.KindValidation,
		apperror.CodeInvalidInput,
		"invalid lapse_date, expected YYYY-MM-DD",
	)
	ErrVersionConflict = apperror.New(
		apperror.KindConflict,
		apperror.CodeConflict,
		"leave balance was modified by another request",
	)
)
