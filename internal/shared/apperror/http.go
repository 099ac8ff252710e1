package apperror

import "net/http"

// HTTPError is the transport view of an error.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// StatusFor maps every Kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTP converts err for the response writer. Errors that are not AppErrors
// are reported as internal errors; their text is only exposed in devMode.
func ToHTTP(err error, devMode bool) HTTPError {
	appErr, ok := As(err)
	if !ok {
		out := HTTPError{
			Status:  http.StatusInternalServerError,
			Code:    ErrInternal.Code,
			Message: ErrInternal.Message,
		}
		if devMode && err != nil {
			out.Details = err.Error()
		}
		return out
	}

	out := HTTPError{
		Status:  StatusFor(appErr.Kind),
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	if appErr.Kind == KindInternal {
		out.Message = ErrInternal.Message
		out.Details = nil
		if devMode {
			out.Details = appErr.Error()
		}
	}
	return out
}
