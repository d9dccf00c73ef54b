package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/boxlayout/pkg/errors"
	"github.com/matzehuels/boxlayout/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

// storageError maps store failures onto error codes.
func storageError(err error, format string, args ...any) error {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return errors.Wrap(errors.ErrCodeSnapshotNotFound, err, format, args...)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeStorage, err, format, args...)
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errors.ErrCodeStorage):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
		if status == http.StatusGatewayTimeout {
			code = errors.ErrCodeTimeout
		}
	}

	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError && code == errors.ErrCodeInternal {
		msg = http.StatusText(status)
	}
	if st, ok := r.Context().Value(stateKey{}).(*requestState); ok {
		st.err = err
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}
