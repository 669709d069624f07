package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ServiceErrorBadInput       = "STARGAZER_BAD_INPUT"
	ServiceErrorUnauthorized   = "STARGAZER_UNAUTHORIZED"
	ServiceErrorNotFound       = "STARGAZER_NOT_FOUND"
	ServiceErrorStorageFailure = "STARGAZER_STORAGE_FAILURE"
	ServiceErrorInternal       = "STARGAZER_INTERNAL_ERROR"
)

// NewStorageFailure wraps a store error so callers can tell it apart from
// other faults.
func NewStorageFailure(source error, message string, metadata map[string]any) error {
	var err *goerrors.Error
	if source == nil {
		err = goerrors.New(message, goerrors.CategoryExternal)
	} else {
		err = goerrors.Wrap(source, goerrors.CategoryExternal, message)
	}
	err = err.WithCode(http.StatusInternalServerError).
		WithTextCode(ServiceErrorStorageFailure)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func IsStorageFailure(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == ServiceErrorStorageFailure
}

func NewBadInput(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ServiceErrorBadInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func NewNotFound(source error, message string, metadata map[string]any) error {
	err := goerrors.Wrap(source, goerrors.CategoryNotFound, message).
		WithCode(http.StatusNotFound).
		WithTextCode(ServiceErrorNotFound)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func NewInternal(message string) error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ServiceErrorInternal)
}

// MapError converts any error into a go-errors envelope with an HTTP status
// and text code filled in.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureErrorEnvelope(richErr)
	}
	if errors.Is(err, ErrRecordNotFound) {
		return ensureErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryNotFound, err.Error()).
				WithTextCode(ServiceErrorNotFound),
		)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "signature"):
		return ensureErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryAuth).
			WithTextCode(ServiceErrorUnauthorized))
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return ensureErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryBadInput).
			WithTextCode(ServiceErrorBadInput))
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureErrorEnvelope(mapped)
}

func ensureErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = httpStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ServiceErrorBadInput
	case goerrors.CategoryNotFound:
		return ServiceErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ServiceErrorUnauthorized
	case goerrors.CategoryExternal:
		return ServiceErrorStorageFailure
	default:
		return ServiceErrorInternal
	}
}

func httpStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
