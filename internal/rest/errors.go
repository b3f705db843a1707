package rest

import (
	"errors"
	"net/http"
	"tuvino/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// statusFromError maps domain sentinel errors to HTTP status codes.
// Anything unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrWineNotFound),
		errors.Is(err, domain.ErrRatingNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOnboardingIncomplete):
		return http.StatusConflict
	case errors.Is(err, domain.ErrModelUnavailable),
		errors.Is(err, domain.ErrModelResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
