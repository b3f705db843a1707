package domain

import "errors"

// Domain error variants. Callers branch with errors.Is instead of
// matching on message strings.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrWineNotFound         = errors.New("wine not found")
	ErrRatingNotFound       = errors.New("rating not found")
	ErrOnboardingIncomplete = errors.New("user has not completed onboarding")
	ErrModelUnavailable     = errors.New("recommendation model unavailable")
	ErrModelResponse        = errors.New("malformed recommendation model response")
)
