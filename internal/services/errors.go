package services

import "errors"

// ErrChatUnavailable is returned when no completion API key is configured.
var ErrChatUnavailable = errors.New("completion service not configured")

// ErrEmptyCompletion is returned when the completion API answers with no
// choices.
var ErrEmptyCompletion = errors.New("completion service returned no choices")

// ErrInvalidAPIKey is returned when an integration API key fails its
// format check.
var ErrInvalidAPIKey = errors.New("invalid api key format")

// QuotaExceededError is returned when a build or interaction limit is
// reached. It carries the upgrade call-to-action for the response payload.
type QuotaExceededError struct {
	UpgradeURL string
}

func (e *QuotaExceededError) Error() string {
	return "tier interaction limit reached"
}

// BuildInProgressError is returned when a user already has an active
// build. The caller should wait for it to finish or cancel it.
type BuildInProgressError struct {
	ActiveSessionID string
}

func (e *BuildInProgressError) Error() string {
	return "a build is already in progress; wait for it to finish or cancel it"
}

// ForbiddenError is returned when the user's tier lacks an entitlement.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}
