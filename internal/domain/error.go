package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid repository execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrUnauthorized       = errors.New("unauthorized")

	// Community posting policy
	ErrUserBlocked  = errors.New("user is blocked from posting")
	ErrSpamDetected = errors.New("spam detected")

	// Generative AI
	ErrAIUnavailable = errors.New("ai provider is not configured")

	ErrMoodAlreadySubmitted = errors.New("daily mood already submitted")
	ErrNoMoodToday          = errors.New("no mood submitted today")
)
