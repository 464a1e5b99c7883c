package domain

import "errors"

// Domain errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidDateRange    = errors.New("start date is after end date")
	ErrFutureDate          = errors.New("date is in the future")
	ErrRangeTooLarge       = errors.New("date range exceeds the maximum export window")
	ErrInvalidGoalType     = errors.New("goal type must be daily or monthly")
	ErrInvalidTargetAmount = errors.New("target amount must be positive")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrProviderNotFound    = errors.New("provider not found")
)

// Validation constants
const (
	MinYear = 2000
	MaxYear = 2100
)
