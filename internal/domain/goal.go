package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalType string

const (
	GoalTypeDaily   GoalType = "daily"
	GoalTypeMonthly GoalType = "monthly"
)

type GoalStatus string

const (
	GoalStatusBehind   GoalStatus = "behind"
	GoalStatusOnTrack  GoalStatus = "on-track"
	GoalStatusAchieved GoalStatus = "achieved"
)

// Progress banding thresholds, in percent.
const (
	GoalAchievedThreshold = 100
	GoalOnTrackThreshold  = 75
)

// Goal is a provider earnings target. At most one active goal may exist per
// (provider, type) at any time; GoalRepository.Replace enforces this.
type Goal struct {
	ID           uuid.UUID       `json:"id"`
	ProviderID   uuid.UUID       `json:"providerId"`
	Type         GoalType        `json:"goalType"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	StartDate    *time.Time      `json:"startDate,omitempty"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// GoalProgress is the computed standing of current earnings against a goal.
type GoalProgress struct {
	TargetAmount       decimal.Decimal `json:"targetAmount"`
	CurrentAmount      decimal.Decimal `json:"currentAmount"`
	ProgressPercentage decimal.Decimal `json:"progressPercentage"`
	Status             GoalStatus      `json:"status"`
}

// GoalRepository stores provider goals.
//
// Replace must atomically deactivate any existing active goal of the same
// (provider, type) and insert the new goal, so that no observer ever sees two
// active goals of one type.
type GoalRepository interface {
	Replace(goal *Goal) (*Goal, error)
	GetByID(providerID, goalID uuid.UUID) (*Goal, error)
	GetActive(providerID uuid.UUID) ([]*Goal, error)
	Delete(providerID, goalID uuid.UUID) error
	DeactivateExpired(before time.Time) (int64, error)
}
