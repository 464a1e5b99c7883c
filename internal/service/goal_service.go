package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/servana/servana-backend/internal/domain"
	"github.com/servana/servana-backend/internal/util"
	"github.com/shopspring/decimal"
)

// GoalService manages provider earnings goals and computes progress against
// the earnings aggregates.
type GoalService struct {
	goalRepo        domain.GoalRepository
	earningsService *EarningsService
	now             func() time.Time
}

// NewGoalService creates a new GoalService
func NewGoalService(goalRepo domain.GoalRepository, earningsService *EarningsService) *GoalService {
	return &GoalService{
		goalRepo:        goalRepo,
		earningsService: earningsService,
		now:             time.Now,
	}
}

// GoalInput carries the caller-supplied fields for a new goal.
type GoalInput struct {
	Type         domain.GoalType
	TargetAmount decimal.Decimal
	StartDate    *time.Time
	EndDate      *time.Time
}

// SetGoal creates a goal, replacing any active goal of the same type. The
// repository performs the deactivate-and-insert as one atomic unit.
func (s *GoalService) SetGoal(providerID uuid.UUID, input GoalInput) (*domain.Goal, error) {
	if input.Type != domain.GoalTypeDaily && input.Type != domain.GoalTypeMonthly {
		return nil, domain.ErrInvalidGoalType
	}
	if input.TargetAmount.Sign() <= 0 {
		return nil, domain.ErrInvalidTargetAmount
	}
	if input.StartDate != nil && input.EndDate != nil && input.StartDate.After(*input.EndDate) {
		return nil, domain.ErrInvalidDateRange
	}

	goal := &domain.Goal{
		ID:           uuid.New(),
		ProviderID:   providerID,
		Type:         input.Type,
		TargetAmount: input.TargetAmount,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		IsActive:     true,
	}
	return s.goalRepo.Replace(goal)
}

// GetActiveGoals returns the provider's active goals.
func (s *GoalService) GetActiveGoals(providerID uuid.UUID) ([]*domain.Goal, error) {
	return s.goalRepo.GetActive(providerID)
}

// GetGoalProgress computes current earnings over the goal's window: the
// current day for daily goals, the current month for monthly goals, or the
// explicit [startDate, endDate] when both are set.
func (s *GoalService) GetGoalProgress(providerID, goalID uuid.UUID) (*domain.GoalProgress, error) {
	goal, err := s.goalRepo.GetByID(providerID, goalID)
	if err != nil {
		return nil, err
	}

	start, end := s.goalWindow(goal)
	current, err := s.earningsService.SumEarnings(providerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum goal window: %w", err)
	}

	percentage := current.Div(goal.TargetAmount).Mul(hundred).Round(2)

	status := domain.GoalStatusBehind
	switch {
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(domain.GoalAchievedThreshold)):
		status = domain.GoalStatusAchieved
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(domain.GoalOnTrackThreshold)):
		status = domain.GoalStatusOnTrack
	}

	return &domain.GoalProgress{
		TargetAmount:       goal.TargetAmount,
		CurrentAmount:      current,
		ProgressPercentage: percentage,
		Status:             status,
	}, nil
}

// DeleteGoal removes a goal owned by the provider.
func (s *GoalService) DeleteGoal(providerID, goalID uuid.UUID) error {
	return s.goalRepo.Delete(providerID, goalID)
}

// ExpireGoals deactivates every active goal whose end date has passed.
// Invoked on a schedule from main.
func (s *GoalService) ExpireGoals() {
	today := util.DateOnly(s.now())
	expired, err := s.goalRepo.DeactivateExpired(today)
	if err != nil {
		log.Error().Err(err).Msg("Failed to deactivate expired goals")
		return
	}
	if expired > 0 {
		log.Info().Int64("count", expired).Msg("Deactivated expired goals")
	}
}

func (s *GoalService) goalWindow(goal *domain.Goal) (time.Time, time.Time) {
	if goal.StartDate != nil && goal.EndDate != nil {
		return util.DateOnly(*goal.StartDate), util.DateOnly(*goal.EndDate)
	}
	today := util.DateOnly(s.now())
	if goal.Type == domain.GoalTypeMonthly {
		bucket := util.MonthBucket(today.Year(), int(today.Month()))
		return bucket.Start, bucket.End
	}
	return today, today
}
