package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/servana/servana-backend/internal/domain"
	"github.com/servana/servana-backend/internal/middleware"
	"github.com/servana/servana-backend/internal/service"
	"github.com/shopspring/decimal"
)

// GoalHandler handles provider goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// SetGoalRequest is the request body for creating a goal
type SetGoalRequest struct {
	GoalType     string  `json:"goalType"`
	TargetAmount string  `json:"targetAmount"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
}

// GoalResponse represents a goal in API responses
type GoalResponse struct {
	ID           string  `json:"id"`
	GoalType     string  `json:"goalType"`
	TargetAmount string  `json:"targetAmount"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
	IsActive     bool    `json:"isActive"`
}

// GoalProgressResponse represents goal progress in API responses
type GoalProgressResponse struct {
	TargetAmount       string `json:"targetAmount"`
	CurrentAmount      string `json:"currentAmount"`
	ProgressPercentage string `json:"progressPercentage"`
	Status             string `json:"status"`
}

// SetGoal handles POST /api/v1/goals
func (h *GoalHandler) SetGoal(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	var req SetGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	targetAmount, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid target amount", []ValidationError{{Field: "targetAmount", Message: "Must be a decimal number"}})
	}

	input := service.GoalInput{
		Type:         domain.GoalType(req.GoalType),
		TargetAmount: targetAmount,
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateParamFormat, *req.StartDate)
		if err != nil {
			return NewValidationError(c, "Invalid start date", []ValidationError{{Field: "startDate", Message: "Must be YYYY-MM-DD"}})
		}
		input.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateParamFormat, *req.EndDate)
		if err != nil {
			return NewValidationError(c, "Invalid end date", []ValidationError{{Field: "endDate", Message: "Must be YYYY-MM-DD"}})
		}
		input.EndDate = &end
	}

	goal, err := h.goalService.SetGoal(providerID, input)
	if err != nil {
		return mapDomainError(c, err, "Failed to set goal")
	}

	return c.JSON(http.StatusCreated, toGoalResponse(goal))
}

// GetActiveGoals handles GET /api/v1/goals
func (h *GoalHandler) GetActiveGoals(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	goals, err := h.goalService.GetActiveGoals(providerID)
	if err != nil {
		return mapDomainError(c, err, "Failed to get goals")
	}

	response := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = toGoalResponse(goal)
	}
	return c.JSON(http.StatusOK, response)
}

// GetGoalProgress handles GET /api/v1/goals/:id/progress
func (h *GoalHandler) GetGoalProgress(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", []ValidationError{{Field: "id", Message: "Must be a UUID"}})
	}

	progress, err := h.goalService.GetGoalProgress(providerID, goalID)
	if err != nil {
		return mapDomainError(c, err, "Failed to get goal progress")
	}

	return c.JSON(http.StatusOK, GoalProgressResponse{
		TargetAmount:       progress.TargetAmount.StringFixed(2),
		CurrentAmount:      progress.CurrentAmount.StringFixed(2),
		ProgressPercentage: progress.ProgressPercentage.StringFixed(2),
		Status:             string(progress.Status),
	})
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid goal ID", []ValidationError{{Field: "id", Message: "Must be a UUID"}})
	}

	if err := h.goalService.DeleteGoal(providerID, goalID); err != nil {
		return mapDomainError(c, err, "Failed to delete goal")
	}
	return c.NoContent(http.StatusNoContent)
}

func toGoalResponse(goal *domain.Goal) GoalResponse {
	response := GoalResponse{
		ID:           goal.ID.String(),
		GoalType:     string(goal.Type),
		TargetAmount: goal.TargetAmount.StringFixed(2),
		IsActive:     goal.IsActive,
	}
	if goal.StartDate != nil {
		start := goal.StartDate.Format(dateParamFormat)
		response.StartDate = &start
	}
	if goal.EndDate != nil {
		end := goal.EndDate.Format(dateParamFormat)
		response.EndDate = &end
	}
	return response
}
