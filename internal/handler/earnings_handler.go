package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/servana/servana-backend/internal/domain"
	"github.com/servana/servana-backend/internal/middleware"
	"github.com/servana/servana-backend/internal/service"
)

const dateParamFormat = "2006-01-02"

// EarningsHandler handles earnings analytics HTTP requests
type EarningsHandler struct {
	earningsService *service.EarningsService
}

// NewEarningsHandler creates a new EarningsHandler
func NewEarningsHandler(earningsService *service.EarningsService) *EarningsHandler {
	return &EarningsHandler{
		earningsService: earningsService,
	}
}

// ComparisonResponse represents a trend comparison in API responses
type ComparisonResponse struct {
	BaselineAmount   string `json:"baselineAmount"`
	CurrentAmount    string `json:"currentAmount"`
	PercentageChange string `json:"percentageChange"`
	Trend            string `json:"trend"`
}

// CategoryBreakdownResponse represents one category's share of a bucket
type CategoryBreakdownResponse struct {
	Category     string `json:"category"`
	Earnings     string `json:"earnings"`
	ServiceCount int    `json:"serviceCount"`
	Percentage   string `json:"percentage"`
}

// DailyEarningsResponse represents one day's earnings in API responses
type DailyEarningsResponse struct {
	Date              string                      `json:"date"`
	TotalEarnings     string                      `json:"totalEarnings"`
	ServiceCount      int                         `json:"serviceCount"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"categoryBreakdown"`
	PreviousDay       *ComparisonResponse         `json:"previousDay,omitempty"`
	SameDayLastWeek   *ComparisonResponse         `json:"sameDayLastWeek,omitempty"`
}

// MonthlyEarningsResponse represents one month's earnings in API responses
type MonthlyEarningsResponse struct {
	Year                 int                     `json:"year"`
	Month                int                     `json:"month"`
	TotalEarnings        string                  `json:"totalEarnings"`
	ServiceCount         int                     `json:"serviceCount"`
	AverageDailyEarnings string                  `json:"averageDailyEarnings"`
	HighestDay           *DailyEarningsResponse  `json:"highestDay,omitempty"`
	LowestDay            *DailyEarningsResponse  `json:"lowestDay,omitempty"`
	DailyBreakdown       []DailyEarningsResponse `json:"dailyBreakdown"`
	PreviousMonth        *ComparisonResponse     `json:"previousMonth,omitempty"`
	SameMonthLastYear    *ComparisonResponse     `json:"sameMonthLastYear,omitempty"`
}

// HeatmapDayResponse represents one calendar heatmap cell
type HeatmapDayResponse struct {
	Date      string  `json:"date"`
	Earnings  string  `json:"earnings"`
	Intensity float64 `json:"intensity"`
	Color     string  `json:"color"`
}

// GetDaily handles GET /api/v1/earnings/daily?date=YYYY-MM-DD&categories=a,b
func (h *EarningsHandler) GetDaily(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	date, err := parseDateParam(c, "date")
	if err != nil {
		return NewValidationError(c, "Invalid date format", []ValidationError{{Field: "date", Message: "Must be YYYY-MM-DD"}})
	}

	daily, err := h.earningsService.GetDailyEarnings(providerID, date, parseCategories(c))
	if err != nil {
		return mapDomainError(c, err, "Failed to get daily earnings")
	}

	return c.JSON(http.StatusOK, toDailyEarningsResponse(daily))
}

// GetMonthly handles GET /api/v1/earnings/monthly/:year/:month
func (h *EarningsHandler) GetMonthly(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year format", []ValidationError{{Field: "year", Message: "Must be a valid integer"}})
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return NewValidationError(c, "Invalid month format", []ValidationError{{Field: "month", Message: "Must be a valid integer"}})
	}

	monthly, err := h.earningsService.GetMonthlyEarnings(providerID, year, month, parseCategories(c))
	if err != nil {
		return mapDomainError(c, err, "Failed to get monthly earnings")
	}

	return c.JSON(http.StatusOK, toMonthlyEarningsResponse(monthly))
}

// GetRange handles GET /api/v1/earnings/range?start=...&end=...
func (h *EarningsHandler) GetRange(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	start, err := parseDateParam(c, "start")
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{{Field: "start", Message: "Must be YYYY-MM-DD"}})
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		return NewValidationError(c, "Invalid end date", []ValidationError{{Field: "end", Message: "Must be YYYY-MM-DD"}})
	}

	days, err := h.earningsService.GetDailyEarningsRange(providerID, start, end, parseCategories(c))
	if err != nil {
		return mapDomainError(c, err, "Failed to get earnings range")
	}

	response := make([]DailyEarningsResponse, len(days))
	for i, day := range days {
		response[i] = toDailyEarningsResponse(day)
	}
	return c.JSON(http.StatusOK, response)
}

// GetCategories handles GET /api/v1/earnings/categories
func (h *EarningsHandler) GetCategories(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	categories, err := h.earningsService.GetProviderCategories(providerID)
	if err != nil {
		return mapDomainError(c, err, "Failed to get categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"categories": categories})
}

// GetHeatmap handles GET /api/v1/earnings/heatmap?start=...&end=...
func (h *EarningsHandler) GetHeatmap(c echo.Context) error {
	providerID := middleware.GetProviderID(c)
	if providerID == uuid.Nil {
		return NewUnauthorizedError(c, "Provider required")
	}

	start, err := parseDateParam(c, "start")
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{{Field: "start", Message: "Must be YYYY-MM-DD"}})
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		return NewValidationError(c, "Invalid end date", []ValidationError{{Field: "end", Message: "Must be YYYY-MM-DD"}})
	}

	heatmap, err := h.earningsService.GetHeatmap(providerID, start, end)
	if err != nil {
		return mapDomainError(c, err, "Failed to get heatmap")
	}

	response := make([]HeatmapDayResponse, len(heatmap))
	for i, day := range heatmap {
		response[i] = HeatmapDayResponse{
			Date:      day.Date.Format(dateParamFormat),
			Earnings:  day.Earnings.StringFixed(2),
			Intensity: day.Intensity,
			Color:     day.Color,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func parseDateParam(c echo.Context, name string) (time.Time, error) {
	return time.Parse(dateParamFormat, c.QueryParam(name))
}

// parseCategories reads the optional comma-separated categories filter.
// Empty means all categories.
func parseCategories(c echo.Context) []string {
	raw := c.QueryParam("categories")
	if raw == "" {
		return nil
	}
	var categories []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}

func toComparisonResponse(comparison *domain.ComparisonResult) *ComparisonResponse {
	if comparison == nil {
		return nil
	}
	return &ComparisonResponse{
		BaselineAmount:   comparison.BaselineAmount.StringFixed(2),
		CurrentAmount:    comparison.CurrentAmount.StringFixed(2),
		PercentageChange: comparison.PercentageChange.StringFixed(2),
		Trend:            string(comparison.Trend),
	}
}

func toDailyEarningsResponse(daily *domain.DailyEarnings) DailyEarningsResponse {
	breakdown := make([]CategoryBreakdownResponse, len(daily.CategoryBreakdown))
	for i, entry := range daily.CategoryBreakdown {
		breakdown[i] = CategoryBreakdownResponse{
			Category:     entry.Category,
			Earnings:     entry.Earnings.StringFixed(2),
			ServiceCount: entry.ServiceCount,
			Percentage:   entry.Percentage.StringFixed(2),
		}
	}
	return DailyEarningsResponse{
		Date:              daily.Date.Format(dateParamFormat),
		TotalEarnings:     daily.TotalEarnings.StringFixed(2),
		ServiceCount:      daily.ServiceCount,
		CategoryBreakdown: breakdown,
		PreviousDay:       toComparisonResponse(daily.PreviousDay),
		SameDayLastWeek:   toComparisonResponse(daily.SameDayLastWeek),
	}
}

func toMonthlyEarningsResponse(monthly *domain.MonthlyEarnings) MonthlyEarningsResponse {
	breakdown := make([]DailyEarningsResponse, len(monthly.DailyBreakdown))
	for i, day := range monthly.DailyBreakdown {
		breakdown[i] = toDailyEarningsResponse(day)
	}

	response := MonthlyEarningsResponse{
		Year:                 monthly.Year,
		Month:                monthly.Month,
		TotalEarnings:        monthly.TotalEarnings.StringFixed(2),
		ServiceCount:         monthly.ServiceCount,
		AverageDailyEarnings: monthly.AverageDailyEarnings.StringFixed(2),
		DailyBreakdown:       breakdown,
		PreviousMonth:        toComparisonResponse(monthly.PreviousMonth),
		SameMonthLastYear:    toComparisonResponse(monthly.SameMonthLastYear),
	}
	if monthly.HighestDay != nil {
		highest := toDailyEarningsResponse(monthly.HighestDay)
		response.HighestDay = &highest
	}
	if monthly.LowestDay != nil {
		lowest := toDailyEarningsResponse(monthly.LowestDay)
		response.LowestDay = &lowest
	}
	return response
}
