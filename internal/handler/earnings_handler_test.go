package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/servana/servana-backend/internal/domain"
	"github.com/servana/servana-backend/internal/middleware"
	"github.com/servana/servana-backend/internal/service"
	"github.com/servana/servana-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

// Helper to put an authenticated provider on the request context
func setupProviderContext(c echo.Context, providerID uuid.UUID) {
	ctx := context.WithValue(c.Request().Context(), middleware.ProviderIDKey, providerID)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newEarningsFixture() (*testutil.MockServiceRecordRepository, *EarningsHandler) {
	recordRepo := testutil.NewMockServiceRecordRepository()
	earningsService := service.NewEarningsService(recordRepo)
	return recordRepo, NewEarningsHandler(earningsService)
}

func TestGetDaily_Success(t *testing.T) {
	e := echo.New()
	recordRepo, handler := newEarningsFixture()

	providerID := uuid.New()
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(100),
		Category:      "cleaning",
		CompletedDate: day,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/daily?date=2024-06-10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, providerID)

	err := handler.GetDaily(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response DailyEarningsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Date != "2024-06-10" {
		t.Errorf("Expected date '2024-06-10', got %s", response.Date)
	}
	if response.TotalEarnings != "100.00" {
		t.Errorf("Expected total '100.00', got %s", response.TotalEarnings)
	}
	if response.ServiceCount != 1 {
		t.Errorf("Expected service count 1, got %d", response.ServiceCount)
	}
	if len(response.CategoryBreakdown) != 1 {
		t.Fatalf("Expected 1 breakdown entry, got %d", len(response.CategoryBreakdown))
	}
	if response.CategoryBreakdown[0].Percentage != "100.00" {
		t.Errorf("Expected percentage '100.00', got %s", response.CategoryBreakdown[0].Percentage)
	}
	if response.PreviousDay == nil {
		t.Error("Expected previous day comparison")
	}
}

func TestGetDaily_InvalidDate(t *testing.T) {
	e := echo.New()
	_, handler := newEarningsFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/daily?date=10-06-2024", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, uuid.New())

	err := handler.GetDaily(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeValidation {
		t.Errorf("Expected error type %s, got %s", ErrorTypeValidation, problem.Type)
	}
}

func TestGetDaily_FutureDate(t *testing.T) {
	e := echo.New()
	_, handler := newEarningsFixture()

	future := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/daily?date="+future, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, uuid.New())

	err := handler.GetDaily(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeFutureDate {
		t.Errorf("Expected error type %s, got %s", ErrorTypeFutureDate, problem.Type)
	}
}

func TestGetDaily_MissingProvider(t *testing.T) {
	e := echo.New()
	_, handler := newEarningsFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/daily?date=2024-06-10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// No provider on context
	err := handler.GetDaily(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetMonthly_Success(t *testing.T) {
	e := echo.New()
	recordRepo, handler := newEarningsFixture()

	providerID := uuid.New()
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(100),
		Category:      "cleaning",
		CompletedDate: time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
	})
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(50),
		Category:      "plumbing",
		CompletedDate: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/monthly/2024/5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2024", "5")
	setupProviderContext(c, providerID)

	err := handler.GetMonthly(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response MonthlyEarningsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.TotalEarnings != "150.00" {
		t.Errorf("Expected total '150.00', got %s", response.TotalEarnings)
	}
	if response.ServiceCount != 2 {
		t.Errorf("Expected service count 2, got %d", response.ServiceCount)
	}
	if len(response.DailyBreakdown) != 31 {
		t.Errorf("Expected 31 days, got %d", len(response.DailyBreakdown))
	}
	if response.HighestDay == nil || response.HighestDay.Date != "2024-05-05" {
		t.Error("Expected highest day 2024-05-05")
	}
	if response.LowestDay == nil || response.LowestDay.Date != "2024-05-20" {
		t.Error("Expected lowest day 2024-05-20")
	}
}

func TestGetMonthly_InvalidParams(t *testing.T) {
	e := echo.New()
	_, handler := newEarningsFixture()

	tests := []struct {
		name     string
		yearVal  string
		monthVal string
	}{
		{"Invalid year format", "abc", "6"},
		{"Invalid month format", "2024", "abc"},
		{"Month out of range", "2024", "13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/monthly/"+tt.yearVal+"/"+tt.monthVal, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("year", "month")
			c.SetParamValues(tt.yearVal, tt.monthVal)
			setupProviderContext(c, uuid.New())

			err := handler.GetMonthly(c)
			if err != nil {
				t.Fatalf("Expected JSON response, got error: %v", err)
			}

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestGetRange_Success(t *testing.T) {
	e := echo.New()
	recordRepo, handler := newEarningsFixture()

	providerID := uuid.New()
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(75),
		Category:      "cleaning",
		CompletedDate: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/range?start=2024-06-01&end=2024-06-03", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, providerID)

	err := handler.GetRange(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []DailyEarningsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(response))
	}
	if response[1].TotalEarnings != "75.00" {
		t.Errorf("Expected middle day total '75.00', got %s", response[1].TotalEarnings)
	}
	if response[0].TotalEarnings != "0.00" {
		t.Errorf("Expected zero day total '0.00', got %s", response[0].TotalEarnings)
	}
}

func TestGetCategories_Success(t *testing.T) {
	e := echo.New()
	recordRepo, handler := newEarningsFixture()

	providerID := uuid.New()
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(10),
		Category:      "plumbing",
		CompletedDate: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(10),
		Category:      "cleaning",
		CompletedDate: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/categories", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, providerID)

	err := handler.GetCategories(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	categories := response["categories"]
	if len(categories) != 2 || categories[0] != "cleaning" || categories[1] != "plumbing" {
		t.Errorf("Expected [cleaning plumbing], got %v", categories)
	}
}

func TestGetHeatmap_Handler(t *testing.T) {
	e := echo.New()
	recordRepo, handler := newEarningsFixture()

	providerID := uuid.New()
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(200),
		Category:      "cleaning",
		CompletedDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/heatmap?start=2024-06-01&end=2024-06-02", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, providerID)

	err := handler.GetHeatmap(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []HeatmapDayResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response) != 2 {
		t.Fatalf("Expected 2 cells, got %d", len(response))
	}
	if response[0].Intensity != 1 {
		t.Errorf("Expected intensity 1 on the max day, got %v", response[0].Intensity)
	}
	if response[1].Color != "#ebedf0" {
		t.Errorf("Expected empty color on the zero day, got %s", response[1].Color)
	}
}
