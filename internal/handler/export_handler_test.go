package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/servana/servana-backend/internal/domain"
	"github.com/servana/servana-backend/internal/service"
	"github.com/servana/servana-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

// recordingArchive captures Store calls for assertions
type recordingArchive struct {
	paths []string
	err   error
}

func (a *recordingArchive) Store(ctx context.Context, objectPath string, content []byte) error {
	a.paths = append(a.paths, objectPath)
	return a.err
}

func newExportFixture(archive *recordingArchive) (*testutil.MockServiceRecordRepository, *ExportHandler) {
	recordRepo := testutil.NewMockServiceRecordRepository()
	earningsService := service.NewEarningsService(recordRepo)
	exportService := service.NewExportService(earningsService, 366)
	if archive != nil {
		return recordRepo, NewExportHandler(exportService, archive)
	}
	return recordRepo, NewExportHandler(exportService, nil)
}

func TestGenerateExport_CSVAttachment(t *testing.T) {
	e := echo.New()
	recordRepo, handler := newExportFixture(nil)

	providerID := uuid.New()
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromFloat(99.90),
		Category:      "cleaning",
		CompletedDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/export?start=2024-06-01&end=2024-06-02", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, providerID)

	err := handler.GenerateExport(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "text/csv") {
		t.Errorf("Expected text/csv content type, got %s", contentType)
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, ".csv") {
		t.Errorf("Expected CSV attachment disposition, got %s", disposition)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "Date,Category,Earnings,ServiceCount\n") {
		t.Errorf("Expected CSV header, got %q", body)
	}
	if !strings.Contains(body, "2024-06-01,cleaning,99.90,1") {
		t.Errorf("Expected data row in body, got %q", body)
	}
}

func TestGenerateExport_EmptyRangeReturnsJSON(t *testing.T) {
	e := echo.New()
	_, handler := newExportFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/export?start=2024-06-01&end=2024-06-02", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, uuid.New())

	err := handler.GenerateExport(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response EmptyExportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Success {
		t.Error("Expected success=false for an empty range")
	}
	if response.DateRange != "2024-06-01 to 2024-06-02" {
		t.Errorf("Expected date range '2024-06-01 to 2024-06-02', got %s", response.DateRange)
	}
}

func TestGenerateExport_InvalidRange(t *testing.T) {
	e := echo.New()
	_, handler := newExportFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/export?start=2024-06-10&end=2024-06-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, uuid.New())

	err := handler.GenerateExport(c)
	if err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGenerateExport_ArchivesOnSuccess(t *testing.T) {
	e := echo.New()
	archive := &recordingArchive{}
	recordRepo, handler := newExportFixture(archive)

	providerID := uuid.New()
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(50),
		Category:      "cleaning",
		CompletedDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/export?start=2024-06-01&end=2024-06-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, providerID)

	err := handler.GenerateExport(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(archive.paths) != 1 {
		t.Fatalf("Expected 1 archived object, got %d", len(archive.paths))
	}
	if !strings.HasPrefix(archive.paths[0], providerID.String()+"/") {
		t.Errorf("Expected object path under provider prefix, got %s", archive.paths[0])
	}
}

func TestGenerateExport_ArchiveFailureDoesNotBlockDownload(t *testing.T) {
	e := echo.New()
	archive := &recordingArchive{err: context.DeadlineExceeded}
	recordRepo, handler := newExportFixture(archive)

	providerID := uuid.New()
	recordRepo.AddRecord(&domain.ServiceRecord{
		ProviderID:    providerID,
		Amount:        decimal.NewFromInt(50),
		Category:      "cleaning",
		CompletedDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/earnings/export?start=2024-06-01&end=2024-06-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupProviderContext(c, providerID)

	err := handler.GenerateExport(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 despite archive failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cleaning") {
		t.Error("Expected CSV body despite archive failure")
	}
}
