package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/servana/servana-backend/internal/middleware"
	"github.com/servana/servana-backend/internal/repository/storage"
	"github.com/servana/servana-backend/internal/service"
)

// ExportHandler handles CSV export HTTP requests
type ExportHandler struct {
	exportService *service.ExportService
	archive       storage.ExportArchive
}

// NewExportHandler creates a new ExportHandler. archive may be nil when
// archiving is disabled.
func NewExportHandler(exportService *service.ExportService, archive storage.ExportArchive) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		archive:       archive,
	}
}

// EmptyExportResponse is returned when the requested range has no records
type EmptyExportResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	DateRange string `json:"dateRange"`
}

// GenerateExport handles GET /api/v1/earnings/export?start=...&end=...
// On success the CSV file is returned as an attachment; a valid range with
// no data yields a 200 JSON body with success=false.
func (h *ExportHandler) GenerateExport(c echo.Context) error {
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

	result, err := h.exportService.GenerateExport(providerID, start, end, parseCategories(c))
	if err != nil {
		return mapDomainError(c, err, "Failed to generate export")
	}

	if !result.Success {
		return c.JSON(http.StatusOK, EmptyExportResponse{
			Success:   false,
			Message:   result.Message,
			DateRange: result.DateRange,
		})
	}

	if h.archive != nil {
		// Archive failures must not block the download.
		objectPath := storage.ObjectPath(providerID, result.FileName)
		if err := h.archive.Store(c.Request().Context(), objectPath, []byte(result.Content)); err != nil {
			log.Warn().Err(err).Str("object_path", objectPath).Msg("Failed to archive export")
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, result.FileName))
	return c.Blob(http.StatusOK, "text/csv", []byte(result.Content))
}
