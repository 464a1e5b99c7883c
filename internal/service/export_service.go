package service

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servana/servana-backend/internal/domain"
	"github.com/servana/servana-backend/internal/util"
)

const exportDateFormat = "2006-01-02"

// ExportService turns a provider's daily earnings over a date range into a
// tax-usable CSV file.
type ExportService struct {
	earningsService *EarningsService
	maxRangeDays    int
	now             func() time.Time
}

// NewExportService creates a new ExportService. maxRangeDays bounds the
// export window; values below 1 fall back to a year.
func NewExportService(earningsService *EarningsService, maxRangeDays int) *ExportService {
	if maxRangeDays < 1 {
		maxRangeDays = 366
	}
	return &ExportService{
		earningsService: earningsService,
		maxRangeDays:    maxRangeDays,
		now:             time.Now,
	}
}

// GenerateExport builds the CSV export for [startDate, endDate] inclusive.
// A valid range with zero matching records is a normal outcome reported via
// Success=false, never an error.
func (s *ExportService) GenerateExport(providerID uuid.UUID, startDate, endDate time.Time, categories []string) (*domain.ExportResult, error) {
	start := util.DateOnly(startDate)
	end := util.DateOnly(endDate)

	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}
	if end.After(util.DateOnly(s.now())) {
		return nil, domain.ErrFutureDate
	}
	if int(end.Sub(start).Hours()/24)+1 > s.maxRangeDays {
		return nil, domain.ErrRangeTooLarge
	}

	days, err := s.earningsService.GetDailyEarningsRange(providerID, start, end, categories)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"Date", "Category", "Earnings", "ServiceCount"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	rows := 0
	for _, day := range days {
		entries := make([]domain.CategoryBreakdownEntry, len(day.CategoryBreakdown))
		copy(entries, day.CategoryBreakdown)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Category < entries[j].Category
		})

		for _, entry := range entries {
			if entry.ServiceCount == 0 && entry.Earnings.IsZero() {
				continue
			}
			record := []string{
				day.Date.Format(exportDateFormat),
				entry.Category,
				entry.Earnings.StringFixed(2),
				strconv.Itoa(entry.ServiceCount),
			}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
			rows++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	rangeLabel := fmt.Sprintf("%s to %s", start.Format(exportDateFormat), end.Format(exportDateFormat))
	if rows == 0 {
		return &domain.ExportResult{
			Success:   false,
			Message:   "No completed services found for the selected period",
			DateRange: rangeLabel,
		}, nil
	}

	return &domain.ExportResult{
		Success:   true,
		FileName:  fmt.Sprintf("earnings_%s_%s_%s.csv", providerID, start.Format(exportDateFormat), end.Format(exportDateFormat)),
		Content:   sb.String(),
		DateRange: rangeLabel,
	}, nil
}
