package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceRecord is the immutable fact written when a service request is
// completed. The earnings core only ever reads these.
type ServiceRecord struct {
	ID            int64           `json:"id"`
	ProviderID    uuid.UUID       `json:"providerId"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	CompletedDate time.Time       `json:"completedDate"`
}

// RecordFilter is the criteria object passed to the record store.
// An empty Categories slice means all categories.
type RecordFilter struct {
	ProviderID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Categories []string
}

// Matches reports whether a record satisfies the filter. Date comparison is
// at day granularity, both bounds inclusive.
func (f *RecordFilter) Matches(r *ServiceRecord) bool {
	if r.ProviderID != f.ProviderID {
		return false
	}
	day := time.Date(r.CompletedDate.Year(), r.CompletedDate.Month(), r.CompletedDate.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(f.StartDate) || day.After(f.EndDate) {
		return false
	}
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if c == r.Category {
			return true
		}
	}
	return false
}

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// ComparisonResult describes how a current aggregate relates to a baseline
// period. PercentageChange is rounded to 2 decimals.
type ComparisonResult struct {
	BaselineAmount   decimal.Decimal `json:"baselineAmount"`
	CurrentAmount    decimal.Decimal `json:"currentAmount"`
	PercentageChange decimal.Decimal `json:"percentageChange"`
	Trend            Trend           `json:"trend"`
}

// CategoryBreakdownEntry is a per-category subtotal within a bucket.
// Percentage is the entry's share of the bucket total, 0 when the total is 0.
type CategoryBreakdownEntry struct {
	Category     string          `json:"category"`
	Earnings     decimal.Decimal `json:"earnings"`
	ServiceCount int             `json:"serviceCount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// DailyEarnings is the computed aggregate for one calendar day. Comparison
// fields are populated only on direct daily lookups, not inside a monthly
// breakdown or a range.
type DailyEarnings struct {
	Date              time.Time                `json:"date"`
	TotalEarnings     decimal.Decimal          `json:"totalEarnings"`
	ServiceCount      int                      `json:"serviceCount"`
	CategoryBreakdown []CategoryBreakdownEntry `json:"categoryBreakdown"`
	PreviousDay       *ComparisonResult        `json:"previousDay,omitempty"`
	SameDayLastWeek   *ComparisonResult        `json:"sameDayLastWeek,omitempty"`
}

// MonthlyEarnings is the computed aggregate for one calendar month.
// HighestDay and LowestDay consider only days with activity and are nil when
// the whole month has none.
type MonthlyEarnings struct {
	Year                 int               `json:"year"`
	Month                int               `json:"month"`
	TotalEarnings        decimal.Decimal   `json:"totalEarnings"`
	ServiceCount         int               `json:"serviceCount"`
	AverageDailyEarnings decimal.Decimal   `json:"averageDailyEarnings"`
	HighestDay           *DailyEarnings    `json:"highestDay,omitempty"`
	LowestDay            *DailyEarnings    `json:"lowestDay,omitempty"`
	DailyBreakdown       []*DailyEarnings  `json:"dailyBreakdown"`
	PreviousMonth        *ComparisonResult `json:"previousMonth,omitempty"`
	SameMonthLastYear    *ComparisonResult `json:"sameMonthLastYear,omitempty"`
}

// ExportResult is the outcome of a CSV export request. An empty range is a
// normal result with Success=false, not an error.
type ExportResult struct {
	Success   bool   `json:"success"`
	FileName  string `json:"fileName,omitempty"`
	Content   string `json:"content,omitempty"`
	Message   string `json:"message,omitempty"`
	DateRange string `json:"dateRange,omitempty"`
}

// ServiceRecordRepository is the read-only store of completed service records.
type ServiceRecordRepository interface {
	GetByFilter(filter *RecordFilter) ([]*ServiceRecord, error)
	GetCategories(providerID uuid.UUID) ([]string, error)
}
