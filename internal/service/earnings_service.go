package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/servana/servana-backend/internal/domain"
	"github.com/servana/servana-backend/internal/util"
	"github.com/shopspring/decimal"
)

// EarningsService aggregates completed service records into daily and
// monthly earnings views. All operations are pure reads; recomputing with
// the same inputs yields identical results.
type EarningsService struct {
	recordRepo domain.ServiceRecordRepository
	now        func() time.Time
}

// NewEarningsService creates a new EarningsService
func NewEarningsService(recordRepo domain.ServiceRecordRepository) *EarningsService {
	return &EarningsService{
		recordRepo: recordRepo,
		now:        time.Now,
	}
}

// GetDailyEarnings returns the aggregate for one calendar day, with
// comparisons against the previous day and the same day last week.
// An empty categories slice means all categories.
func (s *EarningsService) GetDailyEarnings(providerID uuid.UUID, date time.Time, categories []string) (*domain.DailyEarnings, error) {
	day := util.DateOnly(date)
	if day.After(s.today()) {
		return nil, domain.ErrFutureDate
	}

	records, err := s.fetch(providerID, util.DayBucket(day), categories)
	if err != nil {
		return nil, err
	}

	daily := buildDailyEarnings(day, records)

	prevTotal, err := s.sumBucket(providerID, util.DayBucket(util.PreviousDay(day)), categories)
	if err != nil {
		return nil, err
	}
	daily.PreviousDay = ComputePercentageChange(daily.TotalEarnings, prevTotal)

	weekAgoTotal, err := s.sumBucket(providerID, util.DayBucket(util.SameDayLastWeek(day)), categories)
	if err != nil {
		return nil, err
	}
	daily.SameDayLastWeek = ComputePercentageChange(daily.TotalEarnings, weekAgoTotal)

	return daily, nil
}

// GetMonthlyEarnings returns the aggregate for one calendar month with a
// per-day breakdown, comparisons against the previous month and the same
// month last year, and the highest/lowest active days.
//
// For the in-progress month the daily average divides by elapsed days so
// far; for past months it divides by the full day count. Future months are
// rejected.
func (s *EarningsService) GetMonthlyEarnings(providerID uuid.UUID, year, month int, categories []string) (*domain.MonthlyEarnings, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	today := s.today()
	bucket := util.MonthBucket(year, month)
	if bucket.Start.After(today) {
		return nil, domain.ErrFutureDate
	}

	records, err := s.fetch(providerID, bucket, categories)
	if err != nil {
		return nil, err
	}

	byDay := groupByDay(records)
	daysInMonth := util.DaysInMonth(year, month)

	monthly := &domain.MonthlyEarnings{
		Year:           year,
		Month:          month,
		TotalEarnings:  decimal.Zero,
		DailyBreakdown: make([]*domain.DailyEarnings, 0, daysInMonth),
	}

	for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
		day := time.Date(year, time.Month(month), dayNum, 0, 0, 0, 0, time.UTC)
		daily := buildDailyEarnings(day, byDay[day])
		monthly.DailyBreakdown = append(monthly.DailyBreakdown, daily)
		monthly.TotalEarnings = monthly.TotalEarnings.Add(daily.TotalEarnings)
		monthly.ServiceCount += daily.ServiceCount

		if daily.ServiceCount == 0 {
			continue
		}
		if monthly.HighestDay == nil || daily.TotalEarnings.GreaterThan(monthly.HighestDay.TotalEarnings) {
			monthly.HighestDay = daily
		}
		if monthly.LowestDay == nil || daily.TotalEarnings.LessThan(monthly.LowestDay.TotalEarnings) {
			monthly.LowestDay = daily
		}
	}

	divisor := daysInMonth
	if util.IsCurrentMonth(year, month, today) {
		divisor = today.Day()
	}
	monthly.AverageDailyEarnings = monthly.TotalEarnings.Div(decimal.NewFromInt(int64(divisor))).Round(2)

	prevYear, prevMonth := util.PreviousMonth(year, month)
	prevTotal, err := s.sumBucket(providerID, util.MonthBucket(prevYear, prevMonth), categories)
	if err != nil {
		return nil, err
	}
	monthly.PreviousMonth = ComputePercentageChange(monthly.TotalEarnings, prevTotal)

	lastYear, sameMonth := util.SameMonthLastYear(year, month)
	lastYearTotal, err := s.sumBucket(providerID, util.MonthBucket(lastYear, sameMonth), categories)
	if err != nil {
		return nil, err
	}
	monthly.SameMonthLastYear = ComputePercentageChange(monthly.TotalEarnings, lastYearTotal)

	return monthly, nil
}

// GetDailyEarningsRange returns one DailyEarnings per day in
// [startDate, endDate] inclusive, ascending, zero-activity days included.
func (s *EarningsService) GetDailyEarningsRange(providerID uuid.UUID, startDate, endDate time.Time, categories []string) ([]*domain.DailyEarnings, error) {
	start := util.DateOnly(startDate)
	end := util.DateOnly(endDate)
	if start.After(end) {
		return nil, domain.ErrInvalidDateRange
	}

	records, err := s.fetch(providerID, util.Bucket{Start: start, End: end}, categories)
	if err != nil {
		return nil, err
	}

	byDay := groupByDay(records)
	days := make([]*domain.DailyEarnings, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, buildDailyEarnings(day, byDay[day]))
	}
	return days, nil
}

// GetHeatmap maps every day in the range to a normalized intensity and a
// display color, relative to the highest-earning day in the range.
func (s *EarningsService) GetHeatmap(providerID uuid.UUID, startDate, endDate time.Time) ([]domain.HeatmapDay, error) {
	days, err := s.GetDailyEarningsRange(providerID, startDate, endDate, nil)
	if err != nil {
		return nil, err
	}

	maxEarnings := decimal.Zero
	for _, day := range days {
		if day.TotalEarnings.GreaterThan(maxEarnings) {
			maxEarnings = day.TotalEarnings
		}
	}

	heatmap := make([]domain.HeatmapDay, len(days))
	for i, day := range days {
		intensity := domain.HeatmapIntensity(day.TotalEarnings, maxEarnings)
		heatmap[i] = domain.HeatmapDay{
			Date:      day.Date,
			Earnings:  day.TotalEarnings,
			Intensity: intensity,
			Color:     domain.HeatmapColorFor(intensity),
		}
	}
	return heatmap, nil
}

// GetProviderCategories returns the distinct categories observed in the
// provider's records, in stable (alphabetical) order.
func (s *EarningsService) GetProviderCategories(providerID uuid.UUID) ([]string, error) {
	return s.recordRepo.GetCategories(providerID)
}

// SumEarnings totals all matching records between two days inclusive.
// Used by goal progress; the window is not future-checked since goal
// windows always start in the past.
func (s *EarningsService) SumEarnings(providerID uuid.UUID, startDate, endDate time.Time) (decimal.Decimal, error) {
	start := util.DateOnly(startDate)
	end := util.DateOnly(endDate)
	if start.After(end) {
		return decimal.Zero, domain.ErrInvalidDateRange
	}
	return s.sumBucket(providerID, util.Bucket{Start: start, End: end}, nil)
}

func (s *EarningsService) today() time.Time {
	return util.DateOnly(s.now())
}

func (s *EarningsService) fetch(providerID uuid.UUID, bucket util.Bucket, categories []string) ([]*domain.ServiceRecord, error) {
	return s.recordRepo.GetByFilter(&domain.RecordFilter{
		ProviderID: providerID,
		StartDate:  bucket.Start,
		EndDate:    bucket.End,
		Categories: categories,
	})
}

func (s *EarningsService) sumBucket(providerID uuid.UUID, bucket util.Bucket, categories []string) (decimal.Decimal, error) {
	records, err := s.fetch(providerID, bucket, categories)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total, nil
}

func validateYearMonth(year, month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", domain.ErrInvalidInput)
	}
	if year < domain.MinYear || year > domain.MaxYear {
		return fmt.Errorf("%w: year must be between %d and %d", domain.ErrInvalidInput, domain.MinYear, domain.MaxYear)
	}
	return nil
}

func groupByDay(records []*domain.ServiceRecord) map[time.Time][]*domain.ServiceRecord {
	byDay := make(map[time.Time][]*domain.ServiceRecord)
	for _, r := range records {
		day := util.DateOnly(r.CompletedDate)
		byDay[day] = append(byDay[day], r)
	}
	return byDay
}

// buildDailyEarnings aggregates one day's records into totals and a category
// breakdown whose percentages sum to 100 for any day with earnings.
func buildDailyEarnings(day time.Time, records []*domain.ServiceRecord) *domain.DailyEarnings {
	daily := &domain.DailyEarnings{
		Date:              day,
		TotalEarnings:     decimal.Zero,
		CategoryBreakdown: []domain.CategoryBreakdownEntry{},
	}

	earningsByCategory := make(map[string]decimal.Decimal)
	countByCategory := make(map[string]int)
	for _, r := range records {
		daily.TotalEarnings = daily.TotalEarnings.Add(r.Amount)
		daily.ServiceCount++
		earningsByCategory[r.Category] = earningsByCategory[r.Category].Add(r.Amount)
		countByCategory[r.Category]++
	}

	for category, earnings := range earningsByCategory {
		percentage := decimal.Zero
		if daily.TotalEarnings.Sign() > 0 {
			percentage = earnings.Div(daily.TotalEarnings).Mul(hundred).Round(2)
		}
		daily.CategoryBreakdown = append(daily.CategoryBreakdown, domain.CategoryBreakdownEntry{
			Category:     category,
			Earnings:     earnings,
			ServiceCount: countByCategory[category],
			Percentage:   percentage,
		})
	}

	sort.Slice(daily.CategoryBreakdown, func(i, j int) bool {
		a, b := daily.CategoryBreakdown[i], daily.CategoryBreakdown[j]
		if !a.Earnings.Equal(b.Earnings) {
			return a.Earnings.GreaterThan(b.Earnings)
		}
		return a.Category < b.Category
	})

	return daily
}
