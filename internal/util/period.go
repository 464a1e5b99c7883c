package util

import "time"

// Bucket is a concrete aggregation interval at day granularity. Start and
// End are both inclusive, normalized to midnight UTC.
type Bucket struct {
	Start time.Time
	End   time.Time
}

// DateOnly truncates a time to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayBucket returns the bucket spanning exactly one calendar day.
func DayBucket(date time.Time) Bucket {
	d := DateOnly(date)
	return Bucket{Start: d, End: d}
}

// MonthBucket returns the bucket spanning one calendar month.
func MonthBucket(year, month int) Bucket {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Bucket{Start: start, End: end}
}

// DaysInMonth returns the number of days in a calendar month.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PreviousDay returns the calendar day before date.
func PreviousDay(date time.Time) time.Time {
	return DateOnly(date).AddDate(0, 0, -1)
}

// SameDayLastWeek returns the same weekday one week before date.
func SameDayLastWeek(date time.Time) time.Time {
	return DateOnly(date).AddDate(0, 0, -7)
}

// PreviousMonth returns the year and month preceding the given month,
// wrapping the year at January.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// SameMonthLastYear returns the same month one year earlier.
func SameMonthLastYear(year, month int) (int, int) {
	return year - 1, month
}

// IsCurrentMonth reports whether year/month is the month containing today.
func IsCurrentMonth(year, month int, today time.Time) bool {
	return year == today.Year() && month == int(today.Month())
}
