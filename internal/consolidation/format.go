package consolidation

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for fact and stay dates.
const DateLayout = "2006-01-02"

var shortMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ParseDate parses a YYYY-MM-DD calendar day as UTC midnight, so day
// arithmetic never crosses a DST transition.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return t, nil
}

const secondsPerDay = 24 * 60 * 60

// DaysStayed counts calendar days from start to end, both inclusive. Both
// are UTC midnights as returned by ParseDate.
func DaysStayed(start, end time.Time) int {
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

// MonthName returns the full English name of t's month.
func MonthName(t time.Time) string {
	return monthNames[t.Month()-1]
}

// FormatDateRange renders a stay's date range for display:
//
//	same day             "3 Jul"
//	same month and year  "Jul 3-9"
//	same year            "28 Jun - 3 Jul"
//	otherwise            "30 Dec 2023 - 2 Jan 2024"
func FormatDateRange(start, end time.Time) string {
	sm, em := shortMonths[start.Month()-1], shortMonths[end.Month()-1]

	switch {
	case start.Equal(end):
		return fmt.Sprintf("%d %s", start.Day(), sm)
	case start.Year() == end.Year() && start.Month() == end.Month():
		return fmt.Sprintf("%s %d-%d", sm, start.Day(), end.Day())
	case start.Year() == end.Year():
		return fmt.Sprintf("%d %s - %d %s", start.Day(), sm, end.Day(), em)
	default:
		return fmt.Sprintf("%d %s %d - %d %s %d", start.Day(), sm, start.Year(), end.Day(), em, end.Year())
	}
}
