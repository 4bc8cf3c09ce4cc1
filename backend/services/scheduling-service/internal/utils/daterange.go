package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ISOMillisLayout is the backend's timestamp layout: UTC with milliseconds.
const ISOMillisLayout = "2006-01-02T15:04:05.000Z"

var (
	ErrInvalidMonth      = errors.New("Invalid month format. Expected YYYY-MM")
	ErrMonthRangeReverse = errors.New("endMonth must be >= startMonth")
	ErrInvalidDate       = errors.New("Invalid date format. Expected YYYY-MM-DD")

	monthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
)

// FormatISO renders t in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOMillisLayout)
}

// ParseMonth parses "YYYY-MM" and returns the first instant of that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	m := monthPattern.FindStringSubmatch(month)
	if m == nil {
		return time.Time{}, ErrInvalidMonth
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	if y == 0 || mo < 1 || mo > 12 {
		return time.Time{}, ErrInvalidMonth
	}
	return time.Date(y, time.Month(mo), 1, 0, 0, 0, 0, time.UTC), nil
}

// MonthKey formats year and month as "YYYY-MM".
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthToUTCRange returns the first and last millisecond of month in UTC.
func MonthToUTCRange(month string) (time.Time, time.Time, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end, nil
}

// ExpandMonthRange lists every month key from startMonth to endMonth inclusive.
func ExpandMonthRange(startMonth, endMonth string) ([]string, error) {
	start, err := ParseMonth(startMonth)
	if err != nil {
		return nil, err
	}
	end, err := ParseMonth(endMonth)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrMonthRangeReverse
	}

	var months []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		months = append(months, MonthKey(cur.Year(), cur.Month()))
	}
	return months, nil
}

// DateOnlyToUTCStart maps "YYYY-MM-DD" to 00:00:00.000 UTC of that day.
func DateOnlyToUTCStart(date string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// DateOnlyToUTCEnd maps "YYYY-MM-DD" to 23:59:59.999 UTC of that day.
func DateOnlyToUTCEnd(date string) (time.Time, error) {
	d, err := DateOnlyToUTCStart(date)
	if err != nil {
		return time.Time{}, err
	}
	return d.AddDate(0, 0, 1).Add(-time.Millisecond), nil
}
