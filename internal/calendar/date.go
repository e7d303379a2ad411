package calendar

import (
	"fmt"
	"time"
)

// Date is a plain (year, month, day) calendar value. Two Dates are equal iff
// year, month and day all match; time-of-day never participates in comparison.
// The struct is comparable and safe to use as a map key.
type Date struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// NewDate builds a Date, normalizing out-of-range months and days the way the
// standard library does (month 13 carries into the next year, day 0 borrows
// from the previous month).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates a time.Time to its calendar day in the time's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads the YYYY-MM-DD form produced by String.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// Weekday returns the day of week, Sunday = 0.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// AddDays returns the date n calendar days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}
