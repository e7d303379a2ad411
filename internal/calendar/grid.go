package calendar

import "time"

// DayCell is one cell of a rendered month grid. Cells from the adjacent
// months that pad the first and last week carry InCurrentMonth = false.
type DayCell struct {
	Date           Date `json:"date"`
	InCurrentMonth bool `json:"in_current_month"`
}

// BuildMonthGrid lays out a month as complete Sunday-to-Saturday weeks.
// Leading cells come from the previous month in ascending order ending the day
// before the first of the month; trailing cells come from the next month. The
// result length is always a multiple of 7 (28, 35 or 42 cells).
//
// Out-of-range month values roll over into the year, so (2026, 13) is treated
// as January 2027.
func BuildMonthGrid(year int, month time.Month) []DayCell {
	first := NewDate(year, month, 1)
	last := NewDate(first.Year, first.Month+1, 0)

	cells := make([]DayCell, 0, 42)

	lead := int(first.Weekday())
	for i := lead; i > 0; i-- {
		cells = append(cells, DayCell{Date: first.AddDays(-i)})
	}

	for d := 1; d <= last.Day; d++ {
		cells = append(cells, DayCell{
			Date:           Date{Year: first.Year, Month: first.Month, Day: d},
			InCurrentMonth: true,
		})
	}

	trail := 6 - int(last.Weekday())
	for i := 1; i <= trail; i++ {
		cells = append(cells, DayCell{Date: last.AddDays(i)})
	}

	return cells
}
