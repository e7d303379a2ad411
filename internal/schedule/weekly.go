package schedule

import (
	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
)

// ExpandWeekly computes the concrete slots a weekly template produces over the
// 7 calendar days starting at start (inclusive). Each template entry yields
// one slot on every matching weekday in the window. The whole template is
// validated up front so a bad entry produces no partial result.
func ExpandWeekly(start calendar.Date, template []models.WeeklyTemplateEntry) ([]models.AvailabilityDay, error) {
	for _, entry := range template {
		if err := ValidateRange(entry.StartTime, entry.EndTime); err != nil {
			return nil, err
		}
	}

	var days []models.AvailabilityDay
	for i := 0; i < 7; i++ {
		date := start.AddDays(i)
		var slots []models.TimeSlot
		for _, entry := range template {
			if entry.Weekday == date.Weekday() {
				slots = append(slots, models.TimeSlot{
					StartTime: entry.StartTime,
					EndTime:   entry.EndTime,
				})
			}
		}
		if len(slots) > 0 {
			days = append(days, models.AvailabilityDay{Date: date, TimeSlots: slots})
		}
	}
	return days, nil
}
