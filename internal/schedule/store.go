package schedule

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mentorloop/mentorloop-api/internal/calendar"
	"github.com/mentorloop/mentorloop-api/internal/models"
)

// Store holds one owner's availability in memory: a mapping from calendar
// date to the ordered time slots of that day. It is not safe for concurrent
// use; a store belongs to exactly one logical session.
type Store struct {
	days map[calendar.Date]*models.AvailabilityDay
}

// NewStore returns an empty availability store.
func NewStore() *Store {
	return &Store{days: make(map[calendar.Date]*models.AvailabilityDay)}
}

// AddSlot validates the clock range and appends a new slot to the day,
// creating the day on first use. Identical ranges are allowed to repeat; the
// legacy behaviour is to keep duplicates rather than merge them.
func (s *Store) AddSlot(date calendar.Date, start, end string) (models.TimeSlot, error) {
	if err := ValidateRange(start, end); err != nil {
		return models.TimeSlot{}, err
	}

	slot := models.TimeSlot{
		ID:        uuid.NewString(),
		StartTime: start,
		EndTime:   end,
	}

	day, ok := s.days[date]
	if !ok {
		day = &models.AvailabilityDay{Date: date}
		s.days[date] = day
	}
	day.TimeSlots = append(day.TimeSlots, slot)
	return slot, nil
}

// RemoveSlot deletes the slot with the given id from the day. Removing an
// unknown slot or date is a no-op. A day left without slots is dropped so
// empty entries never linger.
func (s *Store) RemoveSlot(date calendar.Date, slotID string) {
	day, ok := s.days[date]
	if !ok {
		return
	}
	kept := day.TimeSlots[:0]
	for _, slot := range day.TimeSlots {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	day.TimeSlots = kept
	if len(day.TimeSlots) == 0 {
		delete(s.days, date)
	}
}

// GenerateWeeklySlots adds one slot per matching template entry for each of
// the 7 calendar days starting at start. Repeated calls append; callers who
// want idempotence clear the affected days first.
func (s *Store) GenerateWeeklySlots(start calendar.Date, template []models.WeeklyTemplateEntry) ([]models.AvailabilityDay, error) {
	planned, err := ExpandWeekly(start, template)
	if err != nil {
		return nil, err
	}
	for di := range planned {
		for si, slot := range planned[di].TimeSlots {
			created, err := s.AddSlot(planned[di].Date, slot.StartTime, slot.EndTime)
			if err != nil {
				return nil, err
			}
			planned[di].TimeSlots[si] = created
		}
	}
	return planned, nil
}

// HasAvailability reports whether any slots exist for the date.
func (s *Store) HasAvailability(date calendar.Date) bool {
	day, ok := s.days[date]
	return ok && len(day.TimeSlots) > 0
}

// Slots returns the slots for a date in insertion order. Unknown dates yield
// an empty slice, not an error.
func (s *Store) Slots(date calendar.Date) []models.TimeSlot {
	day, ok := s.days[date]
	if !ok {
		return []models.TimeSlot{}
	}
	out := make([]models.TimeSlot, len(day.TimeSlots))
	copy(out, day.TimeSlots)
	return out
}

// Days lists all non-empty days sorted by date.
func (s *Store) Days() []models.AvailabilityDay {
	out := make([]models.AvailabilityDay, 0, len(s.days))
	for _, day := range s.days {
		cp := models.AvailabilityDay{Date: day.Date, TimeSlots: make([]models.TimeSlot, len(day.TimeSlots))}
		copy(cp.TimeSlots, day.TimeSlots)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ClearDay removes every slot of the date.
func (s *Store) ClearDay(date calendar.Date) {
	delete(s.days, date)
}
