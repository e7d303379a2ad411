package calendar

// SelectionMode enumerates how a calendar widget interprets date picks.
type SelectionMode string

const (
	ModeSingle   SelectionMode = "single"
	ModeMultiple SelectionMode = "multiple"
	// ModeRange is accepted but has no toggle semantics yet; the legacy UI
	// declared it without ever implementing it.
	ModeRange SelectionMode = "range"
)

// Selection is a tagged selection value. Exactly the fields implied by Mode
// are meaningful: Dates for single/multiple (single holds at most one entry),
// From/To for range.
type Selection struct {
	Mode  SelectionMode `json:"mode"`
	Dates []Date        `json:"dates,omitempty"`
	From  Date          `json:"from,omitempty"`
	To    Date          `json:"to,omitempty"`
}

// NewSelection returns an empty selection in the given mode.
func NewSelection(mode SelectionMode) Selection {
	return Selection{Mode: mode}
}

// DisabledFunc reports whether a date may not be selected. A nil func
// disables nothing.
type DisabledFunc func(Date) bool

// Toggle applies a date pick to the selection and returns the new value.
// Single mode replaces the current date; multiple mode removes the date when
// already selected and appends it otherwise, preserving insertion order.
// Picks on disabled dates are silently ignored. Range mode is a no-op until
// its semantics are settled.
func (s Selection) Toggle(date Date, disabled DisabledFunc) Selection {
	if disabled != nil && disabled(date) {
		return s
	}

	switch s.Mode {
	case ModeSingle:
		s.Dates = []Date{date}
	case ModeMultiple:
		for i, d := range s.Dates {
			if d == date {
				next := make([]Date, 0, len(s.Dates)-1)
				next = append(next, s.Dates[:i]...)
				next = append(next, s.Dates[i+1:]...)
				s.Dates = next
				return s
			}
		}
		next := make([]Date, 0, len(s.Dates)+1)
		next = append(next, s.Dates...)
		s.Dates = append(next, date)
	}
	return s
}

// Contains reports whether the date is part of the selection.
func (s Selection) Contains(date Date) bool {
	for _, d := range s.Dates {
		if d == date {
			return true
		}
	}
	return false
}

// Clear empties the selection keeping its mode.
func (s Selection) Clear() Selection {
	return Selection{Mode: s.Mode}
}
