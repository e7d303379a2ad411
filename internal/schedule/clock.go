package schedule

import (
	"fmt"
	"strings"
)

// Clock labels arrive from clients in either 12-hour ("10:00 AM", "02:30 PM")
// or 24-hour ("14:00") form. The legacy UI compared them as strings, which
// breaks across noon; everything here compares by parsed minutes-of-day.
var clockLayouts = []string{"3:04 PM", "15:04"}

// ParseClock resolves a clock label to minutes since midnight.
func ParseClock(label string) (int, error) {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	for _, layout := range clockLayouts {
		if t, err := parseClockLayout(layout, normalized); err == nil {
			return t, nil
		}
	}
	return 0, fmt.Errorf("invalid clock label %q", label)
}

func parseClockLayout(layout, value string) (int, error) {
	switch layout {
	case "3:04 PM":
		var hour, minute int
		var meridiem string
		if _, err := fmt.Sscanf(value, "%d:%d %s", &hour, &minute, &meridiem); err != nil {
			return 0, err
		}
		if meridiem != "AM" && meridiem != "PM" {
			return 0, fmt.Errorf("bad meridiem %q", meridiem)
		}
		if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("clock out of range")
		}
		if hour == 12 {
			hour = 0
		}
		if meridiem == "PM" {
			hour += 12
		}
		return hour*60 + minute, nil
	default:
		var hour, minute int
		if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
			return 0, err
		}
		if strings.Contains(value, " ") {
			return 0, fmt.Errorf("unexpected trailing token")
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("clock out of range")
		}
		return hour*60 + minute, nil
	}
}

// ValidateRange checks that both labels parse and that end is strictly after
// start. It is called before any mutation so failed adds leave state intact.
func ValidateRange(start, end string) error {
	startMin, err := ParseClock(start)
	if err != nil {
		return err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return err
	}
	if endMin <= startMin {
		return fmt.Errorf("end time %q must be after start time %q", end, start)
	}
	return nil
}
