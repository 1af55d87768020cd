package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// Window is a resolved visit interval in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// ResolveTimeSlot parses a customer-facing clock slot like "9:00 AM" or
// "12:30 PM" into minutes since midnight. The hour portion accepts 1-12,
// minutes 00-59, and the meridiem must be AM or PM (case-insensitive).
func ResolveTimeSlot(slot string) (int, error) {
	trimmed := strings.TrimSpace(slot)
	if trimmed == "" {
		return 0, fmt.Errorf("time slot is empty")
	}

	fields := strings.Fields(trimmed)
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid time slot %q (expected \"H:MM AM/PM\")", slot)
	}

	clock, meridiem := fields[0], strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, fmt.Errorf("invalid meridiem %q in time slot %q", fields[1], slot)
	}

	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q in time slot %q", clock, slot)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("invalid hour %q in time slot %q", parts[0], slot)
	}
	if len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid minutes %q in time slot %q", parts[1], slot)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minutes %q in time slot %q", parts[1], slot)
	}

	// 12 AM is midnight, 12 PM is noon
	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}

	return hour*60 + minute, nil
}

// ResolveWindow resolves a slot plus a duration into a start/end interval.
// Durations must be positive and the window must not run past midnight.
func ResolveWindow(slot string, durationMinutes int) (Window, error) {
	if durationMinutes <= 0 {
		return Window{}, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}

	start, err := ResolveTimeSlot(slot)
	if err != nil {
		return Window{}, err
	}

	end := start + durationMinutes
	if end > minutesPerDay {
		return Window{}, fmt.Errorf("window starting at %q with duration %d runs past midnight", slot, durationMinutes)
	}

	return Window{Start: start, End: end}, nil
}

// FormatMinutes renders minutes since midnight back into "H:MM AM/PM" form.
func FormatMinutes(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	hour := minutes / 60
	minute := minutes % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}
