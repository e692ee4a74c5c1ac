package models

import (
	"fmt"
	"strings"
	"time"
)

// Delta is a calendar-relative time difference, the kind a person would
// read off a wall calendar rather than a raw second count.
type Delta struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
}

// DeltaBetween computes the calendar-relative difference between then and
// now. then must not be after now.
func DeltaBetween(then, now time.Time) Delta {
	months := (now.Year()-then.Year())*12 + int(now.Month()) - int(then.Month())
	for months > 0 && addMonths(then, months).After(now) {
		months--
	}

	rest := now.Sub(addMonths(then, months))
	totalMinutes := int(rest.Minutes())

	return Delta{
		Years:   months / 12,
		Months:  months % 12,
		Days:    totalMinutes / (24 * 60),
		Hours:   totalMinutes / 60 % 24,
		Minutes: totalMinutes % 60,
	}
}

// addMonths shifts t by whole months, clamping the day of month the way a
// calendar does (Jan 31 plus one month is Feb 28, not Mar 3).
func addMonths(t time.Time, months int) time.Time {
	month := int(t.Month()) - 1 + months
	year := t.Year() + month/12
	month = month % 12

	day := t.Day()
	if last := daysInMonth(year, time.Month(month+1)); day > last {
		day = last
	}
	return time.Date(year, time.Month(month+1), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatDuration renders how long ago createdAt was, e.g. "2 years 1 month"
// or "3 days 4 hours". Minutes are shown only when nothing larger applies.
func FormatDuration(createdAt time.Time) string {
	return formatDuration(createdAt, time.Now().UTC())
}

func formatDuration(createdAt, now time.Time) string {
	d := DeltaBetween(createdAt.UTC(), now)

	units := []struct {
		name  string
		value int
	}{
		{"year", d.Years},
		{"month", d.Months},
		{"day", d.Days},
		{"hour", d.Hours},
		{"minute", d.Minutes},
	}

	var parts []string
	for _, u := range units {
		// Minutes add no information once a larger unit is present.
		if u.name == "minute" && len(parts) > 0 {
			continue
		}
		if u.value == 1 {
			parts = append(parts, fmt.Sprintf("%d %s", u.value, u.name))
		} else if u.value > 1 {
			parts = append(parts, fmt.Sprintf("%d %ss", u.value, u.name))
		}
	}

	if len(parts) == 0 {
		return "less than 1 minute"
	}
	return strings.Join(parts, " ")
}
