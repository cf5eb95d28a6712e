package booking

import (
	"fmt"
	"time"

	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

type SlotCandidate struct {
	Label string    `json:"label"` // template "HH:MM" string
	Start time.Time `json:"start"`
}

type DayAvailability struct {
	Unavailable bool
	Slots       []SlotCandidate
}

// ValidateTemplate enforces at most one entry per ISO weekday. ForDay
// only ever reads the first match, so a duplicate entry's slots would
// silently vanish; rejecting the template keeps every stored entry
// meaningful. Every path that persists a template must call this.
func ValidateTemplate(tpl models.WeeklyTemplate) error {
	seen := map[int]bool{}
	for _, entry := range tpl {
		if entry.Day < 1 || entry.Day > 7 {
			return httperr.ErrValidation(fmt.Sprintf("invalid weekday %d", entry.Day))
		}
		if seen[entry.Day] {
			return httperr.ErrValidation(fmt.Sprintf("duplicate weekday %d", entry.Day))
		}
		seen[entry.Day] = true
	}
	return nil
}

// ISOWeekday maps time.Weekday to 1=Monday .. 7=Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ResolveSlots derives the candidate start instants for a date from
// the weekly template. Order follows the template's slot order;
// callers needing chronology must sort. Malformed "HH:MM" entries are
// skipped individually — templates are user-edited JSON and one bad
// slot must not void the day. Slots already in the past are dropped
// only when resolving for today (relative to now).
func ResolveSlots(tpl models.WeeklyTemplate, date time.Time, now time.Time) DayAvailability {
	entry := tpl.ForDay(ISOWeekday(date))
	if entry == nil || !entry.Enabled {
		return DayAvailability{Unavailable: true}
	}

	loc := date.Location()
	sameDay := date.Year() == now.Year() && date.YearDay() == now.YearDay()

	slots := make([]SlotCandidate, 0, len(entry.Slots))
	for _, hm := range entry.Slots {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			continue
		}

		start := time.Date(
			date.Year(), date.Month(), date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)

		if sameDay && start.Before(now) {
			continue
		}

		slots = append(slots, SlotCandidate{Label: hm, Start: start})
	}

	return DayAvailability{Slots: slots}
}

// FilterBooked removes candidates whose [start, start+duration) would
// overlap an existing active booking.
func FilterBooked(day DayAvailability, duration time.Duration, booked []models.Booking) DayAvailability {
	if day.Unavailable || len(booked) == 0 {
		return day
	}

	free := make([]SlotCandidate, 0, len(day.Slots))
	for _, slot := range day.Slots {
		end := slot.Start.Add(duration)

		conflict := false
		for _, b := range booked {
			if Overlaps(slot.Start, end, b.StartTime, b.EndTime) {
				conflict = true
				break
			}
		}

		if !conflict {
			free = append(free, slot)
		}
	}

	return DayAvailability{Slots: free}
}
