package booking

import (
	"testing"
	"time"

	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	if err != nil {
		t.Fatalf("bad test time %q: %v", value, err)
	}
	return ts
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{"identical", "2026-03-02 10:00", "2026-03-02 11:00", "2026-03-02 10:00", "2026-03-02 11:00", true},
		{"partial overlap", "2026-03-02 10:00", "2026-03-02 11:00", "2026-03-02 10:30", "2026-03-02 11:30", true},
		{"a contains b", "2026-03-02 09:00", "2026-03-02 12:00", "2026-03-02 10:00", "2026-03-02 11:00", true},
		{"back to back", "2026-03-02 10:00", "2026-03-02 11:00", "2026-03-02 11:00", "2026-03-02 12:00", false},
		{"back to back reversed", "2026-03-02 11:00", "2026-03-02 12:00", "2026-03-02 10:00", "2026-03-02 11:00", false},
		{"disjoint", "2026-03-02 08:00", "2026-03-02 09:00", "2026-03-02 10:00", "2026-03-02 11:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(
				mustTime(t, tc.aStart), mustTime(t, tc.aEnd),
				mustTime(t, tc.bStart), mustTime(t, tc.bEnd),
			)
			if got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "confirmed", "completed", "cancelled", "no_show"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", valid, err)
		}
	}

	for _, invalid := range []string{"", "rescheduled", "PENDING", "done"} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q) expected error", invalid)
		}
	}
}

func TestActiveStatuses(t *testing.T) {
	got := ActiveStatuses()
	want := []string{"pending", "confirmed"}
	if len(got) != len(want) {
		t.Fatalf("ActiveStatuses = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ActiveStatuses = %v, want %v", got, want)
		}
	}
}

func TestValidateTemplate(t *testing.T) {
	valid := models.WeeklyTemplate{
		{Day: 1, Enabled: true, Slots: []string{"09:00"}},
		{Day: 2, Enabled: false, Slots: []string{}},
	}
	if err := ValidateTemplate(valid); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
	if err := ValidateTemplate(nil); err != nil {
		t.Errorf("empty template rejected: %v", err)
	}

	// ForDay only reads the first entry per weekday, so a duplicate
	// day would silently lose its slots; it must be rejected instead.
	duplicate := models.WeeklyTemplate{
		{Day: 1, Enabled: true, Slots: []string{"09:00"}},
		{Day: 1, Enabled: true, Slots: []string{"14:00"}},
	}
	if err := ValidateTemplate(duplicate); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Errorf("duplicate weekday: got %v, want validation error", err)
	}

	for _, day := range []int{0, 8, -1} {
		bad := models.WeeklyTemplate{{Day: day, Enabled: true}}
		if err := ValidateTemplate(bad); !httperr.IsBusiness(err, httperr.CodeValidation) {
			t.Errorf("weekday %d: got %v, want validation error", day, err)
		}
	}
}

func TestISOWeekday(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := mustTime(t, "2026-03-02 00:00")
	for offset, want := range []int{1, 2, 3, 4, 5, 6, 7} {
		day := monday.AddDate(0, 0, offset)
		if got := ISOWeekday(day); got != want {
			t.Errorf("ISOWeekday(%s) = %d, want %d", day.Format("2006-01-02"), got, want)
		}
	}
}

func TestResolveSlotsDisabledDay(t *testing.T) {
	tpl := models.WeeklyTemplate{
		{Day: 1, Enabled: false, Slots: []string{"09:00"}},
	}

	date := mustTime(t, "2026-03-02 00:00") // Monday
	now := mustTime(t, "2026-02-01 00:00")

	day := ResolveSlots(tpl, date, now)
	if !day.Unavailable {
		t.Fatal("disabled day should be unavailable")
	}
}

func TestResolveSlotsMissingDay(t *testing.T) {
	tpl := models.WeeklyTemplate{
		{Day: 2, Enabled: true, Slots: []string{"09:00"}},
	}

	date := mustTime(t, "2026-03-02 00:00") // Monday, no entry
	now := mustTime(t, "2026-02-01 00:00")

	if day := ResolveSlots(tpl, date, now); !day.Unavailable {
		t.Fatal("day without a template entry should be unavailable")
	}
}

func TestResolveSlotsSkipsMalformedEntries(t *testing.T) {
	tpl := models.WeeklyTemplate{
		{Day: 1, Enabled: true, Slots: []string{"09:00", "nonsense", "25:99", "14:30"}},
	}

	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-01 00:00")

	day := ResolveSlots(tpl, date, now)
	if day.Unavailable {
		t.Fatal("enabled day should not be unavailable")
	}
	if len(day.Slots) != 2 {
		t.Fatalf("got %d slots, want 2 (malformed entries skipped)", len(day.Slots))
	}
	if day.Slots[0].Label != "09:00" || day.Slots[1].Label != "14:30" {
		t.Errorf("slots = %v, want [09:00 14:30]", day.Slots)
	}

	wantStart := mustTime(t, "2026-03-02 14:30")
	if !day.Slots[1].Start.Equal(wantStart) {
		t.Errorf("slot start = %v, want %v", day.Slots[1].Start, wantStart)
	}
}

func TestResolveSlotsDropsPastOnlyForToday(t *testing.T) {
	tpl := models.WeeklyTemplate{
		{Day: 1, Enabled: true, Slots: []string{"09:00", "11:00", "15:00"}},
	}

	date := mustTime(t, "2026-03-02 00:00")

	// Resolving for today drops slots before now.
	now := mustTime(t, "2026-03-02 12:00")
	day := ResolveSlots(tpl, date, now)
	if len(day.Slots) != 1 || day.Slots[0].Label != "15:00" {
		t.Fatalf("same-day slots = %v, want only 15:00", day.Slots)
	}

	// Resolving a future date keeps everything, even if now's
	// clock time is later than the slots.
	now = mustTime(t, "2026-03-01 23:00")
	day = ResolveSlots(tpl, date, now)
	if len(day.Slots) != 3 {
		t.Fatalf("future-day slots = %v, want all 3", day.Slots)
	}
}

func TestFilterBooked(t *testing.T) {
	tpl := models.WeeklyTemplate{
		{Day: 1, Enabled: true, Slots: []string{"09:00", "10:00", "11:00"}},
	}

	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-01 00:00")
	day := ResolveSlots(tpl, date, now)

	booked := []models.Booking{
		{
			StartTime: mustTime(t, "2026-03-02 10:00"),
			EndTime:   mustTime(t, "2026-03-02 11:00"),
		},
	}

	free := FilterBooked(day, time.Hour, booked)
	if len(free.Slots) != 2 {
		t.Fatalf("got %d free slots, want 2", len(free.Slots))
	}
	// 09:00-10:00 ends exactly when the booking starts, and
	// 11:00-12:00 starts exactly when it ends: neither conflicts.
	if free.Slots[0].Label != "09:00" || free.Slots[1].Label != "11:00" {
		t.Errorf("free slots = %v, want [09:00 11:00]", free.Slots)
	}
}

func TestFilterBookedLongDurationSpansSlots(t *testing.T) {
	tpl := models.WeeklyTemplate{
		{Day: 1, Enabled: true, Slots: []string{"09:00", "10:00"}},
	}

	date := mustTime(t, "2026-03-02 00:00")
	now := mustTime(t, "2026-02-01 00:00")
	day := ResolveSlots(tpl, date, now)

	// A 90-minute service starting at 09:00 runs into the 10:00 booking.
	booked := []models.Booking{
		{
			StartTime: mustTime(t, "2026-03-02 10:00"),
			EndTime:   mustTime(t, "2026-03-02 10:30"),
		},
	}

	free := FilterBooked(day, 90*time.Minute, booked)
	if len(free.Slots) != 0 {
		t.Fatalf("got %v, want no free slots", free.Slots)
	}
}

func TestMoveStampsRescheduleMarker(t *testing.T) {
	bk := &models.Booking{
		Status:    string(StatusConfirmed),
		StartTime: mustTime(t, "2026-03-02 10:00"),
		EndTime:   mustTime(t, "2026-03-02 11:00"),
	}

	now := mustTime(t, "2026-03-01 09:00")
	newStart := mustTime(t, "2026-03-03 14:00")
	newEnd := mustTime(t, "2026-03-03 15:00")

	Move(bk, newStart, newEnd, now)

	if bk.Status != string(StatusConfirmed) {
		t.Errorf("status changed to %q, want confirmed to survive a move", bk.Status)
	}
	if bk.LastModifiedReason != ReasonRescheduled {
		t.Errorf("last modified reason = %q, want %q", bk.LastModifiedReason, ReasonRescheduled)
	}
	if bk.RescheduledAt == nil || !bk.RescheduledAt.Equal(now) {
		t.Errorf("rescheduled at = %v, want %v", bk.RescheduledAt, now)
	}
	if !bk.StartTime.Equal(newStart) || !bk.EndTime.Equal(newEnd) {
		t.Errorf("interval = [%v, %v), want [%v, %v)", bk.StartTime, bk.EndTime, newStart, newEnd)
	}
}
