package booking

import (
	"time"

	"github.com/careops/careops-server/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(b *models.Booking) {
	b.Status = string(StatusConfirmed)
}

func Cancel(b *models.Booking, reason string, now time.Time) {
	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	b.CancellationReason = reason
}

func Complete(b *models.Booking) {
	b.Status = string(StatusCompleted)
}

func MarkNoShow(b *models.Booking) {
	b.Status = string(StatusNoShow)
}

// Move updates the interval in place and stamps the reschedule
// marker. Status is untouched: the booking keeps holding its slot.
func Move(b *models.Booking, newStart, newEnd time.Time, now time.Time) {
	b.StartTime = newStart
	b.EndTime = newEnd
	b.LastModifiedReason = ReasonRescheduled
	b.RescheduledAt = &now
}
