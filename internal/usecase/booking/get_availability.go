package booking

import (
	"context"
	"time"

	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/timezone"
)

type AvailabilityInput struct {
	WorkspaceID uint
	ServiceID   uint
	Date        time.Time // calendar date; time-of-day ignored
}

type ServiceAvailability struct {
	ServiceID      uint     `json:"service_id"`
	ServiceName    string   `json:"service_name"`
	Date           string   `json:"date"`
	DayOfWeek      int      `json:"day_of_week"`
	Unavailable    bool     `json:"unavailable"`
	AvailableSlots []string `json:"available_slots"`
	DurationMin    int      `json:"duration_min"`
	PriceCents     int      `json:"price_cents"`
}

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*ServiceAvailability, error) {

	workspace, err := uc.repo.GetWorkspaceByID(ctx, in.WorkspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	service, err := uc.repo.GetService(ctx, in.WorkspaceID, in.ServiceID)
	if err != nil || !service.IsActive {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	loc := timezone.Location(workspace.Timezone)
	date := time.Date(
		in.Date.Year(), in.Date.Month(), in.Date.Day(),
		0, 0, 0, 0,
		loc,
	)
	now := time.Now().In(loc)

	out := &ServiceAvailability{
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Date:        date.Format("2006-01-02"),
		DayOfWeek:   domain.ISOWeekday(date),
		DurationMin: service.DurationMin,
		PriceCents:  service.PriceCents,
	}

	day := domain.ResolveSlots(service.Availability, date, now)
	if day.Unavailable {
		out.Unavailable = true
		out.AvailableSlots = []string{}
		return out, nil
	}

	booked, err := uc.repo.ListActiveBookingsForDay(
		ctx,
		in.WorkspaceID,
		service.ID,
		date,
		date.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	free := domain.FilterBooked(day, duration, booked)

	out.AvailableSlots = make([]string, 0, len(free.Slots))
	for _, slot := range free.Slots {
		out.AvailableSlots = append(out.AvailableSlots, slot.Label)
	}

	return out, nil
}
