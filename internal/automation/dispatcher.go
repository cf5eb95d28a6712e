package automation

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/config"
	"github.com/careops/careops-server/internal/notify"
	"github.com/careops/careops-server/internal/ws"
)

type EventType string

const (
	EventContactCreated   EventType = "contact_created"
	EventBookingCreated   EventType = "booking_created"
	EventBookingConfirmed EventType = "booking_confirmed"
)

type Event struct {
	Type        EventType
	WorkspaceID uint
	ContactID   uint
	BookingID   uint
}

// Dispatcher reacts to lifecycle events off the request path. Sends
// are fire-and-forget: a full queue drops the event and a failed
// delivery never reaches the caller that triggered it.
type Dispatcher struct {
	db       *gorm.DB
	notifier *notify.Notifier
	hub      *ws.Hub
	cfg      *config.Config
	queue    chan Event
}

func NewDispatcher(db *gorm.DB, notifier *notify.Notifier, hub *ws.Hub, cfg *config.Config) *Dispatcher {
	d := &Dispatcher{
		db:       db,
		notifier: notifier,
		hub:      hub,
		cfg:      cfg,
		queue:    make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	ctx := context.Background()

	for ev := range d.queue {
		var err error

		switch ev.Type {
		case EventContactCreated:
			err = d.handleNewContact(ctx, ev)
		case EventBookingCreated, EventBookingConfirmed:
			err = d.handleBookingCreated(ctx, ev)
		default:
			log.Printf("automation: unknown event %q", ev.Type)
		}

		if err != nil {
			log.Printf("automation: %s failed: %v", ev.Type, err)
		}
	}
}

// Dispatch enqueues an event. A nil Dispatcher drops everything,
// which keeps the automation pipeline optional.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		// never block the API on automation
		log.Println("automation queue full, dropping event")
	}
}
