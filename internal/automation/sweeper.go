package automation

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/config"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/notify"
)

// Sweeper runs the periodic batches: booking reminders, low-stock
// alerts and overdue-form nudges. Each batch is idempotent through a
// sent-flag and isolates failures per item — one bad row never aborts
// the sweep.
type Sweeper struct {
	db       *gorm.DB
	notifier *notify.Notifier
	cfg      *config.Config
	interval time.Duration
	stop     chan struct{}
}

func NewSweeper(db *gorm.DB, notifier *notify.Notifier, cfg *config.Config) *Sweeper {
	return &Sweeper{
		db:       db,
		notifier: notifier,
		cfg:      cfg,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
	log.Println("automation sweeper started")
}

func (s *Sweeper) Stop() {
	close(s.stop)
}

func (s *Sweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx := context.Background()
			s.SendBookingReminders(ctx)
			s.SendInventoryAlerts(ctx)
			s.SendFormReminders(ctx)
		case <-s.stop:
			return
		}
	}
}

// --------------------------------------------------
// Booking reminders (next 24h, confirmed, not yet reminded)
// --------------------------------------------------

func (s *Sweeper) SendBookingReminders(ctx context.Context) {
	now := time.Now()
	until := now.Add(24 * time.Hour)

	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Contact").
		Preload("Service").
		Where("start_time BETWEEN ? AND ? AND status = ? AND reminder_sent = ?",
			now, until, "confirmed", false).
		Find(&bookings).Error
	if err != nil {
		log.Printf("reminder sweep: %v", err)
		return
	}

	sent := 0
	for i := range bookings {
		bk := &bookings[i]
		if bk.Contact.Email == "" {
			continue
		}

		var workspace models.Workspace
		if err := s.db.WithContext(ctx).First(&workspace, bk.WorkspaceID).Error; err != nil {
			log.Printf("reminder sweep: booking %d: %v", bk.ID, err)
			continue
		}

		s.notifier.SendEmail(ctx, bk.WorkspaceID, bk.Contact.Email,
			"Reminder: your appointment tomorrow",
			reminderBody(&workspace, bk))

		if err := s.db.WithContext(ctx).
			Model(&models.Booking{}).
			Where("id = ?", bk.ID).
			Update("reminder_sent", true).Error; err != nil {
			log.Printf("reminder sweep: booking %d flag: %v", bk.ID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("sent %d booking reminders", sent)
	}
}

// --------------------------------------------------
// Low-stock alerts to workspace admins
// --------------------------------------------------

func (s *Sweeper) SendInventoryAlerts(ctx context.Context) {
	var items []models.InventoryItem
	err := s.db.WithContext(ctx).
		Where("quantity <= threshold AND low_stock_alert_sent = ?", false).
		Find(&items).Error
	if err != nil {
		log.Printf("inventory sweep: %v", err)
		return
	}

	for i := range items {
		item := &items[i]

		var workspace models.Workspace
		if err := s.db.WithContext(ctx).First(&workspace, item.WorkspaceID).Error; err != nil {
			log.Printf("inventory sweep: item %d: %v", item.ID, err)
			continue
		}

		var admins []models.User
		if err := s.db.WithContext(ctx).
			Where("workspace_id = ? AND role = ?", item.WorkspaceID, "admin").
			Find(&admins).Error; err != nil {
			log.Printf("inventory sweep: item %d admins: %v", item.ID, err)
			continue
		}

		for _, admin := range admins {
			s.notifier.SendEmail(ctx, item.WorkspaceID, admin.Email,
				"Low Stock Alert: "+item.Name,
				lowStockBody(&workspace, item))
		}

		if err := s.db.WithContext(ctx).
			Model(&models.InventoryItem{}).
			Where("id = ?", item.ID).
			Update("low_stock_alert_sent", true).Error; err != nil {
			log.Printf("inventory sweep: item %d flag: %v", item.ID, err)
		}
	}
}

// --------------------------------------------------
// Overdue-form nudges (pending > 24h)
// --------------------------------------------------

const formReminderBatchSize = 50

func (s *Sweeper) SendFormReminders(ctx context.Context) {
	cutoff := time.Now().Add(-24 * time.Hour)

	var subs []models.FormSubmission
	err := s.db.WithContext(ctx).
		Preload("Form").
		Where("completed_at IS NULL AND sent_at <= ?", cutoff).
		Limit(formReminderBatchSize).
		Find(&subs).Error
	if err != nil {
		log.Printf("form sweep: %v", err)
		return
	}

	for i := range subs {
		sub := &subs[i]
		if sub.BookingID == nil {
			continue
		}

		var bk models.Booking
		if err := s.db.WithContext(ctx).
			Preload("Contact").
			First(&bk, *sub.BookingID).Error; err != nil {
			log.Printf("form sweep: submission %d: %v", sub.ID, err)
			continue
		}
		if bk.Contact.Email == "" {
			continue
		}

		var workspace models.Workspace
		if err := s.db.WithContext(ctx).First(&workspace, bk.WorkspaceID).Error; err != nil {
			log.Printf("form sweep: submission %d: %v", sub.ID, err)
			continue
		}

		link := fmt.Sprintf("%s/public/form/%s", s.cfg.PublicURL, sub.Token)
		s.notifier.SendEmail(ctx, bk.WorkspaceID, bk.Contact.Email,
			"Reminder: please complete "+sub.Form.Name,
			formReminderBody(&workspace, &sub.Form, &bk, link))
	}
}
