package automation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/ws"
)

// --------------------------------------------------
// New contact → welcome message
// --------------------------------------------------

func (d *Dispatcher) handleNewContact(ctx context.Context, ev Event) error {
	var workspace models.Workspace
	if err := d.db.WithContext(ctx).First(&workspace, ev.WorkspaceID).Error; err != nil {
		return err
	}

	var contact models.Contact
	if err := d.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", ev.ContactID, ev.WorkspaceID).
		First(&contact).Error; err != nil {
		return err
	}

	// Best channel: email first, SMS as fallback.
	var channel, recipient string
	switch {
	case contact.Email != "" && d.notifier.HasChannel(ctx, workspace.ID, models.IntegrationTypeEmail):
		channel, recipient = "email", contact.Email
	case contact.Phone != "" && d.notifier.HasChannel(ctx, workspace.ID, models.IntegrationTypeSMS):
		channel, recipient = "sms", contact.Phone
	default:
		log.Printf("automation: no channel for contact %d", contact.ID)
		return nil
	}

	body := welcomeBody(&workspace, &contact, d.cfg.PublicURL)

	// Record the outbound message on an active conversation.
	var conv models.Conversation
	err := d.db.WithContext(ctx).
		Where("workspace_id = ? AND contact_id = ? AND status = ?", workspace.ID, contact.ID, "active").
		First(&conv).Error
	if err != nil {
		conv = models.Conversation{
			WorkspaceID: workspace.ID,
			ContactID:   contact.ID,
			Subject:     "Welcome to " + workspace.Name,
			Status:      "active",
		}
		if err := d.db.WithContext(ctx).Create(&conv).Error; err != nil {
			return err
		}
	}

	now := time.Now()
	msg := models.Message{
		ConversationID: conv.ID,
		Content:        body,
		Channel:        channel,
		Direction:      "outbound",
		Automated:      true,
		Status:         "sent",
	}
	if err := d.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return err
	}

	conv.MessageCount++
	conv.LastMessageAt = &now
	conv.LastMessageDirection = "outbound"
	conv.AwaitingReply = false
	if err := d.db.WithContext(ctx).Save(&conv).Error; err != nil {
		return err
	}

	if d.hub != nil {
		d.hub.Broadcast(workspace.ID, ws.Event{
			Type: "message_sent",
			Data: msg,
		})
	}

	if channel == "email" {
		d.notifier.SendEmail(ctx, workspace.ID, recipient, "Welcome to "+workspace.Name, body)
	} else {
		d.notifier.SendSMS(ctx, workspace.ID, recipient, body)
	}

	return nil
}

// --------------------------------------------------
// Booking created/confirmed → confirmation + intake forms
// --------------------------------------------------

func (d *Dispatcher) handleBookingCreated(ctx context.Context, ev Event) error {
	var bk models.Booking
	if err := d.db.WithContext(ctx).
		Preload("Contact").
		Preload("Service").
		Where("id = ? AND workspace_id = ?", ev.BookingID, ev.WorkspaceID).
		First(&bk).Error; err != nil {
		return err
	}

	var workspace models.Workspace
	if err := d.db.WithContext(ctx).First(&workspace, ev.WorkspaceID).Error; err != nil {
		return err
	}

	if bk.Contact.Email == "" {
		log.Printf("automation: booking %d has no contact email", bk.ID)
		return nil
	}

	// The flag is read fresh here: a create followed by an immediate
	// confirm queues two events, but only the first one sends.
	if !bk.ConfirmationSent {
		d.notifier.SendEmail(ctx, workspace.ID, bk.Contact.Email,
			"Booking Confirmed - "+workspace.Name,
			confirmationBody(&workspace, &bk))

		if err := d.db.WithContext(ctx).
			Model(&models.Booking{}).
			Where("id = ?", bk.ID).
			Update("confirmation_sent", true).Error; err != nil {
			return err
		}
	}

	return d.sendRequiredForms(ctx, &workspace, &bk)
}

func (d *Dispatcher) sendRequiredForms(ctx context.Context, workspace *models.Workspace, bk *models.Booking) error {
	if bk.ServiceID == nil {
		return nil
	}

	var forms []models.Form
	if err := d.db.WithContext(ctx).
		Where("workspace_id = ? AND service_id = ? AND is_active = ? AND require_before_booking = ?",
			workspace.ID, *bk.ServiceID, true, true).
		Find(&forms).Error; err != nil {
		return err
	}

	for _, form := range forms {
		var existing int64
		d.db.WithContext(ctx).
			Model(&models.FormSubmission{}).
			Where("form_id = ? AND booking_id = ? AND contact_id = ?", form.ID, bk.ID, bk.ContactID).
			Count(&existing)
		if existing > 0 {
			continue
		}

		sub := models.FormSubmission{
			FormID:    form.ID,
			BookingID: &bk.ID,
			ContactID: bk.ContactID,
			Token:     uuid.NewString(),
			SentAt:    time.Now(),
		}
		if err := d.db.WithContext(ctx).Create(&sub).Error; err != nil {
			log.Printf("automation: form submission for booking %d: %v", bk.ID, err)
			continue
		}

		link := fmt.Sprintf("%s/public/form/%s", d.cfg.PublicURL, sub.Token)
		d.notifier.SendEmail(ctx, workspace.ID, bk.Contact.Email,
			"Please complete: "+form.Name,
			formRequestBody(workspace, &form, bk, link))
	}

	return nil
}
