package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/models"
)

// Notifier delivers email/SMS through the workspace's configured
// integration. Delivery is best-effort: every failure is logged and
// reflected on the integration row, never propagated into the flow
// that triggered the send.
type Notifier struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

func (n *Notifier) SendEmail(ctx context.Context, workspaceID uint, to, subject, body string) {
	integ, err := n.activeIntegration(ctx, workspaceID, models.IntegrationTypeEmail)
	if err != nil {
		log.Printf("[EMAIL] to=%s subject=%q (no channel configured)", to, subject)
		return
	}

	switch integ.Provider {
	case models.ProviderSendgrid:
		err = sendSendgrid(ctx, integ.Credentials, to, subject, body)
	case models.ProviderSMTP:
		err = sendSMTP(integ.Credentials, to, subject, body)
	default:
		log.Printf("[EMAIL] to=%s subject=%q body=%.120q", to, subject, body)
	}

	n.recordResult(ctx, integ, err)
}

func (n *Notifier) SendSMS(ctx context.Context, workspaceID uint, to, body string) {
	integ, err := n.activeIntegration(ctx, workspaceID, models.IntegrationTypeSMS)
	if err != nil {
		log.Printf("[SMS] to=%s (no channel configured)", to)
		return
	}

	switch integ.Provider {
	case models.ProviderTwilio:
		err = sendTwilio(ctx, integ.Credentials, to, body)
	default:
		log.Printf("[SMS] to=%s body=%.100q", to, body)
	}

	n.recordResult(ctx, integ, err)
}

// HasChannel reports whether the workspace has an active integration
// of the given type. Used to pick the best channel for a contact.
func (n *Notifier) HasChannel(ctx context.Context, workspaceID uint, channelType string) bool {
	_, err := n.activeIntegration(ctx, workspaceID, channelType)
	return err == nil
}

func (n *Notifier) activeIntegration(ctx context.Context, workspaceID uint, channelType string) (*models.Integration, error) {
	var integ models.Integration
	err := n.db.WithContext(ctx).
		Where("workspace_id = ? AND type = ? AND is_active = ?", workspaceID, channelType, true).
		First(&integ).Error
	if err != nil {
		return nil, err
	}
	return &integ, nil
}

func (n *Notifier) recordResult(ctx context.Context, integ *models.Integration, sendErr error) {
	now := time.Now()
	updates := map[string]any{"last_used": now}

	if sendErr != nil {
		log.Printf("notify: %s/%s delivery failed: %v", integ.Type, integ.Provider, sendErr)
		updates["error_count"] = gorm.Expr("error_count + 1")
		updates["last_error"] = fmt.Sprintf("%.250s", sendErr.Error())
	}

	if err := n.db.WithContext(ctx).
		Model(&models.Integration{}).
		Where("id = ?", integ.ID).
		Updates(updates).Error; err != nil {
		log.Printf("notify: integration bookkeeping failed: %v", err)
	}
}
