package handlers

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/timezone"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type dashboardAlert struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ActionURL   string `json:"action_url"`
	ActionLabel string `json:"action_label"`
	Timestamp   string `json:"timestamp"`
}

// Metrics aggregates the workspace's day at a glance: bookings, inbox
// load, outstanding forms, low stock, and the alerts derived from them.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var ws models.Workspace
	if err := h.db.First(&ws, workspaceID).Error; err != nil {
		httperr.NotFound(c, "workspace_not_found", "Workspace not found.")
		return
	}

	now := timezone.NowIn(ws.Timezone)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	bookingCount := func(where string, args ...any) int64 {
		var n int64
		h.db.Model(&models.Booking{}).
			Where("workspace_id = ?", workspaceID).
			Where(where, args...).
			Count(&n)
		return n
	}
	convCount := func(where string, args ...any) int64 {
		var n int64
		h.db.Model(&models.Conversation{}).
			Where("workspace_id = ?", workspaceID).
			Where(where, args...).
			Count(&n)
		return n
	}
	formCount := func(where string, args ...any) int64 {
		var n int64
		h.db.Model(&models.FormSubmission{}).
			Joins("JOIN bookings ON bookings.id = form_submissions.booking_id").
			Where("bookings.workspace_id = ?", workspaceID).
			Where(where, args...).
			Count(&n)
		return n
	}

	todaysBookings := bookingCount("start_time >= ? AND start_time < ?", startOfDay, endOfDay)
	upcoming := bookingCount("start_time > ? AND status IN ?", now, domain.ActiveStatuses())
	completedToday := bookingCount("start_time >= ? AND start_time < ? AND status = ?",
		startOfDay, endOfDay, string(domain.StatusCompleted))
	noShowsToday := bookingCount("start_time >= ? AND start_time < ? AND status = ?",
		startOfDay, endOfDay, string(domain.StatusNoShow))
	unconfirmed := bookingCount("start_time > ? AND status = ?", now, string(domain.StatusPending))

	newInquiries := convCount("created_at >= ?", now.Add(-24*time.Hour))
	ongoing := convCount("status = ? AND last_message_at >= ?", "active", now.AddDate(0, 0, -7))
	unanswered := convCount("status = ? AND awaiting_reply = ? AND last_message_at >= ?",
		"active", true, now.AddDate(0, 0, -3))

	pendingForms := formCount("form_submissions.completed_at IS NULL")
	overdueForms := formCount("form_submissions.completed_at IS NULL AND form_submissions.sent_at < ?",
		now.Add(-48*time.Hour))
	completedForms := formCount("form_submissions.completed_at >= ?", now.AddDate(0, 0, -30))

	var lowStock []models.InventoryItem
	h.db.Where("workspace_id = ? AND quantity <= threshold", workspaceID).
		Order("quantity ASC").
		Find(&lowStock)

	criticalCount := 0
	for _, item := range lowStock {
		if item.Quantity == 0 {
			criticalCount++
		}
	}

	ts := now.Format(time.RFC3339)
	stamp := now.Unix()
	var alerts []dashboardAlert

	if unanswered > 0 {
		alerts = append(alerts, dashboardAlert{
			ID:          fmt.Sprintf("alert-unanswered-%d", stamp),
			Type:        "missed_messages",
			Severity:    "high",
			Title:       fmt.Sprintf("%d unanswered message(s)", unanswered),
			Description: "Customers are waiting for a response",
			ActionURL:   "/inbox?filter=unanswered",
			ActionLabel: "View Messages",
			Timestamp:   ts,
		})
	}
	if unconfirmed > 0 {
		alerts = append(alerts, dashboardAlert{
			ID:          fmt.Sprintf("alert-unconfirmed-%d", stamp),
			Type:        "unconfirmed_bookings",
			Severity:    "medium",
			Title:       fmt.Sprintf("%d unconfirmed booking(s)", unconfirmed),
			Description: "Requires confirmation",
			ActionURL:   "/bookings?filter=pending",
			ActionLabel: "Review Bookings",
			Timestamp:   ts,
		})
	}
	if overdueForms > 0 {
		alerts = append(alerts, dashboardAlert{
			ID:          fmt.Sprintf("alert-forms-%d", stamp),
			Type:        "overdue_forms",
			Severity:    "high",
			Title:       fmt.Sprintf("%d overdue form(s)", overdueForms),
			Description: "Sent over 48 hours ago",
			ActionURL:   "/forms?filter=overdue",
			ActionLabel: "Send Reminders",
			Timestamp:   ts,
		})
	}

	topLowStock := lowStock
	if len(topLowStock) > 5 {
		topLowStock = topLowStock[:5]
	}
	for _, item := range topLowStock {
		severity := "warning"
		if item.Quantity == 0 {
			severity = "critical"
		}
		alerts = append(alerts, dashboardAlert{
			ID:          fmt.Sprintf("alert-inventory-%d", item.ID),
			Type:        "low_stock",
			Severity:    severity,
			Title:       "Low stock: " + item.Name,
			Description: fmt.Sprintf("%d %s left (threshold: %d)", item.Quantity, item.Unit, item.Threshold),
			ActionURL:   fmt.Sprintf("/inventory/%d", item.ID),
			ActionLabel: "Reorder Now",
			Timestamp:   ts,
		})
	}

	httpresp.OK(c, gin.H{
		"workspace": gin.H{
			"id":        ws.ID,
			"name":      ws.Name,
			"slug":      ws.Slug,
			"is_active": ws.IsActive,
		},
		"timestamp": ts,
		"bookings": gin.H{
			"today":           todaysBookings,
			"upcoming":        upcoming,
			"completed_today": completedToday,
			"no_shows_today":  noShowsToday,
			"unconfirmed":     unconfirmed,
		},
		"leads": gin.H{
			"new_inquiries": newInquiries,
			"ongoing":       ongoing,
			"unanswered":    unanswered,
		},
		"forms": gin.H{
			"pending":   pendingForms,
			"overdue":   overdueForms,
			"completed": completedForms,
		},
		"inventory": gin.H{
			"low_stock_count": len(lowStock),
			"critical_count":  criticalCount,
			"items":           topLowStock,
		},
		"alerts": alerts,
	})
}

func (h *DashboardHandler) UpcomingBookings(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var bookings []models.Booking
	if err := h.db.
		Preload("Contact").
		Preload("Service").
		Where(
			"workspace_id = ? AND start_time > ? AND status IN ?",
			workspaceID, time.Now(), domain.ActiveStatuses(),
		).
		Order("start_time ASC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not load upcoming bookings.")
		return
	}

	httpresp.List(c, bookings)
}

type activityEntry struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	EntityID  uint      `json:"entity_id"`
}

// RecentActivity merges the last week's bookings, inquiries and form
// completions into one reverse-chronological feed.
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	since := time.Now().AddDate(0, 0, -7)
	var feed []activityEntry

	var bookings []models.Booking
	h.db.Preload("Contact").
		Where("workspace_id = ? AND created_at >= ?", workspaceID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings)
	for _, bk := range bookings {
		feed = append(feed, activityEntry{
			Type:      "booking_created",
			Title:     "New booking from " + bk.Contact.Name,
			Timestamp: bk.CreatedAt,
			EntityID:  bk.ID,
		})
	}

	var conversations []models.Conversation
	h.db.Preload("Contact").
		Where("workspace_id = ? AND created_at >= ?", workspaceID, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&conversations)
	for _, conv := range conversations {
		feed = append(feed, activityEntry{
			Type:      "new_inquiry",
			Title:     "New inquiry from " + conv.Contact.Name,
			Timestamp: conv.CreatedAt,
			EntityID:  conv.ID,
		})
	}

	var submissions []models.FormSubmission
	h.db.Preload("Form").
		Joins("JOIN forms ON forms.id = form_submissions.form_id").
		Where("forms.workspace_id = ? AND form_submissions.completed_at >= ?", workspaceID, since).
		Order("form_submissions.completed_at DESC").
		Limit(limit).
		Find(&submissions)
	for _, sub := range submissions {
		feed = append(feed, activityEntry{
			Type:      "form_completed",
			Title:     "Form completed: " + sub.Form.Name,
			Timestamp: *sub.CompletedAt,
			EntityID:  sub.ID,
		})
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}

	httpresp.List(c, feed)
}
