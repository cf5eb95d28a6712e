package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/notify"
	"github.com/careops/careops-server/internal/ws"
)

// ======================================================
// HANDLER
// ======================================================

type InboxHandler struct {
	db       *gorm.DB
	notifier *notify.Notifier
	hub      *ws.Hub
}

func NewInboxHandler(db *gorm.DB, notifier *notify.Notifier, hub *ws.Hub) *InboxHandler {
	return &InboxHandler{db: db, notifier: notifier, hub: hub}
}

// ======================================================
// REQUESTS
// ======================================================

type ReplyRequest struct {
	Content string `json:"content" binding:"required"`
	Channel string `json:"channel" binding:"required"` // email, sms
}

type CreateConversationRequest struct {
	ContactID uint   `json:"contact_id" binding:"required"`
	Subject   string `json:"subject"`
}

type UpdateConversationRequest struct {
	Status       *string `json:"status"`
	AssignedToID *uint   `json:"assigned_to_id"`
}

type SendMessageRequest struct {
	Content      string `json:"content" binding:"required"`
	Channel      string `json:"channel" binding:"required"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

// ======================================================
// CONVERSATIONS
// ======================================================

func (h *InboxHandler) ListConversations(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	q := h.db.Model(&models.Conversation{}).
		Where("conversations.workspace_id = ?", workspaceID)

	if status := c.Query("status"); status != "" {
		q = q.Where("conversations.status = ?", status)
	}

	switch c.Query("filter") {
	case "unanswered":
		q = q.Where("awaiting_reply = ? AND conversations.status = ?", true, "active")
	case "mine":
		q = q.Where("assigned_to_id = ?", userID)
	case "unassigned":
		q = q.Where("assigned_to_id IS NULL")
	}

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN contacts ON contacts.id = conversations.contact_id").
			Where(
				"LOWER(contacts.name) LIKE ? OR LOWER(contacts.email) LIKE ? OR LOWER(conversations.subject) LIKE ?",
				like, like, like,
			)
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_conversations", "Could not list conversations.")
		return
	}

	var conversations []models.Conversation
	if err := q.
		Preload("Contact").
		Order("last_message_at DESC NULLS LAST").
		Limit(limit).
		Offset(offset).
		Find(&conversations).Error; err != nil {
		httperr.Internal(c, "failed_to_list_conversations", "Could not list conversations.")
		return
	}

	httpresp.ListTotal(c, conversations, int(total))
}

// GetConversation returns the thread and clears the awaiting-reply
// flag: opening a conversation counts as seeing it.
func (h *InboxHandler) GetConversation(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	conv, ok := h.conversationFor(c, workspaceID)
	if !ok {
		return
	}

	var messages []models.Message
	if err := h.db.
		Where("conversation_id = ?", conv.ID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		httperr.Internal(c, "failed_to_load_messages", "Could not load messages.")
		return
	}

	if conv.AwaitingReply {
		h.db.Model(conv).Update("awaiting_reply", false)
	}

	httpresp.OK(c, gin.H{
		"conversation": conv,
		"messages":     messages,
	})
}

func (h *InboxHandler) CreateConversation(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var contact models.Contact
	if err := h.db.
		Where("id = ? AND workspace_id = ?", req.ContactID, workspaceID).
		First(&contact).Error; err != nil {
		httperr.NotFound(c, "contact_not_found", "Contact not found.")
		return
	}

	// One active conversation per contact.
	var existing models.Conversation
	if err := h.db.
		Where("workspace_id = ? AND contact_id = ? AND status = ?", workspaceID, contact.ID, "active").
		First(&existing).Error; err == nil {
		httpresp.OK(c, gin.H{
			"id":      existing.ID,
			"message": "Active conversation already exists",
		})
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Conversation with " + contact.Name
	}

	conv := models.Conversation{
		WorkspaceID: workspaceID,
		ContactID:   contact.ID,
		Subject:     subject,
		Status:      "active",
	}
	if err := h.db.Create(&conv).Error; err != nil {
		httperr.Internal(c, "failed_to_create_conversation", "Could not create the conversation.")
		return
	}

	httpresp.Created(c, conv)
}

func (h *InboxHandler) UpdateConversation(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	conv, ok := h.conversationFor(c, workspaceID)
	if !ok {
		return
	}

	var req UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case "active", "resolved", "archived":
			conv.Status = *req.Status
		default:
			httperr.BadRequest(c, "invalid_status", "Unknown conversation status.")
			return
		}
	}

	if req.AssignedToID != nil {
		if *req.AssignedToID != 0 {
			var count int64
			h.db.Model(&models.User{}).
				Where("id = ? AND workspace_id = ?", *req.AssignedToID, workspaceID).
				Count(&count)
			if count == 0 {
				httperr.NotFound(c, "user_not_found", "Assignee not found.")
				return
			}
			conv.AssignedToID = req.AssignedToID
		} else {
			conv.AssignedToID = nil
		}
	}

	if err := h.db.Save(conv).Error; err != nil {
		httperr.Internal(c, "failed_to_update_conversation", "Could not update the conversation.")
		return
	}

	httpresp.OK(c, conv)
}

// ======================================================
// MESSAGES
// ======================================================

func (h *InboxHandler) Reply(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	conv, ok := h.conversationFor(c, workspaceID)
	if !ok {
		return
	}

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	msg, err := h.appendOutbound(c, conv, userID, req.Content, req.Channel)
	if err != nil {
		httperr.Internal(c, "failed_to_send_message", "Could not send the message.")
		return
	}

	h.deliver(c, conv, req.Channel, "Re: "+conv.Subject, req.Content)

	h.hub.Broadcast(workspaceID, ws.Event{
		Type: "new_message",
		Data: gin.H{
			"conversation_id": conv.ID,
			"message":         msg,
		},
	})

	httpresp.Created(c, gin.H{
		"status":  "success",
		"message": msg,
	})
}

// SendMessage starts (or continues) a thread from scratch, creating
// the contact and conversation when they do not exist yet.
func (h *InboxHandler) SendMessage(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.ContactEmail == "" && req.ContactPhone == "" {
		httperr.BadRequest(c, "missing_channel", "Either contact_email or contact_phone is required.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.ContactEmail))

	var contact models.Contact
	q := h.db.Where("workspace_id = ?", workspaceID)
	if email != "" {
		q = q.Where("email = ?", email)
	} else {
		q = q.Where("phone = ?", req.ContactPhone)
	}
	if err := q.First(&contact).Error; err != nil {
		name := req.ContactName
		if name == "" {
			name = "Customer"
		}
		contact = models.Contact{
			WorkspaceID: workspaceID,
			Name:        name,
			Email:       email,
			Phone:       req.ContactPhone,
			Source:      "manual",
			IsActive:    true,
		}
		if err := h.db.Create(&contact).Error; err != nil {
			httperr.Internal(c, "failed_to_create_contact", "Could not create the contact.")
			return
		}
	}

	var conv models.Conversation
	if err := h.db.
		Where("workspace_id = ? AND contact_id = ? AND status = ?", workspaceID, contact.ID, "active").
		First(&conv).Error; err != nil {
		conv = models.Conversation{
			WorkspaceID: workspaceID,
			ContactID:   contact.ID,
			Subject:     "Conversation with " + contact.Name,
			Status:      "active",
		}
		if err := h.db.Create(&conv).Error; err != nil {
			httperr.Internal(c, "failed_to_create_conversation", "Could not create the conversation.")
			return
		}
	}
	conv.Contact = contact

	msg, err := h.appendOutbound(c, &conv, userID, req.Content, req.Channel)
	if err != nil {
		httperr.Internal(c, "failed_to_send_message", "Could not send the message.")
		return
	}

	h.deliver(c, &conv, req.Channel, conv.Subject, req.Content)

	httpresp.Created(c, gin.H{
		"status":          "success",
		"conversation_id": conv.ID,
		"contact_id":      contact.ID,
		"message":         msg,
	})
}

// appendOutbound inserts the message row and updates the conversation
// counters in one pass.
func (h *InboxHandler) appendOutbound(
	c *gin.Context,
	conv *models.Conversation,
	userID uint,
	content string,
	channel string,
) (*models.Message, error) {

	msg := models.Message{
		ConversationID: conv.ID,
		Content:        content,
		Channel:        channel,
		Direction:      "outbound",
		Status:         "sent",
		Metadata:       models.JSONMap{"sent_by": userID},
	}
	if err := h.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	conv.MessageCount++
	conv.LastMessageAt = &now
	conv.LastMessageDirection = "outbound"
	conv.AwaitingReply = false
	if conv.AssignedToID == nil {
		conv.AssignedToID = &userID
	}
	if err := h.db.Save(conv).Error; err != nil {
		return nil, err
	}

	return &msg, nil
}

// deliver pushes the message out the chosen channel. Failures are
// logged inside the notifier and never surface here.
func (h *InboxHandler) deliver(
	c *gin.Context,
	conv *models.Conversation,
	channel string,
	subject string,
	content string,
) {
	if conv.Contact.ID == 0 {
		h.db.First(&conv.Contact, conv.ContactID)
	}

	switch channel {
	case "email":
		if conv.Contact.Email != "" {
			h.notifier.SendEmail(c.Request.Context(), conv.WorkspaceID, conv.Contact.Email, subject, content)
		}
	case "sms":
		if conv.Contact.Phone != "" {
			h.notifier.SendSMS(c.Request.Context(), conv.WorkspaceID, conv.Contact.Phone, content)
		}
	}
}

// ======================================================
// STATS / WEBSOCKET
// ======================================================

func (h *InboxHandler) Stats(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	count := func(where string, args ...any) int64 {
		var n int64
		h.db.Model(&models.Conversation{}).
			Where("workspace_id = ?", workspaceID).
			Where(where, args...).
			Count(&n)
		return n
	}

	midnight := time.Now().Truncate(24 * time.Hour)

	var messagesToday int64
	h.db.Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.workspace_id = ? AND messages.created_at >= ?", workspaceID, midnight).
		Count(&messagesToday)

	httpresp.OK(c, gin.H{
		"total_conversations":  count("1=1"),
		"active_conversations": count("status = ?", "active"),
		"awaiting_reply":       count("awaiting_reply = ? AND status = ?", true, "active"),
		"unassigned":           count("assigned_to_id IS NULL AND status = ?", "active"),
		"messages_today":       messagesToday,
	})
}

func (h *InboxHandler) WebSocket(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	if err := h.hub.Serve(c.Writer, c.Request, workspaceID); err != nil {
		// Handshake failed; the upgrader already wrote the response.
		return
	}
}

// --------------------------------------------------

func (h *InboxHandler) conversationFor(c *gin.Context, workspaceID uint) (*models.Conversation, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_conversation_id", "Invalid conversation id.")
		return nil, false
	}

	var conv models.Conversation
	if err := h.db.
		Preload("Contact").
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&conv).Error; err != nil {
		httperr.NotFound(c, "conversation_not_found", "Conversation not found.")
		return nil, false
	}
	return &conv, true
}
