package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/config"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/notify"
	"github.com/careops/careops-server/internal/validators"
)

type AuthHandler struct {
	db       *gorm.DB
	config   *config.Config
	notifier *notify.Notifier
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, notifier: notifier}
}

// --------- Requests ---------

type RegisterRequest struct {
	WorkspaceName string `json:"workspace_name" binding:"required"`

	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// --------- Slug ---------

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// slugify derives a URL slug from the workspace name; a numeric suffix
// is appended until it is unique.
func (h *AuthHandler) slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugStrip.ReplaceAllString(slug, "")
	if slug == "" {
		slug = "workspace"
	}

	base := slug
	for counter := 1; ; counter++ {
		var count int64
		h.db.Model(&models.Workspace{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = base + "-" + strconv.Itoa(counter)
	}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailValid(email) {
		httperr.BadRequest(c, "invalid_email", "Email address is not valid.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_registered", "Email already registered.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Registration failed.")
		return
	}

	workspace := models.Workspace{
		Name:     req.WorkspaceName,
		Slug:     h.slugify(req.WorkspaceName),
		Settings: models.DefaultSettings(),
	}
	if err := h.db.Create(&workspace).Error; err != nil {
		httperr.Internal(c, "failed_to_create_workspace", "Registration failed.")
		return
	}

	user := models.User{
		WorkspaceID:  workspace.ID,
		FullName:     req.FullName,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "admin",
		IsActive:     true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Registration failed.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Registration failed.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":      userPayload(&user),
		"workspace": workspacePayload(&workspace),
		"token":     token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Workspace").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
			return
		}
		httperr.Internal(c, "internal_error", "Login failed.")
		return
	}

	if !user.IsActive {
		httperr.Unauthorized(c, "account_disabled", "Account is disabled.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Login failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      userPayload(&user),
		"workspace": workspacePayload(&user.Workspace),
		"token":     token,
	})
}

// ForgotPassword always answers 200 so the endpoint cannot be used to
// probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err == nil {
		reset := models.PasswordReset{
			UserID:    user.ID,
			Token:     uuid.NewString(),
			ExpiresAt: time.Now().Add(1 * time.Hour),
		}
		if err := h.db.Create(&reset).Error; err == nil {
			link := h.config.PublicURL + "/reset-password?token=" + reset.Token
			h.notifier.SendEmail(
				c.Request.Context(),
				user.WorkspaceID,
				user.Email,
				"Password reset",
				"A password reset was requested for your account.\n\nReset link: "+link+"\n\nThe link expires in one hour.",
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var reset models.PasswordReset
	if err := h.db.Where("token = ?", req.Token).First(&reset).Error; err != nil {
		httperr.BadRequest(c, "invalid_token", "Reset link is invalid.")
		return
	}
	if reset.UsedAt != nil || time.Now().After(reset.ExpiresAt) {
		httperr.BadRequest(c, "expired_token", "Reset link has expired.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Reset failed.")
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ?", reset.UserID).
		Update("password_hash", string(hashed)).Error; err != nil {
		httperr.Internal(c, "internal_error", "Reset failed.")
		return
	}

	now := time.Now()
	h.db.Model(&reset).Update("used_at", &now)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":         user.ID,
		"workspaceId": user.WorkspaceID,
		"role":        user.Role,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

// --------- Payloads ---------

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"full_name":    user.FullName,
		"email":        user.Email,
		"phone":        user.Phone,
		"role":         user.Role,
		"workspace_id": user.WorkspaceID,
	}
}

func workspacePayload(ws *models.Workspace) gin.H {
	return gin.H{
		"id":              ws.ID,
		"name":            ws.Name,
		"slug":            ws.Slug,
		"timezone":        ws.Timezone,
		"is_active":       ws.IsActive,
		"onboarding_step": ws.OnboardingStep,
	}
}
