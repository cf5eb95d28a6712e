package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/audit"
	"github.com/careops/careops-server/internal/automation"
	"github.com/careops/careops-server/internal/cache"
	"github.com/careops/careops-server/internal/config"
	"github.com/careops/careops-server/internal/handlers"
	infraRepo "github.com/careops/careops-server/internal/infra/repository"
	"github.com/careops/careops-server/internal/media"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/notify"
	ucBooking "github.com/careops/careops-server/internal/usecase/booking"
	ucOnboarding "github.com/careops/careops-server/internal/usecase/onboarding"
	"github.com/careops/careops-server/internal/ws"
)

// Deps carries the process-wide singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Cache    *cache.Cache
	Hub      *ws.Hub
	Notifier *notify.Notifier
	Events   *automation.Dispatcher
	Uploader *media.Uploader
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	onboardingRepo := infraRepo.NewOnboardingGormRepository(d.DB)

	auditLogger := audit.New(d.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		d.Events,
		auditDispatcher,
	)

	confirmBookingUC := ucBooking.NewConfirmBooking(
		bookingRepo,
		d.Events,
		auditDispatcher,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		auditDispatcher,
	)

	rescheduleBookingUC := ucBooking.NewRescheduleBooking(
		bookingRepo,
		auditDispatcher,
	)

	completeBookingUC := ucBooking.NewCompleteBooking(bookingRepo, auditDispatcher)
	noShowUC := ucBooking.NewMarkNoShow(bookingRepo, auditDispatcher)

	listBookingsUC := ucBooking.NewListBookings(bookingRepo)
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo)

	// ======================================================
	// USE CASES — ONBOARDING
	// ======================================================
	onboardingSteps := ucOnboarding.NewSteps(onboardingRepo, auditDispatcher)
	activateUC := ucOnboarding.NewActivateWorkspace(onboardingRepo, auditDispatcher)
	onboardingStatusUC := ucOnboarding.NewGetStatus(onboardingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Notifier)
	meHandler := handlers.NewMeHandler(d.DB)
	workspaceHandler := handlers.NewWorkspaceHandler(d.DB, d.Cache, d.Uploader)

	serviceHandler := handlers.NewServiceHandler(d.DB)
	contactHandler := handlers.NewContactHandler(d.DB, d.Events)
	inboxHandler := handlers.NewInboxHandler(d.DB, d.Notifier, d.Hub)
	formHandler := handlers.NewFormHandler(d.DB, d.Config, d.Notifier)
	inventoryHandler := handlers.NewInventoryHandler(d.DB)
	integrationHandler := handlers.NewIntegrationHandler(d.DB, d.Notifier)
	dashboardHandler := handlers.NewDashboardHandler(d.DB)

	bookingHandler := handlers.NewBookingHandler(
		d.DB,
		createBookingUC,
		confirmBookingUC,
		cancelBookingUC,
		rescheduleBookingUC,
		completeBookingUC,
		noShowUC,
		listBookingsUC,
		availabilityUC,
	)

	onboardingHandler := handlers.NewOnboardingHandler(
		onboardingSteps,
		activateUC,
		onboardingStatusUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	publicHandler := handlers.NewPublicHandler(
		d.DB,
		d.Cache,
		d.Events,
		createBookingUC,
		availabilityUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/workspace/:slug", publicHandler.GetWorkspace)
			publicAPI.GET("/book/:slug", publicHandler.BookingPage)
			publicAPI.GET("/book/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/book/:slug", publicHandler.CreateBooking)
			publicAPI.POST("/contact/:slug", publicHandler.ContactForm)

			publicAPI.GET("/form/:token", publicHandler.GetForm)
			publicAPI.POST("/form/:token", publicHandler.SubmitForm)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/workspace", workspaceHandler.GetMeWorkspace)
			secured.PATCH("/me/workspace", workspaceHandler.UpdateMeWorkspace)
			secured.POST("/me/workspace/logo", workspaceHandler.UploadLogo)

			// ------------------------------
			// ONBOARDING (admin only)
			// ------------------------------
			onboarding := secured.Group("/onboarding")
			onboarding.Use(middleware.RequireAdmin())
			{
				onboarding.POST("/step1/profile", onboardingHandler.Step1Profile)
				onboarding.POST("/step2/integrations", onboardingHandler.Step2Integrations)
				onboarding.POST("/step3/services", onboardingHandler.Step3Service)
				onboarding.POST("/step4/inventory", onboardingHandler.Step4Inventory)
				onboarding.POST("/step5/forms", onboardingHandler.Step5Form)
				onboarding.POST("/step6/team", onboardingHandler.Step6Team)
				onboarding.POST("/activate", onboardingHandler.Activate)
				onboarding.GET("/status", onboardingHandler.Status)
			}

			// ------------------------------
			// SERVICES
			// ------------------------------
			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/bookings", bookingHandler.List)
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings/availability", bookingHandler.Availability)
			secured.GET("/bookings/calendar", bookingHandler.Calendar)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/reschedule", bookingHandler.Reschedule)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/bookings/:id/no-show", bookingHandler.NoShow)

			// ------------------------------
			// CONTACTS
			// ------------------------------
			secured.GET("/contacts", contactHandler.List)
			secured.POST("/contacts", contactHandler.Create)
			secured.GET("/contacts/:id", contactHandler.Get)
			secured.PATCH("/contacts/:id", contactHandler.Update)

			// ------------------------------
			// INBOX
			// ------------------------------
			secured.GET("/inbox/conversations", inboxHandler.ListConversations)
			secured.POST("/inbox/conversations", inboxHandler.CreateConversation)
			secured.GET("/inbox/conversations/:id", inboxHandler.GetConversation)
			secured.PATCH("/inbox/conversations/:id", inboxHandler.UpdateConversation)
			secured.POST("/inbox/conversations/:id/reply", inboxHandler.Reply)
			secured.POST("/inbox/messages", inboxHandler.SendMessage)
			secured.GET("/inbox/stats", inboxHandler.Stats)
			secured.GET("/inbox/ws", inboxHandler.WebSocket)

			// ------------------------------
			// FORMS
			// ------------------------------
			secured.GET("/forms", formHandler.List)
			secured.POST("/forms", formHandler.Create)
			secured.GET("/forms/submissions", formHandler.ListSubmissions)
			secured.GET("/forms/submissions/:id", formHandler.GetSubmission)
			secured.GET("/forms/:id", formHandler.Get)
			secured.PATCH("/forms/:id", formHandler.Update)
			secured.DELETE("/forms/:id", formHandler.Delete)
			secured.POST("/forms/:id/send", formHandler.Send)

			// ------------------------------
			// INVENTORY
			// ------------------------------
			secured.GET("/inventory", inventoryHandler.List)
			secured.POST("/inventory", inventoryHandler.Create)
			secured.GET("/inventory/alerts/low-stock", inventoryHandler.LowStock)
			secured.GET("/inventory/:id", inventoryHandler.Get)
			secured.PATCH("/inventory/:id", inventoryHandler.Update)
			secured.DELETE("/inventory/:id", inventoryHandler.Delete)
			secured.POST("/inventory/:id/adjust", inventoryHandler.Adjust)
			secured.POST("/inventory/:id/usage", inventoryHandler.RecordUsage)

			// ------------------------------
			// INTEGRATIONS (admin only)
			// ------------------------------
			integrations := secured.Group("/integrations")
			integrations.Use(middleware.RequireAdmin())
			{
				integrations.GET("", integrationHandler.List)
				integrations.PATCH("/:id", integrationHandler.Update)
				integrations.POST("/:id/test", integrationHandler.Test)
			}

			// ------------------------------
			// DASHBOARD
			// ------------------------------
			secured.GET("/dashboard/metrics", dashboardHandler.Metrics)
			secured.GET("/dashboard/bookings/upcoming", dashboardHandler.UpcomingBookings)
			secured.GET("/dashboard/activity/recent", dashboardHandler.RecentActivity)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
