package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/medicarepro/booking-system/internal/api/handler"
	"github.com/medicarepro/booking-system/internal/api/middleware"
	"github.com/medicarepro/booking-system/internal/core/ports"
)

// Dependencies are the services and settings the API routes are built from.
type Dependencies struct {
	Auth         ports.AuthService
	Users        ports.UserService
	Doctors      ports.DoctorService
	Tests        ports.LabTestService
	Appointments ports.AppointmentService
	Payments     ports.PaymentService
	Webhooks     ports.WebhookService
	WebhookQueue handler.EventQueue
	Dashboard    ports.DashboardService
	Support      ports.SupportService

	JWTSecret   string
	Development bool
	Log         zerolog.Logger
	// Registerer receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registerer prometheus.Registerer
}

// NewRouter registers the /api routes, /metrics and /swagger on e.
func NewRouter(e *echo.Echo, deps Dependencies) {
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Development)

	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "booking",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Log)
	userHandler := handler.NewUserHandler(deps.Users)
	doctorHandler := handler.NewDoctorHandler(deps.Doctors)
	testHandler := handler.NewLabTestHandler(deps.Tests)
	appointmentHandler := handler.NewAppointmentHandler(deps.Appointments)
	paymentHandler := handler.NewPaymentHandler(deps.Payments)
	webhookHandler := handler.NewWebhookHandler(deps.Webhooks, deps.WebhookQueue, deps.Log)
	adminHandler := handler.NewAdminHandler(deps.Dashboard)
	supportHandler := handler.NewSupportHandler(deps.Support)

	auth := middleware.Auth(deps.JWTSecret)
	can := middleware.Authorize

	api := e.Group("/api")

	// --- Auth routes ---
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)

	// --- Users ---
	users := api.Group("/users", auth)
	users.GET("/me", userHandler.Me, can(middleware.CapProfile))
	users.GET("", userHandler.List, can(middleware.CapUsersManage))
	users.GET("/:id", userHandler.Get, can(middleware.CapProfile))
	users.PUT("/:id", userHandler.Update, can(middleware.CapProfile))
	users.DELETE("/:id", userHandler.Delete, can(middleware.CapUsersManage))

	// --- Catalog: public reads, admin writes ---
	doctors := api.Group("/doctors")
	doctors.GET("", doctorHandler.List)
	doctors.GET("/specializations", doctorHandler.Specializations)
	doctors.GET("/:id", doctorHandler.Get)
	doctors.POST("", doctorHandler.Create, auth, can(middleware.CapCatalogManage))
	doctors.PUT("/:id", doctorHandler.Update, auth, can(middleware.CapCatalogManage))
	doctors.DELETE("/:id", doctorHandler.Delete, auth, can(middleware.CapCatalogManage))

	tests := api.Group("/tests")
	tests.GET("", testHandler.List)
	tests.GET("/categories", testHandler.Categories)
	tests.GET("/:id", testHandler.Get)
	tests.POST("", testHandler.Create, auth, can(middleware.CapCatalogManage))
	tests.PUT("/:id", testHandler.Update, auth, can(middleware.CapCatalogManage))
	tests.DELETE("/:id", testHandler.Delete, auth, can(middleware.CapCatalogManage))

	// --- Appointments ---
	appointments := api.Group("/appointments", auth, can(middleware.CapAppointmentsWrite))
	appointments.GET("", appointmentHandler.List)
	appointments.GET("/:id", appointmentHandler.Get)
	appointments.POST("", appointmentHandler.Create)
	appointments.PUT("/:id", appointmentHandler.Update)
	appointments.DELETE("/:id", appointmentHandler.Delete)
	appointments.PATCH("/:id/cancel", appointmentHandler.Cancel)

	// --- Payments ---
	payments := api.Group("/payments")
	payments.GET("/razorpay/config", paymentHandler.GatewayConfig)
	payments.POST("/razorpay/webhook", webhookHandler.Receive)
	payments.POST("/razorpay/order", paymentHandler.CreateOrder, auth, can(middleware.CapPaymentsWrite))
	payments.POST("/razorpay/verify", paymentHandler.Verify, auth, can(middleware.CapPaymentsWrite))
	payments.GET("/stats", paymentHandler.Stats, auth, can(middleware.CapPaymentsStats))
	payments.GET("", paymentHandler.List, auth, can(middleware.CapPaymentsWrite))
	payments.GET("/:id", paymentHandler.Get, auth, can(middleware.CapPaymentsWrite))
	payments.POST("", paymentHandler.Create, auth, can(middleware.CapPaymentsWrite))
	payments.PATCH("/:id/refund", paymentHandler.Refund, auth, can(middleware.CapPaymentsRefund))

	// --- Admin ---
	admin := api.Group("/admin", auth)
	admin.GET("/dashboard", adminHandler.Dashboard, can(middleware.CapAdminDashboard))

	admin.GET("/users", userHandler.ListPatients, can(middleware.CapUsersManage))
	admin.POST("/users", userHandler.Create, can(middleware.CapUsersManage))
	admin.PUT("/users/:id", userHandler.Update, can(middleware.CapUsersManage))
	admin.DELETE("/users/:id", userHandler.Delete, can(middleware.CapUsersManage))

	admin.GET("/doctors", doctorHandler.List, can(middleware.CapCatalogManage))
	admin.POST("/doctors", doctorHandler.Create, can(middleware.CapCatalogManage))
	admin.PUT("/doctors/:id", doctorHandler.Update, can(middleware.CapCatalogManage))
	admin.DELETE("/doctors/:id", doctorHandler.Delete, can(middleware.CapCatalogManage))

	admin.GET("/tests", testHandler.ListAll, can(middleware.CapCatalogManage))
	admin.POST("/tests", testHandler.Create, can(middleware.CapCatalogManage))
	admin.PUT("/tests/:id", testHandler.Update, can(middleware.CapCatalogManage))
	admin.DELETE("/tests/:id", testHandler.Delete, can(middleware.CapCatalogManage))

	admin.GET("/appointments", appointmentHandler.List, can(middleware.CapAppointmentsManage))
	admin.POST("/appointments", appointmentHandler.AdminCreate, can(middleware.CapAppointmentsManage))
	admin.PUT("/appointments/:id", appointmentHandler.Update, can(middleware.CapAppointmentsManage))
	admin.DELETE("/appointments/:id", appointmentHandler.Delete, can(middleware.CapAppointmentsManage))
	admin.PUT("/appointments/:id/status", appointmentHandler.UpdateStatus, can(middleware.CapAppointmentsManage))

	// --- Support ---
	api.POST("/support/contact", supportHandler.Contact)
}
