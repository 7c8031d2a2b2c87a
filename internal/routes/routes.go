package routes

import (
	stream "github.com/GetStream/stream-chat-go/v6"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-server/internal/appointments"
	"telehealth-server/internal/config"
	"telehealth-server/internal/handlers"
	"telehealth-server/internal/middleware"
	"telehealth-server/internal/models"
	"telehealth-server/internal/notify"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, streamClient *stream.Client) {
	// The appointment lifecycle core with its MySQL-backed collaborators.
	service := appointments.NewService(
		appointments.NewGormStore(db),
		appointments.NewGormDirectory(db),
		appointments.NewGormMedicalRecorder(db),
	)
	mailer := notify.NewSender(cfg.Mailer)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, mailer)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(service)
	doctorHandler := handlers.NewDoctorHandler(service)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(db)
	streamHandler := handlers.NewStreamHandler(db, streamClient)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
			authRoutes.GET("/verify", authHandler.VerifyAccount)
		}

		// Doctor directory is browsable without an account
		public.GET("/doctors", doctorHandler.GetDoctors)
		public.GET("/doctors/:id", doctorHandler.GetDoctorByID)
		public.GET("/specializations", doctorHandler.GetSpecializations)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg)) // Apply JWT authentication middleware
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User administration (admin only)
		userRoutes := private.Group("/users")
		userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			userRoutes.POST("", userHandler.CreateUser)
			userRoutes.GET("", userHandler.GetUsers)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.PUT("/:id", userHandler.UpdateUser)
			userRoutes.PATCH("/:id/verify", userHandler.VerifyDoctor)
			userRoutes.PATCH("/:id/deactivate", userHandler.DeactivateUser)
		}

		// Appointment lifecycle
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetMyAppointments)
			appointmentRoutes.GET("/stats", appointmentHandler.GetStats)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Transitions and cancellation authorize inside the core
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)

			// Doctor-authored clinical data
			appointmentRoutes.POST("/:id/prescription", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.AddPrescription)
			appointmentRoutes.POST("/:id/vital-signs", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.AddVitalSigns)

			// Patient rating
			appointmentRoutes.POST("/:id/rate", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.RateAppointment)
		}

		// Medical records
		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.CreateMedicalRecord)
			medicalRecordRoutes.GET("/patient/:patientId", medicalRecordHandler.GetMedicalRecordsForPatient)
			medicalRecordRoutes.GET("/:id", medicalRecordHandler.GetMedicalRecordByID)
		}

		// Chat/video session bootstrap (Stream)
		private.GET("/stream/token", streamHandler.GetToken)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
