package router

import (
	"time"

	"carelink/config"
	"carelink/internal/domain"
	"carelink/internal/handler"
	"carelink/internal/middleware"
	"carelink/internal/repository"
	"carelink/internal/service"
	"carelink/internal/ws"
	"carelink/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	careLogRepo := repository.NewCareLogRepository(db)
	patientRepo := repository.NewPatientRepository(db)

	hub := ws.NewHub()
	chatHub := ws.NewChatHub()

	// Services
	walletSvc := service.NewWalletService(cfg, walletRepo, jobRepo, hub)
	authSvc := service.NewAuthService(cfg, profileRepo, walletSvc)
	marketplaceSvc := service.NewMarketplaceService(jobRepo, appRepo, chatRepo, hub)
	assignmentSvc := service.NewAssignmentService(jobRepo, appRepo, chatRepo, hub)
	chatSvc := service.NewChatService(chatRepo, jobRepo, appRepo, profileRepo, hub, chatHub)
	attendanceSvc := service.NewAttendanceService(jobRepo, cloud, hub)
	reportSvc := service.NewReportService(cfg, careLogRepo, jobRepo, cloud, hub)
	kycSvc := service.NewKYCService(profileRepo, cloud, hub)
	registrationSvc := service.NewRegistrationService(serviceRepo, profileRepo, chatRepo, hub)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	profileHandler := handler.NewProfileHandler(profileRepo, chatSvc)
	jobHandler := handler.NewJobHandler(jobRepo, patientRepo, chatRepo, hub)
	marketplaceHandler := handler.NewMarketplaceHandler(marketplaceSvc, profileRepo)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, jobRepo)
	chatHandler := handler.NewChatHandler(chatSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	reportHandler := handler.NewReportHandler(reportSvc, jobRepo)
	kycHandler := handler.NewKYCHandler(kycSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	serviceHandler := handler.NewServiceHandler(serviceRepo, hub)
	patientHandler := handler.NewPatientHandler(patientRepo)
	adminHandler := handler.NewAdminHandler(profileRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)
	customerMw := middleware.RequireRole(domain.RoleCustomer)
	staffMw := middleware.RequireRole(domain.RoleStaff)
	adminMw := middleware.AdminRequired()

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
			authGroup.POST("/google/token", googleOAuthHandler.TokenSignIn)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", profileHandler.Me)
			me.PATCH("/profile", profileHandler.UpdateMe)
			me.GET("/referral-code", profileHandler.MyReferralCode)
		}

		api.GET("/services", serviceHandler.List)

		jobs := api.Group("/jobs")
		jobs.Use(authMw)
		{
			jobs.POST("", customerMw, jobHandler.Create)
			jobs.GET("/mine", customerMw, jobHandler.ListMine)
			jobs.GET("/unpaid", customerMw, jobHandler.ListUnpaid)
			jobs.GET("/assigned", staffMw, jobHandler.ListAssigned)
			jobs.GET("/:id", jobHandler.Get)
			jobs.GET("/:id/applicants", assignmentHandler.ListApplicants)
			jobs.POST("/:id/approve", assignmentHandler.Approve)
			jobs.POST("/:id/apply", staffMw, marketplaceHandler.Apply)
			jobs.POST("/:id/attendance", staffMw, attendanceHandler.Record)
			jobs.POST("/:id/pay", customerMw, walletHandler.Pay)
			jobs.GET("/:id/reports", reportHandler.ListByJob)
		}

		marketplace := api.Group("/marketplace")
		marketplace.Use(authMw, staffMw)
		{
			marketplace.GET("/jobs", marketplaceHandler.ListOpen)
			marketplace.GET("/applications", marketplaceHandler.MyApplications)
		}

		chat := api.Group("/chat")
		chat.Use(authMw)
		{
			chat.POST("/messages", chatHandler.Send)
			chat.GET("/threads/:jobID/:userID", chatHandler.Thread)
			chat.GET("/support", chatHandler.SupportThread)
			chat.GET("/unread", chatHandler.UnreadCount)
		}

		wallet := api.Group("/wallet")
		wallet.Use(authMw)
		{
			wallet.GET("/balance", walletHandler.Balance)
			wallet.GET("/transactions", walletHandler.History)
			wallet.POST("/deposit", walletHandler.Deposit)
		}

		reports := api.Group("/reports")
		reports.Use(authMw, staffMw)
		{
			reports.POST("", reportHandler.Submit)
			reports.GET("/mine", reportHandler.MyReports)
		}

		kyc := api.Group("/kyc")
		kyc.Use(authMw, staffMw)
		{
			kyc.POST("/documents", kycHandler.Submit)
		}

		registrations := api.Group("/registrations")
		registrations.Use(authMw, staffMw)
		{
			registrations.POST("", registrationHandler.Register)
			registrations.GET("/mine", registrationHandler.ListMine)
		}

		patients := api.Group("/patients")
		patients.Use(authMw, customerMw)
		{
			patients.POST("", patientHandler.Create)
			patients.GET("", patientHandler.List)
			patients.PUT("/:id", patientHandler.Update)
			patients.DELETE("/:id", patientHandler.Delete)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)

			admin.GET("/jobs", jobHandler.AdminList)
			admin.PATCH("/jobs/:id/read", jobHandler.AdminMarkRead)
			admin.POST("/jobs/:id/reply", jobHandler.AdminReply)
			admin.PATCH("/jobs/:id/price", jobHandler.AdminSetPrice)
			admin.DELETE("/jobs/:id", jobHandler.AdminDelete)

			admin.GET("/chat/inbox", chatHandler.AdminInbox)
			admin.GET("/chat/support", chatHandler.AdminSupportChannel)

			admin.POST("/wallet/bonus", walletHandler.GrantBonus)

			admin.GET("/kyc/pending", kycHandler.AdminListPending)
			admin.POST("/kyc/:id/review", kycHandler.AdminReview)

			admin.GET("/registrations", registrationHandler.AdminListAll)
			admin.GET("/registrations/pending", registrationHandler.AdminListPending)
			admin.POST("/registrations/:id/decision", registrationHandler.AdminDecide)

			admin.POST("/services", serviceHandler.AdminCreate)
			admin.PUT("/services/:id", serviceHandler.AdminUpdate)
			admin.DELETE("/services/:id", serviceHandler.AdminDelete)

			admin.GET("/reports", reportHandler.AdminList)
		}

		// WebSocket endpoints authenticate via token query param.
		api.GET("/ws/notifications", ws.UpgradeNotifyWS(&cfg.JWT, hub))
		api.GET("/ws/chat/:jobID", ws.UpgradeChatWS(&cfg.JWT, chatHub, jobRepo, appRepo))
	}

	return r
}
