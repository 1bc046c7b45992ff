package routes

import (
	"hicode-bloodlink/internal/adapters/http/handlers"
	"hicode-bloodlink/internal/adapters/http/middleware"
	"hicode-bloodlink/internal/adapters/persistence/repositories"
	"hicode-bloodlink/internal/config"
	"hicode-bloodlink/internal/core/domain"
	"hicode-bloodlink/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application and returns the cron
// service so main can start and stop it with the server lifecycle
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, otpService *services.OTPService) *services.CronService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bloodTypeRepo := repositories.NewBloodTypeRepository(db)
	donationRepo := repositories.NewDonationRepository(db)
	requestRepo := repositories.NewBloodRequestRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	blogRepo := repositories.NewBlogRepository(db)

	// Initialize services
	notifyService := services.NewNotificationService(cfg)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, otpService, notifyService, cfg)
	userService := services.NewUserService(userRepo, bloodTypeRepo)
	donationService := services.NewDonationService(donationRepo, userRepo, inventoryRepo, notifyService, cfg)
	requestService := services.NewBloodRequestService(requestRepo, donationRepo, userRepo, bloodTypeRepo, notifyService, cfg)
	bloodTypeService := services.NewBloodTypeService(bloodTypeRepo)
	inventoryService := services.NewInventoryService(inventoryRepo)
	blogService := services.NewBlogService(blogRepo)
	dashboardService := services.NewDashboardService(userRepo, donationRepo, requestRepo, inventoryRepo)

	cronService := services.NewCronService(donationRepo, userRepo, refreshTokenRepo, inventoryService, notifyService, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	donationHandler := handlers.NewDonationHandler(donationService)
	requestHandler := handlers.NewBloodRequestHandler(requestService)
	bloodTypeHandler := handlers.NewBloodTypeHandler(bloodTypeService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	blogHandler := handlers.NewBlogHandler(blogService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, cfg)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg)
	setupUserRoutes(apiV1.Group("/users"), userHandler, cfg)
	setupDonationRoutes(apiV1.Group("/donations"), donationHandler, cfg)
	setupBloodRequestRoutes(apiV1.Group("/blood-requests"), requestHandler, cfg)
	setupBloodTypeRoutes(apiV1.Group("/blood-types"), bloodTypeHandler, cfg)
	setupInventoryRoutes(apiV1.Group("/inventory"), inventoryHandler, cfg)
	setupBlogRoutes(apiV1.Group("/blog"), blogHandler, cfg)
	setupDashboardRoutes(apiV1.Group("/dashboard"), dashboardHandler, cfg)

	return cronService
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Token and OTP responses must never land in a shared cache
	router.Use(middleware.NoCacheHeaders())

	// Public routes. OTP and password reset get the strict limiter to slow
	// brute force; login gets the auth limiter.
	router.Post("/register", middleware.StrictRateLimiter(), handler.Register)
	router.Post("/verify", middleware.StrictRateLimiter(), handler.Verify)
	router.Post("/resend-otp", middleware.StrictRateLimiter(), handler.ResendOTP)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)
	router.Post("/forgot-password", middleware.StrictRateLimiter(), handler.ForgotPassword)
	router.Get("/validate-reset-token", handler.ValidateResetToken)
	router.Post("/reset-password", middleware.StrictRateLimiter(), handler.ResetPassword)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, cfg *config.Config) {
	router.Use(middleware.AuthMiddleware(cfg))

	// Self-service
	router.Put("/me", handler.UpdateProfile)
	router.Put("/me/password", handler.ChangePassword)

	// Staff/admin
	router.Get("/", middleware.RequirePermission(domain.PermUserViewAll), handler.ListUsers)
	router.Post("/", middleware.RequirePermission(domain.PermUserCreate), handler.CreateUser)
	router.Get("/donors/ready", middleware.RequirePermission(domain.PermUserViewAll), handler.ReadyDonors)
	router.Get("/:id", middleware.RequirePermission(domain.PermUserViewAll), handler.GetUser)
	router.Put("/:id", middleware.RequirePermission(domain.PermUserUpdate), handler.UpdateUser)
	router.Delete("/:id", middleware.RequirePermission(domain.PermUserDelete), handler.DeleteUser)
}

// setupDonationRoutes configures donation process routes
func setupDonationRoutes(router fiber.Router, handler *handlers.DonationHandler, cfg *config.Config) {
	router.Use(middleware.AuthMiddleware(cfg))

	// Donor routes
	router.Post("/", handler.CreateProcess)
	router.Get("/me", handler.ListMine)
	router.Get("/:id", handler.Get)
	router.Post("/:id/cancel", handler.Cancel)

	// Staff routes
	router.Get("/", middleware.RequirePermission(domain.PermDonationViewAll), handler.List)
	router.Post("/:id/approve", middleware.RequirePermission(domain.PermDonationApprove), handler.Approve)
	router.Post("/:id/reject", middleware.RequirePermission(domain.PermDonationApprove), handler.Reject)
	router.Post("/:id/schedule", middleware.RequirePermission(domain.PermDonationManage), handler.Schedule)
	router.Post("/:id/health-check", middleware.RequirePermission(domain.PermDonationUpdateStatus), handler.HealthCheck)
	router.Post("/:id/collect", middleware.RequirePermission(domain.PermDonationUpdateStatus), handler.Collect)
	router.Post("/:id/test-result", middleware.RequirePermission(domain.PermDonationUpdateStatus), handler.TestResult)
}

// setupBloodRequestRoutes configures emergency request routes
func setupBloodRequestRoutes(router fiber.Router, handler *handlers.BloodRequestHandler, cfg *config.Config) {
	// Active requests are public so the emergency board needs no login
	router.Get("/active", handler.ListActive)
	router.Get("/:id", handler.Get)

	router.Use(middleware.AuthMiddleware(cfg))

	router.Post("/:id/pledge", handler.Pledge)

	router.Post("/", middleware.RequirePermission(domain.PermBloodRequestCreate), handler.Create)
	router.Get("/", middleware.RequirePermission(domain.PermBloodRequestViewAll), handler.List)
	router.Get("/status/completed", middleware.RequirePermission(domain.PermBloodRequestViewAll), handler.ListCompleted)
	router.Patch("/:id/status", middleware.RequirePermission(domain.PermBloodRequestManageStatus), handler.UpdateStatus)
	router.Put("/:id", middleware.RequirePermission(domain.PermBloodRequestUpdate), handler.Update)
	router.Delete("/:id", middleware.RequirePermission(domain.PermBloodRequestDelete), handler.Delete)
}

// setupBloodTypeRoutes configures blood type master data routes. Reads are
// public and cacheable; staff may edit descriptions and the matrix.
func setupBloodTypeRoutes(router fiber.Router, handler *handlers.BloodTypeHandler, cfg *config.Config) {
	router.Get("/", middleware.MasterDataCache(), handler.List)
	router.Get("/compatibility", middleware.MasterDataCache(), handler.Matrix)
	router.Get("/:id", middleware.MasterDataCache(), handler.Get)
	router.Get("/:id/compatible-donors", middleware.MasterDataCache(), handler.CompatibleDonors)
	router.Get("/:id/compatible-recipients", middleware.MasterDataCache(), handler.CompatibleRecipients)

	router.Use(middleware.AuthMiddleware(cfg))
	router.Put("/compatibility", middleware.RequirePermission(domain.PermBloodCompatibilityManage), handler.SetCompatibility)
	router.Put("/:id", middleware.RequirePermission(domain.PermBloodTypeManage), handler.Update)
}

// setupInventoryRoutes configures blood inventory routes (staff)
func setupInventoryRoutes(router fiber.Router, handler *handlers.InventoryHandler, cfg *config.Config) {
	router.Use(middleware.AuthMiddleware(cfg))

	router.Get("/", middleware.RequirePermission(domain.PermInventoryView), handler.List)
	router.Get("/summary", middleware.RequirePermission(domain.PermInventoryView), handler.Summary)
	router.Get("/:id", middleware.RequirePermission(domain.PermInventoryView), handler.Get)
	router.Post("/:id/dispense", middleware.RequirePermission(domain.PermInventoryUpdate), handler.Dispense)
}

// setupBlogRoutes configures blog routes
func setupBlogRoutes(router fiber.Router, handler *handlers.BlogHandler, cfg *config.Config) {
	// Public
	router.Get("/", handler.ListPublished)

	// Staff management routes sit under /manage so the public :id route
	// does not swallow them
	manage := router.Group("/manage")
	manage.Use(middleware.AuthMiddleware(cfg), middleware.StaffOrAdmin())
	manage.Get("/", handler.ListAll)
	manage.Post("/", handler.Create)
	manage.Put("/:id", handler.Update)
	manage.Delete("/:id", handler.Delete)

	router.Get("/:id", handler.GetPublished)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler, cfg *config.Config) {
	router.Use(middleware.AuthMiddleware(cfg))

	router.Get("/me", handler.MemberDashboard)
	router.Get("/admin", middleware.RequirePermission(domain.PermReportsView), handler.AdminDashboard)
}
