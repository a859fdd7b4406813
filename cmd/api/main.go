package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"coachly_backend/internal/controller"
	"coachly_backend/internal/middleware"
	"coachly_backend/internal/model"
	"coachly_backend/pkg/config"
	"coachly_backend/pkg/cron"
	"coachly_backend/pkg/database"
	"coachly_backend/pkg/email"
	"coachly_backend/pkg/seed"
	"coachly_backend/pkg/subscription"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/register", controller.Register)
	auth.Post("/login", controller.Login)
	auth.Post("/request-reset", controller.RequestPasswordReset)
	auth.Post("/reset-password", controller.ResetPassword)

	// Public Course Routes
	publicCourses := api.Group("/c")
	publicCourses.Get("/:username", controller.ListCoachCourses)
	publicCourses.Get("/:username/:course_slug", controller.GetCourseBySlug)

	// Course view recording
	api.Post("/courses/:id/view", controller.RecordCourseView)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Protected Course Routes with subscription checks
	courses := protected.Group("/courses", middleware.RequireRole(model.RoleCoach))
	courses.Get("/my", controller.ListMyCourses)
	courses.Post("/", middleware.CheckCourseLimit(), controller.CreateCourse)
	courses.Put("/:id", middleware.CheckCourseOwnership(), controller.UpdateCourse)
	courses.Delete("/:id", middleware.CheckCourseOwnership(), controller.DeleteCourse)
	courses.Post("/:id/lessons", middleware.CheckCourseOwnership(), controller.AddLesson)
	courses.Delete("/lessons/:lesson_id", controller.DeleteLesson)
	courses.Get("/:id/students", middleware.CheckCourseOwnership(), controller.ListCourseStudents)

	// Uploads, gated by the tier's storage allowance
	courses.Post("/:course_id/cover", controller.UploadCourseCover)
	courses.Post("/:course_id/materials", middleware.CheckStorageLimit(), controller.UploadCourseMaterial)
	courses.Delete("/materials/:material_id", controller.DeleteCourseMaterial)

	// Enrollment routes (clients), gated by the course owner's student limit
	enrollments := api.Group("/enrollments", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleClient))
	enrollments.Post("/:course_id", middleware.CheckStudentLimit(), controller.Enroll)
	enrollments.Get("/my", controller.ListMyEnrollments)
	enrollments.Put("/:id/progress", controller.UpdateProgress)
	enrollments.Delete("/:id", controller.CancelEnrollment)

	// Dashboard routes, analytics is a paid-tier feature
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware(), middleware.RequireRole(model.RoleCoach))
	dashboard.Get("/stats", middleware.CheckFeatureAccess(subscription.Analytics), controller.GetDashboardStats)

	// Settings routes
	settings := api.Group("/settings", middleware.AuthMiddleware())
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Post("/avatar", controller.UploadAvatar)

	// Subscription routes
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/tiers", controller.ListTiers)

	subProtected := subscriptions.Use(middleware.AuthMiddleware())
	subProtected.Post("/start-trial", middleware.RequireRole(model.RoleCoach), controller.StartTrial)
	subProtected.Post("/subscribe", middleware.RequireRole(model.RoleCoach), controller.Subscribe)
	subProtected.Post("/cancel-subscription", controller.CancelSubscription)
	subProtected.Get("/my", controller.GetMySubscription)

	// Stripe webhook
	api.Post("/webhook", controller.HandleStripeWebhook)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	cfg := config.Load()

	if err := email.InitEmailService(os.Getenv("RESEND_API_KEY")); err != nil {
		log.Fatal("Could not initialize email service:", err)
	}

	controller.InitAuthController()
	controller.InitEnrollmentController()
	controller.InitSubscriptionController()
	cron.InitSubscriptionExpiryCron()
	cron.InitCourseStatsCron(email.GlobalEmailService)

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.LoginHistory{},
		&model.CoachSubscription{},
		&model.Course{},
		&model.Lesson{},
		&model.CourseMaterial{},
		&model.CourseView{},
		&model.CourseStats{},
		&model.Enrollment{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedAdminUser(database.GetDB())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Api-Key",
	}))

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
