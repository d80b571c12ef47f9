package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tilinsmath/tuition-api/internal/config"
	"github.com/tilinsmath/tuition-api/internal/handler"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	HealthHandler       *handler.HealthHandler
	AuthHandler         *handler.AuthHandler
	BatchHandler        *handler.BatchHandler
	StudentHandler      *handler.StudentHandler
	ClassHandler        *handler.ClassHandler
	AttendanceHandler   *handler.AttendanceHandler
	FeeHandler          *handler.FeeHandler
	TestHandler         *handler.TestHandler
	TaskHandler         *handler.TaskHandler
	NoteHandler         *handler.NoteHandler
	EventHandler        *handler.EventHandler
	NotificationHandler *handler.NotificationHandler
	TestimonialHandler  *handler.TestimonialHandler
	DemoHandler         *handler.DemoHandler
	DashboardHandler    *handler.DashboardHandler
	StreamHandler       *handler.StreamHandler

	JWTMiddleware fiber.Handler
	RoleChecker   middleware.RoleChecker
}

// Register wires the HTTP routes into the fiber application. Routes are
// grouped by the role that may reach them; the same handler method can
// serve several groups under different prefixes.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	deps.HealthHandler.Register(api)
	api.Get("/metrics", observability.MetricsHandler())

	// Public surface: marketing testimonials and demo bookings.
	deps.TestimonialHandler.RegisterPublic(api)
	deps.DemoHandler.RegisterPublic(api)

	auth := api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute))
	deps.AuthHandler.Register(auth)

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Any authenticated user.
	authed := api.Group("", jwtMiddleware)
	deps.AuthHandler.RegisterProtected(authed.Group("/auth"))
	deps.NotificationHandler.RegisterSelf(authed)
	deps.StreamHandler.Register(authed)

	admin := authed.Group("/admin", middleware.RequireRole(deps.RoleChecker, models.RoleAdmin))
	deps.AuthHandler.RegisterAdmin(admin)
	deps.BatchHandler.RegisterAdmin(admin)
	deps.StudentHandler.RegisterAdmin(admin)
	deps.ClassHandler.RegisterStaff(admin)
	deps.AttendanceHandler.RegisterStaff(admin)
	deps.FeeHandler.RegisterAdmin(admin)
	deps.TestHandler.RegisterStaff(admin)
	deps.TaskHandler.RegisterStaff(admin)
	deps.NoteHandler.RegisterStaff(admin)
	deps.EventHandler.RegisterAdmin(admin)
	deps.NotificationHandler.RegisterAdmin(admin)
	deps.TestimonialHandler.RegisterAdmin(admin)
	deps.DemoHandler.RegisterAdmin(admin)
	deps.DashboardHandler.RegisterAdmin(admin)

	teacher := authed.Group("/teacher", middleware.RequireRole(deps.RoleChecker, models.RoleAdmin, models.RoleTeacher))
	deps.BatchHandler.RegisterTeacher(teacher)
	deps.StudentHandler.RegisterTeacher(teacher)
	deps.ClassHandler.RegisterStaff(teacher)
	deps.AttendanceHandler.RegisterStaff(teacher)
	deps.TestHandler.RegisterStaff(teacher)
	deps.TaskHandler.RegisterStaff(teacher)
	deps.NoteHandler.RegisterStaff(teacher)

	student := authed.Group("/student", middleware.RequireRole(deps.RoleChecker, models.RoleStudent))
	deps.ClassHandler.RegisterStudent(student)
	deps.AttendanceHandler.RegisterStudent(student)
	deps.FeeHandler.RegisterStudent(student)
	deps.TestHandler.RegisterStudent(student)
	deps.TaskHandler.RegisterStudent(student)
	deps.NoteHandler.RegisterStudent(student)
	deps.EventHandler.RegisterStudent(student)
	deps.DashboardHandler.RegisterStudent(student)

	parent := authed.Group("/parent", middleware.RequireRole(deps.RoleChecker, models.RoleParent))
	deps.StudentHandler.RegisterParent(parent)
	deps.AttendanceHandler.RegisterParent(parent)
	deps.FeeHandler.RegisterParent(parent)
	deps.TestHandler.RegisterParent(parent)
	deps.DashboardHandler.RegisterParent(parent)
}
