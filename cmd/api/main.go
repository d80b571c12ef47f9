package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tilinsmath/tuition-api/internal/config"
	"github.com/tilinsmath/tuition-api/internal/database"
	"github.com/tilinsmath/tuition-api/internal/handler"
	"github.com/tilinsmath/tuition-api/internal/middleware"
	"github.com/tilinsmath/tuition-api/internal/models"
	"github.com/tilinsmath/tuition-api/internal/realtime"
	"github.com/tilinsmath/tuition-api/internal/repository"
	"github.com/tilinsmath/tuition-api/internal/router"
	"github.com/tilinsmath/tuition-api/internal/service"
	"github.com/tilinsmath/tuition-api/internal/utils"
	cloud "github.com/tilinsmath/tuition-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{}, &models.UserRole{},
		&models.Batch{}, &models.Student{}, &models.Class{},
		&models.Attendance{}, &models.Fee{},
		&models.Test{}, &models.TestMark{},
		&models.Task{}, &models.TaskSubmission{},
		&models.ClassNote{},
		&models.Event{}, &models.EventRegistration{},
		&models.Notification{}, &models.Testimonial{}, &models.DemoBooking{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := realtime.NewHub(redisClient, "tuition", natsConn, logger)
	hub.Start(hubCtx)

	profileRepo := repository.NewProfileRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	testRepo := repository.NewTestRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	eventRepo := repository.NewEventRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	testimonialRepo := repository.NewTestimonialRepository(db)
	demoRepo := repository.NewDemoBookingRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, studentRepo, roleRepo, validate, hub, logger)
	authService := service.NewAuthService(profileRepo, roleRepo, tokens, validate, logger)
	batchService := service.NewBatchService(batchRepo, validate, hub, logger)
	studentService := service.NewStudentService(studentRepo, profileRepo, roleRepo, batchRepo, validate, hub, logger)
	classService := service.NewClassService(classRepo, batchRepo, validate, hub, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, classRepo, studentRepo, validate, hub, logger)
	feeService := service.NewFeeService(feeRepo, studentRepo, validate, hub, logger)
	testService := service.NewTestService(testRepo, studentRepo, validate, notificationService, hub, logger)
	taskService := service.NewTaskService(taskRepo, validate, hub, logger)
	noteService := service.NewNoteService(noteRepo, classRepo, uploader, hub, logger)
	eventService := service.NewEventService(eventRepo, validate, hub, logger)
	testimonialService := service.NewTestimonialService(testimonialRepo, validate, logger)
	demoService := service.NewDemoService(demoRepo, notificationService, validate, logger)
	dashboardService := service.NewDashboardService(
		studentRepo, batchRepo, classRepo, attendanceRepo, testRepo, taskRepo,
		feeRepo, eventRepo, notificationRepo, demoRepo,
		redisClient, cfg.DashboardCacheTTL, logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		HealthHandler:       handler.NewHealthHandler(),
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		BatchHandler:        handler.NewBatchHandler(batchService, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, logger),
		ClassHandler:        handler.NewClassHandler(classService, logger),
		AttendanceHandler:   handler.NewAttendanceHandler(attendanceService, logger),
		FeeHandler:          handler.NewFeeHandler(feeService, logger),
		TestHandler:         handler.NewTestHandler(testService, logger),
		TaskHandler:         handler.NewTaskHandler(taskService, logger),
		NoteHandler:         handler.NewNoteHandler(noteService, logger),
		EventHandler:        handler.NewEventHandler(eventService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		TestimonialHandler:  handler.NewTestimonialHandler(testimonialService, logger),
		DemoHandler:         handler.NewDemoHandler(demoService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		StreamHandler:       handler.NewStreamHandler(hub, cfg.StreamKeepAlive, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		RoleChecker:         roleRepo,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopHub)
}

func waitForShutdown(app *fiber.App, stopHub context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
