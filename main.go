package main

import (
	"context"
	"errors"
	"log"

	api "famtask-backend/cmd/api"
	famdomain "famtask-backend/internal/family/domain"
	famRepo "famtask-backend/internal/family/repository"
	famUsecase "famtask-backend/internal/family/usecase"
	"famtask-backend/internal/ingest"
	"famtask-backend/internal/location"
	"famtask-backend/internal/notify"
	"famtask-backend/internal/reminder"
	taskdomain "famtask-backend/internal/task/domain"
	taskRepo "famtask-backend/internal/task/repository"
	taskUsecase "famtask-backend/internal/task/usecase"
	"famtask-backend/pkg/config"
	"famtask-backend/pkg/database"
	"famtask-backend/pkg/fcm"

	"github.com/gin-gonic/gin"
)

// taskGenerationsAdapter exposes the task repository to the dispatcher
// through its narrow staleness-check interface
type taskGenerationsAdapter struct {
	repo taskRepo.TaskRepository
}

func (a *taskGenerationsAdapter) SchedulingGeneration(taskID string) (int64, error) {
	task, err := a.repo.FindByID(taskID)
	if err != nil {
		return 0, err
	}
	if task == nil {
		return 0, errors.New("task not found")
	}
	return task.SchedulingGeneration, nil
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&famdomain.Family{}, &famdomain.Member{}, &famdomain.DeviceToken{}, &taskdomain.Task{}, &notify.ScheduledNotification{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	familyRepository := famRepo.NewFamilyRepository(db)
	memberRepository := famRepo.NewMemberRepository(db)
	deviceTokenRepository := famRepo.NewDeviceTokenRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)
	notifyRepository := notify.NewRepository(db)

	// Initialize FCM client (optional; dispatch is disabled without it)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		}
	} else {
		log.Printf("[WARN] No Firebase credentials configured, FCM disabled")
	}

	// Notification service + dispatch loop
	notifyService := notify.NewService(notifyRepository)
	dispatcher := notify.NewDispatcher(notifyRepository, deviceTokenRepository, fcmClient, &taskGenerationsAdapter{repo: taskRepository}, cfg.DispatchInterval)
	dispatcher.Start()

	// Reminder engine
	scheduler := reminder.NewScheduler(notifyService, taskRepository)
	completionDispatcher := reminder.NewCompletionDispatcher(notifyService, memberRepository, cfg.SettlingDelay)
	deliveryGuard := reminder.NewDeliveryGuard()

	resyncJob, err := reminder.NewResyncJob(cfg.ResyncCron, taskRepository, scheduler)
	if err != nil {
		log.Fatal("Invalid resync cron spec:", err)
	}
	resyncJob.Start()

	// Location tracking
	deviceFeed := location.NewDeviceFeed()
	coordinator := location.NewCoordinator(deviceFeed, notifyService)

	// Initialize use cases (dependency injection)
	familyUsecaseInstance := famUsecase.NewFamilyUsecase(familyRepository, memberRepository, deviceTokenRepository, cfg)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository, memberRepository, scheduler, completionDispatcher, coordinator, cfg.SnoozeInterval)

	// Device event intake (Pub/Sub); only start if project ID is configured
	if cfg.GoogleProjectID != "" {
		ingestService, err := ingest.NewService(cfg.GoogleProjectID, cfg.PubSubTopic, cfg.GoogleCredentials, deliveryGuard, memberRepository, taskRepository, taskUsecaseInstance, coordinator, deviceFeed)
		if err != nil {
			log.Printf("[ERROR] Failed to initialize device event intake: %v", err)
		} else {
			go ingestService.Start(context.Background())
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, device event intake disabled")
	}

	// HTTP server
	r := gin.Default()
	api.SetupRoutes(r, familyUsecaseInstance, taskUsecaseInstance, notifyService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
