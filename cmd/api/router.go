package api

import (
	"net/http"

	famDelivery "famtask-backend/internal/family/delivery"
	famUsecase "famtask-backend/internal/family/usecase"
	"famtask-backend/internal/notify"
	taskDelivery "famtask-backend/internal/task/delivery"
	taskUsecasePkg "famtask-backend/internal/task/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, familyUsecase famUsecase.FamilyUsecase, taskUsecase taskUsecasePkg.TaskUsecase, notifySvc notify.Service) {
	familyHandler := famDelivery.NewFamilyHandler(familyUsecase)
	taskHandler := taskDelivery.NewTaskHandler(taskUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", familyHandler.Register)
			auth.POST("/join", familyHandler.Join)
			auth.POST("/login", familyHandler.Login)
			auth.GET("/me", famDelivery.AuthMiddleware(familyUsecase), familyHandler.Me)
		}

		// FCM routes (protected)
		fcm := api.Group("/fcm")
		fcm.Use(famDelivery.AuthMiddleware(familyUsecase))
		{
			fcm.POST("/register", familyHandler.RegisterDeviceToken)
			fcm.DELETE("/:token", familyHandler.UnregisterDeviceToken)
		}

		// Family routes (protected)
		family := api.Group("/family")
		family.Use(famDelivery.AuthMiddleware(familyUsecase))
		{
			family.GET("", familyHandler.GetFamily)
			family.GET("/members", familyHandler.ListMembers)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(famDelivery.AuthMiddleware(familyUsecase))
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
			tasks.POST("/:id/snooze", taskHandler.SnoozeTask)
		}

		// Scheduled notification inspection (protected)
		notifications := api.Group("/notifications")
		notifications.Use(famDelivery.AuthMiddleware(familyUsecase))
		{
			notifications.GET("/scheduled", func(c *gin.Context) {
				scheduled, err := notifySvc.ListScheduled(c.Request.Context())
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusOK, gin.H{"notifications": scheduled})
			})
		}
	}
}
