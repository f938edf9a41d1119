package api

import (
	"coachdesk/coach-admin/internal/domain"
	"coachdesk/coach-admin/internal/service"
	"coachdesk/coach-admin/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	clientService service.ClientService,
	catalogService service.CatalogService,
	reconService service.ReconciliationService,
	calendarService service.CalendarService,
	archive storage.ArchiveStore,
) {
	authHandler := NewAuthHandler(authService)
	clientHandler := NewClientHandler(clientService)
	configHandler := NewConfigHandler(catalogService)
	scheduleHandler := NewScheduleHandler(reconService)
	calendarHandler := NewCalendarHandler(calendarService)
	archiveHandler := NewArchiveHandler(archive)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Client Roster ---
		clientGroup := protected.Group("/clients")
		{
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.GET("/:clientId", clientHandler.GetClient)
			clientGroup.PUT("/:clientId", clientHandler.UpdateClient)
			clientGroup.DELETE("/:clientId", RoleMiddleware(domain.RoleCoach), clientHandler.DeleteClient)

			// --- Schedule (per client) ---
			clientGroup.GET("/:clientId/program", scheduleHandler.GetProgram)
			clientGroup.POST("/:clientId/periods", scheduleHandler.AssignPeriod)
			clientGroup.DELETE("/:clientId/periods", RoleMiddleware(domain.RoleCoach), scheduleHandler.ClearAllPeriods)
			clientGroup.POST("/:clientId/schedule/move", scheduleHandler.MoveDay)
			clientGroup.DELETE("/:clientId/schedule/day", scheduleHandler.RemoveDay)
			clientGroup.GET("/:clientId/workouts", scheduleHandler.ListWorkouts)
		}

		// --- Schedule (per program/period) ---
		programGroup := protected.Group("/programs")
		{
			programGroup.DELETE("/:programId/periods/:periodId", scheduleHandler.DeletePeriod)
			programGroup.PUT("/:programId/periods/:periodId/week-template", scheduleHandler.ApplyWeekTemplate)
		}

		// --- Configuration Catalog ---
		configGroup := protected.Group("/config")
		{
			configGroup.POST("/periods", configHandler.CreatePeriodConfig)
			configGroup.GET("/periods", configHandler.ListPeriodConfigs)
			configGroup.PUT("/periods/:id", configHandler.UpdatePeriodConfig)
			configGroup.DELETE("/periods/:id", configHandler.DeletePeriodConfig)

			configGroup.POST("/categories", configHandler.CreateCategory)
			configGroup.GET("/categories", configHandler.ListCategories)
			configGroup.PUT("/categories/:id", configHandler.UpdateCategory)
			configGroup.DELETE("/categories/:id", configHandler.DeleteCategory)

			configGroup.POST("/week-templates", configHandler.CreateWeekTemplate)
			configGroup.GET("/week-templates", configHandler.ListWeekTemplates)
			configGroup.PUT("/week-templates/:id", configHandler.UpdateWeekTemplate)
			configGroup.DELETE("/week-templates/:id", configHandler.DeleteWeekTemplate)

			configGroup.POST("/movements", configHandler.CreateMovement)
			configGroup.GET("/movements", configHandler.ListMovements)
			configGroup.PUT("/movements/:id", configHandler.UpdateMovement)
			configGroup.DELETE("/movements/:id", configHandler.DeleteMovement)

			configGroup.POST("/workout-templates", configHandler.CreateWorkoutTemplate)
			configGroup.GET("/workout-templates", configHandler.ListWorkoutTemplates)
			configGroup.PUT("/workout-templates/:id", configHandler.UpdateWorkoutTemplate)
			configGroup.DELETE("/workout-templates/:id", configHandler.DeleteWorkoutTemplate)
		}

		// --- Archive Snapshots (manual recovery) ---
		archiveGroup := protected.Group("/archive")
		archiveGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			archiveGroup.GET("/snapshot-url", archiveHandler.GetSnapshotURL)
			archiveGroup.DELETE("/snapshot", archiveHandler.DeleteSnapshot)
		}

		// --- Calendar Events ---
		calendarGroup := protected.Group("/calendar/events")
		{
			calendarGroup.GET("", calendarHandler.ListEvents)
			calendarGroup.POST("", calendarHandler.CreateEvent)
			calendarGroup.DELETE("/:id", calendarHandler.DeleteEvent)
			calendarGroup.POST("/:id/assign", calendarHandler.AssignEvent)
			calendarGroup.POST("/:id/unassign", calendarHandler.UnassignEvent)
		}
	}
}
