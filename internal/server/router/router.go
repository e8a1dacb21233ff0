package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/server/handlers"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Lofts     *handlers.LoftHandler
	Birds     *handlers.BirdHandler
	Tasks     *handlers.TaskHandler
	Nutrition *handlers.NutritionHandler
	Breeding  *handlers.BreedingHandler
	Inventory *handlers.InventoryHandler
	Dashboard *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, tokens handlers.TokenParser, cookieName string, logger *zap.Logger) *gin.Engine {
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", h.Health.Check)

	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)
	r.POST("/auth/logout", h.Auth.Logout)

	api := r.Group("/", handlers.RequireAuth(tokens, cookieName))
	api.GET("/auth/profile", h.Auth.Profile)

	lofts := api.Group("/lofts")
	lofts.GET("", h.Lofts.List)
	lofts.POST("", h.Lofts.Create)
	lofts.GET("/my-loft", h.Lofts.Mine)
	lofts.GET("/:id", h.Lofts.Get)
	lofts.PATCH("/:id", h.Lofts.Update)
	lofts.DELETE("/:id", h.Lofts.Delete)

	birds := api.Group("/birds")
	birds.GET("", h.Birds.List)
	birds.POST("", h.Birds.Create)
	birds.GET("/stats", h.Birds.Stats)
	birds.GET("/:id", h.Birds.Get)
	birds.PATCH("/:id", h.Birds.Update)
	birds.DELETE("/:id", h.Birds.Delete)

	tasks := api.Group("/tasks")
	tasks.GET("", h.Tasks.List)
	tasks.POST("", h.Tasks.Create)
	tasks.POST("/complete", h.Tasks.Complete)
	tasks.DELETE("/complete", h.Tasks.Uncomplete)
	tasks.GET("/:id", h.Tasks.Get)
	tasks.PATCH("/:id", h.Tasks.Update)
	tasks.DELETE("/:id", h.Tasks.Delete)

	nutrition := api.Group("/nutrition")
	nutrition.GET("/feeding-plans", h.Nutrition.ListFeedingPlans)
	nutrition.POST("/feeding-plans", h.Nutrition.CreateFeedingPlan)
	nutrition.PATCH("/feeding-plans/:id", h.Nutrition.UpdateFeedingPlan)
	nutrition.DELETE("/feeding-plans/:id", h.Nutrition.DeleteFeedingPlan)
	nutrition.GET("/supplements", h.Nutrition.ListSupplements)
	nutrition.POST("/supplements", h.Nutrition.CreateSupplement)
	nutrition.PATCH("/supplements/:id", h.Nutrition.UpdateSupplement)
	nutrition.DELETE("/supplements/:id", h.Nutrition.DeleteSupplement)
	nutrition.GET("/water-schedules", h.Nutrition.ListWaterSchedules)
	nutrition.POST("/water-schedules", h.Nutrition.CreateWaterSchedule)
	nutrition.PATCH("/water-schedules/:id", h.Nutrition.UpdateWaterSchedule)
	nutrition.DELETE("/water-schedules/:id", h.Nutrition.DeleteWaterSchedule)

	breeding := api.Group("/breeding")
	breeding.GET("/pairings", h.Breeding.ListPairings)
	breeding.POST("/pairings", h.Breeding.CreatePairing)
	breeding.PATCH("/pairings/:id", h.Breeding.UpdatePairing)
	breeding.DELETE("/pairings/:id", h.Breeding.DeletePairing)
	breeding.GET("/pairings/:id/eggs", h.Breeding.ListEggs)
	breeding.POST("/pairings/:id/eggs", h.Breeding.AddEgg)
	breeding.PATCH("/eggs/:id", h.Breeding.UpdateEgg)

	inventory := api.Group("/inventory")
	inventory.GET("", h.Inventory.List)
	inventory.POST("", h.Inventory.Create)
	inventory.GET("/:id", h.Inventory.Get)
	inventory.PATCH("/:id", h.Inventory.Update)
	inventory.DELETE("/:id", h.Inventory.Delete)

	api.GET("/dashboard", h.Dashboard.Summary)

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := c.GetString(handlers.UserIDKey); id != "" {
			fields = append(fields, zap.String("user_id", id))
		}
		logger.Info("request completed", fields...)
	}
}
