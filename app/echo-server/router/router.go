package router

import (
	"caseAssist/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired echo.MiddlewareFunc) {
	authGroup := api.Group("/auth")

	authGroup.POST("/token", handler.Login)
	authGroup.POST("/logout", handler.Logout, authRequired)
}

func SetupClientRoutes(api *echo.Group, handler *rest.ClientHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	clients := api.Group("/clients", authRequired)

	clients.GET("", handler.GetClients, adminOnly)
	clients.POST("", handler.CreateClient)

	// static segments before /:id
	clients.GET("/search/by-criteria", handler.SearchByCriteria, adminOnly)
	clients.GET("/search/by-services", handler.SearchByServices, adminOnly)
	clients.GET("/search/success-rate", handler.GetClientsBySuccessRate, adminOnly)
	clients.GET("/case-worker/:case_worker_id", handler.GetClientsByCaseWorker)

	clients.GET("/:id", handler.GetClient, adminOnly)
	clients.PUT("/:id", handler.UpdateClient, adminOnly)
	clients.DELETE("/:id", handler.DeleteClient, adminOnly)

	clients.GET("/:id/services", handler.GetClientServices, adminOnly)
	clients.PUT("/:id/services/:user_id", handler.UpdateClientServices)
	clients.POST("/:id/case-assignment", handler.CreateCaseAssignment, adminOnly)
	clients.POST("/:id/outcomes", handler.RecordOutcome)
	clients.GET("/:id/recommendations", handler.Recommend)
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", authRequired)
	reco.POST("", handler.Recommend)
}

func SetupModelRoutes(api *echo.Group, handler *rest.ModelHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	models := api.Group("/models", authRequired, adminOnly)

	models.GET("", handler.List)
	models.GET("/current", handler.Current)
	models.GET("/status", handler.Status)
	models.POST("/retrain", handler.Retrain)
	models.POST("/switch/:version", handler.Switch)
}

func SetupHealthRoutes(e *echo.Echo, handler *rest.HealthHandler) {
	e.GET("/health", handler.Health)
	e.GET("/api/v1/health", handler.Health)
}
