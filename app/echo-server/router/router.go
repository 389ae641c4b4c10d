package router

import (
	"mealmind/internal/middleware"
	"mealmind/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())
	reco.GET("", handler.Get)
}

func SetInteractionRoutes(api *echo.Group, handler *rest.InteractionHandler) {
	interactions := api.Group("/interactions", middleware.AuthMiddleware())
	interactions.POST("", handler.Track)
}

func SetTrendRoutes(api *echo.Group, handler *rest.TrendHandler, adminOnly echo.MiddlewareFunc) {
	trends := api.Group("/trends", middleware.AuthMiddleware())
	trends.GET("", handler.Daily)
	trends.GET("/seasonal", handler.Seasonal)
	trends.GET("/spikes", handler.Spikes, adminOnly)
}

func SetExperimentRoutes(api *echo.Group, handler *rest.ExperimentHandler, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/experiments", middleware.AuthMiddleware(), adminOnly)

	admin.POST("", handler.Create)
	admin.GET("", handler.List)
	admin.GET("/:id/results", handler.Results)
	admin.POST("/:id/stop", handler.Stop)
}

func SetBatchRoutes(api *echo.Group, handler *rest.BatchHandler, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin/batch", middleware.AuthMiddleware(), adminOnly)

	admin.POST("/trends", handler.RecomputeTrends)
	admin.POST("/similarity", handler.RefreshSimilarity)
	admin.POST("/model", handler.TrainModel)
}
