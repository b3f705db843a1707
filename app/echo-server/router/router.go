package router

import (
	"tuvino/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/me", handler.GetProfile, authRequired)
	users.POST("/onboarding", handler.CompleteOnboarding, authRequired)
	users.GET("/preferences", handler.GetPreferences, authRequired)
	users.PUT("/preferences", handler.UpdatePreferences, authRequired)
	users.DELETE("/:uid", handler.DeleteUser, authRequired, adminOnly)
}

func SetupWineRoutes(api *echo.Group, wineHandler *rest.WineHandler, ratingHandler *rest.RatingHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	wines := api.Group("/wines")

	wines.GET("", wineHandler.Search, authRequired)
	wines.GET("/status", ratingHandler.TastedWines, authRequired)
	wines.GET("/favorites", wineHandler.GetFavorites, authRequired)
	wines.GET("/:id", wineHandler.GetByID, authRequired)
	wines.POST("/:id/favorite", wineHandler.AddFavorite, authRequired)
	wines.DELETE("/:id/favorite", wineHandler.RemoveFavorite, authRequired)

	wines.POST("", wineHandler.Create, authRequired, adminOnly)
	wines.PUT("/:id", wineHandler.Update, authRequired, adminOnly)
	wines.DELETE("/:id", wineHandler.Delete, authRequired, adminOnly)
}

func SetupRatingRoutes(api *echo.Group, handler *rest.RatingHandler, authRequired echo.MiddlewareFunc) {
	ratings := api.Group("/ratings", authRequired)

	ratings.POST("", handler.Rate)
	ratings.GET("/:id", handler.GetByWine)
	ratings.DELETE("/:id", handler.Delete)
}

func SetupRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler, authRequired echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", authRequired)
	reco.GET("", handler.Recommend)
}
