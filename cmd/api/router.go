package api

import (
	"net/http"

	"pairdle-backend/internal/auth/delivery"
	authUsecase "pairdle-backend/internal/auth/usecase"
	gameDelivery "pairdle-backend/internal/game/delivery"
	gameUsecase "pairdle-backend/internal/game/usecase"
	"pairdle-backend/internal/realtime"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, puzzleUc gameUsecase.PuzzleUsecase, hub *realtime.Hub) {
	authHandler := delivery.NewAuthHandler(authUc)
	puzzleHandler := gameDelivery.NewPuzzleHandler(puzzleUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Websocket change feed
		api.GET("/feed", delivery.AuthMiddleware(authUc), func(c *gin.Context) {
			userID := c.GetString("userID")
			hub.ServeWS(c.Writer, c.Request, userID)
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUc), authHandler.Me)
		}

		// Push subscription routes (protected)
		push := api.Group("/push")
		push.Use(delivery.AuthMiddleware(authUc))
		{
			push.POST("/subscribe", authHandler.Subscribe)
			push.DELETE("/subscriptions/:id", authHandler.Unsubscribe)
		}

		// Puzzle routes (protected)
		puzzles := api.Group("/puzzles")
		puzzles.Use(delivery.AuthMiddleware(authUc))
		{
			puzzles.POST("", puzzleHandler.CreatePuzzle)
			puzzles.GET("/today", puzzleHandler.GetToday)
			puzzles.POST("/:id/guesses", puzzleHandler.SubmitGuess)
			puzzles.POST("/:id/message/request", puzzleHandler.RequestMessage)
			puzzles.POST("/:id/message/reveal", puzzleHandler.RevealMessage)
			puzzles.POST("/:id/message/viewed", puzzleHandler.MarkMessageViewed)
			puzzles.PUT("/:id/favorite", puzzleHandler.Favorite)
			puzzles.DELETE("/:id/favorite", puzzleHandler.Unfavorite)
		}

		// Favorites (protected)
		api.GET("/favorites", delivery.AuthMiddleware(authUc), puzzleHandler.ListFavorites)
	}
}
