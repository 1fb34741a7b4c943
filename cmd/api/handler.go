package api

import (
	authUsecase "pairdle-backend/internal/auth/usecase"
	gameUsecase "pairdle-backend/internal/game/usecase"
	"pairdle-backend/internal/realtime"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	puzzleUsecase gameUsecase.PuzzleUsecase
	hub           *realtime.Hub
}

func NewHandler(authUc authUsecase.AuthUsecase, puzzleUc gameUsecase.PuzzleUsecase, hub *realtime.Hub) *Handler {
	return &Handler{
		authUsecase:   authUc,
		puzzleUsecase: puzzleUc,
		hub:           hub,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.puzzleUsecase, h.hub)

	return r.Run(addr)
}
