package delivery

import (
	"context"
	"errors"
	"net/http"

	authdomain "pairdle-backend/internal/auth/domain"
	gamedto "pairdle-backend/internal/game/dto"
	"pairdle-backend/internal/game/scorer"
	"pairdle-backend/internal/game/usecase"

	"github.com/gin-gonic/gin"
)

// PuzzleHandler handles puzzle and favorite requests
type PuzzleHandler struct {
	puzzleUsecase usecase.PuzzleUsecase
}

// NewPuzzleHandler creates a new PuzzleHandler
func NewPuzzleHandler(puzzleUsecase usecase.PuzzleUsecase) *PuzzleHandler {
	return &PuzzleHandler{puzzleUsecase: puzzleUsecase}
}

func (h *PuzzleHandler) CreatePuzzle(c *gin.Context) {
	setter := callerProfile(c)
	if setter == nil {
		return
	}

	var req gamedto.CreatePuzzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.puzzleUsecase.CreatePuzzle(c.Request.Context(), setter, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetToday returns the caller's puzzle for a date. ?role=sent selects the
// puzzle they set; the default is the one they must solve.
func (h *PuzzleHandler) GetToday(c *gin.Context) {
	caller := callerProfile(c)
	if caller == nil {
		return
	}

	view, err := h.puzzleUsecase.GetPuzzle(c.Request.Context(), caller, c.Query("date"), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PuzzleHandler) SubmitGuess(c *gin.Context) {
	userID := c.GetString("userID")

	var req gamedto.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.puzzleUsecase.SubmitGuess(c.Request.Context(), userID, c.Param("id"), req.Letters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PuzzleHandler) RequestMessage(c *gin.Context) {
	flag(c, h.puzzleUsecase.RequestMessage, "message requested")
}

func (h *PuzzleHandler) RevealMessage(c *gin.Context) {
	flag(c, h.puzzleUsecase.RevealMessage, "message revealed")
}

func (h *PuzzleHandler) MarkMessageViewed(c *gin.Context) {
	flag(c, h.puzzleUsecase.MarkMessageViewed, "message viewed")
}

func flag(c *gin.Context, op func(ctx context.Context, userID, puzzleID string) error, message string) {
	userID := c.GetString("userID")

	if err := op(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Favorite pins a puzzle to the caller's keepsakes
func (h *PuzzleHandler) Favorite(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.puzzleUsecase.SetFavorite(c.Request.Context(), userID, c.Param("id"), true); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "favorited"})
}

func (h *PuzzleHandler) Unfavorite(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.puzzleUsecase.SetFavorite(c.Request.Context(), userID, c.Param("id"), false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfavorited"})
}

func (h *PuzzleHandler) ListFavorites(c *gin.Context) {
	userID := c.GetString("userID")

	resp, err := h.puzzleUsecase.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrPuzzleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotYours):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNoPartner), errors.Is(err, scorer.ErrInvalidWord):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrAlreadySet):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func callerProfile(c *gin.Context) *authdomain.Profile {
	profile, ok := c.MustGet("profile").(*authdomain.Profile)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile missing from context"})
		return nil
	}
	return profile
}
