package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ouk-server-go/internal/models"
	"ouk-server-go/internal/services"
)

// GameHandler handles game result submissions
type GameHandler struct {
	ledger      *services.LedgerService
	leaderboard *services.LeaderboardService
}

// NewGameHandler creates a new game handler
func NewGameHandler(ledger *services.LedgerService, leaderboard *services.LeaderboardService) *GameHandler {
	return &GameHandler{
		ledger:      ledger,
		leaderboard: leaderboard,
	}
}

// SubmitResultRequest represents one finished game. Earned amounts are
// validated again in the ledger; the binding tags just reject obvious junk
// early.
type SubmitResultRequest struct {
	Outcome        string `json:"outcome" binding:"required"`
	LevelPlayed    int    `json:"level_played" binding:"required"`
	CoinsEarned    int    `json:"coins_earned"`
	DiamondsEarned int    `json:"diamonds_earned"`
}

// SubmitResult records a game result against the authenticated account
func (h *GameHandler) SubmitResult(c *gin.Context) {
	accountID := c.GetString("account_id") // From auth middleware
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SubmitResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.ledger.ApplyResult(c.Request.Context(), accountID, models.GameResult{
		Outcome:        models.Outcome(req.Outcome),
		LevelPlayed:    req.LevelPlayed,
		CoinsEarned:    req.CoinsEarned,
		DiamondsEarned: req.DiamondsEarned,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidOutcome) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game result"})
			return
		}
		writeLookupError(c, err)
		return
	}

	// board update is best-effort once the result is persisted
	h.leaderboard.RecordExperience(c.Request.Context(), account.ID, account.ExperiencePoints)

	c.JSON(http.StatusOK, gin.H{"account": account})
}
