package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ouk-server-go/internal/services"
)

// LeaderboardHandler serves the leaderboard and the guild listing
type LeaderboardHandler struct {
	leaderboard *services.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboard: leaderboard,
	}
}

const maxLeaderboardLimit = 100

// Top returns the highest-experience accounts
func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > maxLeaderboardLimit {
		limit = 10
	}

	entries, err := h.leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// Guilds returns guild names with member counts
func (h *LeaderboardHandler) Guilds(c *gin.Context) {
	guilds, err := h.leaderboard.Guilds(c.Request.Context())
	if err != nil {
		writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"guilds": guilds})
}
