package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ouk-server-go/internal/repositories"
	"ouk-server-go/internal/services"
)

// ProfileHandler handles profile retrieval and updates
type ProfileHandler struct {
	accountService *services.AccountService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accountService *services.AccountService) *ProfileHandler {
	return &ProfileHandler{
		accountService: accountService,
	}
}

// UpdateProfileRequest carries the mutable profile fields. Anything else a
// client submits is dropped at binding; identity and progression fields have
// no representation here.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,max=50"`
	AvatarURL   *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
	Country     *string `json:"country,omitempty" binding:"omitempty,len=2"`
	GuildName   *string `json:"guild_name,omitempty" binding:"omitempty,max=40"`
}

// GetProfile returns the authenticated account's snapshot
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	accountID := c.GetString("account_id") // From auth middleware
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	account, err := h.accountService.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateProfile handles profile updates
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	accountID := c.GetString("account_id") // From auth middleware
	if accountID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountService.UpdateProfile(c.Request.Context(), accountID,
		repositories.ProfileUpdate{
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
			Country:     req.Country,
			GuildName:   req.GuildName,
		})
	if err != nil {
		writeLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// writeLookupError maps store errors shared by the profile endpoints
func writeLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, repositories.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
