package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/services"
	"rewards-platform-backend/internal/store"
)

type GameHandler struct {
	gameEngine *services.GameEngine
}

func NewGameHandler(gameEngine *services.GameEngine) *GameHandler {
	return &GameHandler{gameEngine: gameEngine}
}

// Play resolves and settles one bet on the variant named in the path.
func (h *GameHandler) Play(c *gin.Context) {
	accountID := c.GetString("account_id")

	var req models.BetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}
	req.Variant = models.GameVariant(c.Param("variant"))

	start := time.Now()
	result, err := h.gameEngine.Play(c.Request.Context(), accountID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	roundLatency.WithLabelValues(string(result.Variant)).Observe(time.Since(start).Seconds())
	roundsTotal.WithLabelValues(string(result.Variant), string(result.Result)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   result,
	})
}

func (h *GameHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidBet):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCooldownActive):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before your next bet"})
	case errors.Is(err, services.ErrAccountRestricted):
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is not allowed to play"})
	case errors.Is(err, store.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient balance"})
	case errors.Is(err, store.ErrDailyLimitExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily casino limit reached, come back tomorrow"})
	case errors.Is(err, store.ErrTransientFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle round"})
	}
}

func (h *GameHandler) History(c *gin.Context) {
	accountID := c.GetString("account_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	rounds, err := h.gameEngine.History(c.Request.Context(), accountID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  rounds,
	})
}

func (h *GameHandler) DailyLimit(c *gin.Context) {
	accountID := c.GetString("account_id")

	dl, err := h.gameEngine.DailyLimit(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load daily limit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"limit":   dl,
	})
}
