package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

type UserHandler struct {
	store store.Store
}

func NewUserHandler(st store.Store) *UserHandler {
	return &UserHandler{store: st}
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	accountID := c.GetString("account_id")

	acc, err := h.store.EnsureAccount(c.Request.Context(), accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"account": models.BalanceResponse{
			AccountID:    acc.ID,
			Balance:      acc.Balance,
			TotalEarned:  acc.TotalEarned,
			TotalWagered: acc.TotalWagered,
		},
	})
}

// GetEntries returns the most recent ledger entries, newest first.
func (h *UserHandler) GetEntries(c *gin.Context) {
	accountID := c.GetString("account_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	entries, err := h.store.GetEntries(c.Request.Context(), accountID, limit)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "entries": []models.LedgerEntry{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
	})
}
