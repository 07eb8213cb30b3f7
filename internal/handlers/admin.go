package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/services"
	"rewards-platform-backend/internal/store"
)

// AdminHandler is the operator surface: wallet approvals, inventory loads,
// account restrictions and manual corrections. Every route behind it requires
// a token with the approval capability.
type AdminHandler struct {
	walletService   *services.WalletService
	giftCardService *services.GiftCardService
	creditService   *services.CreditService
	store           store.Store
}

func NewAdminHandler(walletService *services.WalletService, giftCardService *services.GiftCardService, creditService *services.CreditService, st store.Store) *AdminHandler {
	return &AdminHandler{
		walletService:   walletService,
		giftCardService: giftCardService,
		creditService:   creditService,
		store:           st,
	}
}

func (h *AdminHandler) PendingTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	txs, err := h.walletService.Pending(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load pending transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": txs,
	})
}

// ResolveTransaction approves or rejects one pending wallet transaction.
// Re-resolving a terminal transaction returns its stored state unchanged.
func (h *AdminHandler) ResolveTransaction(c *gin.Context) {
	txID := c.Param("id")
	adminID := c.GetString("account_id")

	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	approve := req.Decision == "approve"
	wtx, err := h.walletService.Resolve(c.Request.Context(), txID, approve, adminID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, store.ErrTransientFailure):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve transaction"})
		}
		return
	}
	walletResolutionsTotal.WithLabelValues(string(wtx.Kind), req.Decision).Inc()

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"transaction": wtx,
	})
}

func (h *AdminHandler) AddGiftCards(c *gin.Context) {
	var req models.AddGiftCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cards, err := h.giftCardService.AddInventory(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add gift cards"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"added":   len(cards),
		"cards":   cards,
	})
}

func (h *AdminHandler) SetAccountStatus(c *gin.Context) {
	accountID := c.Param("id")

	var req struct {
		Status models.AccountStatus `json:"status" binding:"required,oneof=active restricted banned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if err := h.store.SetAccountStatus(c.Request.Context(), accountID, req.Status); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  req.Status,
	})
}

// Adjust applies a signed manual correction to an account balance.
func (h *AdminHandler) Adjust(c *gin.Context) {
	accountID := c.Param("id")
	adminID := c.GetString("account_id")

	var req struct {
		Amount int64  `json:"amount" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	balance, err := h.creditService.Adjust(c.Request.Context(), accountID, req.Amount, adminID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEarnEvent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrInsufficientBalance):
			c.JSON(http.StatusConflict, gin.H{"error": "Adjustment would take balance negative"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply adjustment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": balance,
	})
}
