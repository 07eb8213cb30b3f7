package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/services"
	"rewards-platform-backend/internal/store"
)

type GiftCardHandler struct {
	giftCardService *services.GiftCardService
}

func NewGiftCardHandler(giftCardService *services.GiftCardService) *GiftCardHandler {
	return &GiftCardHandler{giftCardService: giftCardService}
}

// Claim exchanges points for a card. Body may name a specific code; with no
// code the oldest available card is claimed.
func (h *GiftCardHandler) Claim(c *gin.Context) {
	accountID := c.GetString("account_id")

	var req models.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	card, balance, err := h.giftCardService.Claim(c.Request.Context(), accountID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrCardNotFound):
			giftCardClaimsTotal.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "Gift card not found"})
		case errors.Is(err, store.ErrAlreadyClaimed):
			giftCardClaimsTotal.WithLabelValues("already_claimed").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "Gift card already claimed"})
		case errors.Is(err, store.ErrInventoryExhausted):
			giftCardClaimsTotal.WithLabelValues("exhausted").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "No gift cards available"})
		case errors.Is(err, store.ErrInsufficientBalance):
			giftCardClaimsTotal.WithLabelValues("insufficient").Inc()
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient balance"})
		case errors.Is(err, store.ErrTransientFailure):
			giftCardClaimsTotal.WithLabelValues("transient").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, retry"})
		default:
			giftCardClaimsTotal.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim gift card"})
		}
		return
	}

	giftCardClaimsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"card":    card,
		"balance": balance,
	})
}

func (h *GiftCardHandler) Available(c *gin.Context) {
	count, err := h.giftCardService.Available(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count inventory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"available": count,
	})
}
