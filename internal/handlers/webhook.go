package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/services"
	"rewards-platform-backend/internal/store"
)

// WebhookHandler receives server-to-server earn postbacks from the ad
// network. The body is authenticated with an HMAC signature, never a user
// token, because the network calls us directly.
type WebhookHandler struct {
	creditService *services.CreditService
	secret        []byte
}

func NewWebhookHandler(creditService *services.CreditService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{
		creditService: creditService,
		secret:        []byte(cfg.WebhookSecret),
	}
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandlePostback credits the reported points. The network retries on any
// non-2xx, so replays of the same offer id must answer 200 with the balance
// recorded by the first delivery.
func (h *WebhookHandler) HandlePostback(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		earnEventsTotal.WithLabelValues("bad_signature").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var event services.EarnEvent
	if err := json.Unmarshal(body, &event); err != nil {
		earnEventsTotal.WithLabelValues("malformed").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload", "details": err.Error()})
		return
	}

	balance, err := h.creditService.ProcessEarn(c.Request.Context(), &event)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEarnEvent):
			earnEventsTotal.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrTransientFailure):
			earnEventsTotal.WithLabelValues("transient").Inc()
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, retry"})
		default:
			earnEventsTotal.WithLabelValues("error").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		}
		return
	}

	earnEventsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"uid":     event.UID,
		"balance": balance,
	})
}
