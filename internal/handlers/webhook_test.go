package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/services"
	"rewards-platform-backend/internal/store"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func newPostbackRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	cfg := &config.Config{WebhookSecret: "hook-secret"}
	handler := NewWebhookHandler(services.NewCreditService(st, services.NopNotifier{}), cfg)

	router := gin.New()
	router.POST("/postback", handler.HandlePostback)
	return router, st
}

func postSigned(router *gin.Engine, secret string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/postback", bytes.NewReader(body))
	req.Header.Set("X-Signature", signBody(secret, body))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostbackCreditsPoints(t *testing.T) {
	router, st := newPostbackRouter(t)

	w := postSigned(router, "hook-secret", gin.H{"uid": "user1", "points": 120, "offer_id": "tx-1"})
	assert.Equal(t, http.StatusOK, w.Code)

	balance, err := st.GetBalance(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)
}

func TestPostbackReplayIsIdempotent(t *testing.T) {
	router, st := newPostbackRouter(t)

	payload := gin.H{"uid": "user1", "points": 120, "offer_id": "tx-1"}
	assert.Equal(t, http.StatusOK, postSigned(router, "hook-secret", payload).Code)
	assert.Equal(t, http.StatusOK, postSigned(router, "hook-secret", payload).Code)

	balance, err := st.GetBalance(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance, "second delivery credits nothing")
}

func TestPostbackRejectsBadSignature(t *testing.T) {
	router, st := newPostbackRouter(t)

	w := postSigned(router, "wrong-secret", gin.H{"uid": "user1", "points": 120, "offer_id": "tx-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, err := st.GetBalance(context.Background(), "user1")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestPostbackRejectsMissingSignature(t *testing.T) {
	router, _ := newPostbackRouter(t)

	body, _ := json.Marshal(gin.H{"uid": "user1", "points": 120, "offer_id": "tx-1"})
	req := httptest.NewRequest(http.MethodPost, "/postback", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostbackRejectsNonPositivePoints(t *testing.T) {
	router, _ := newPostbackRouter(t)

	w := postSigned(router, "hook-secret", gin.H{"uid": "user1", "points": -10, "offer_id": "tx-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
