package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	store store.Store
	hub   *WebSocketHub
}

// WebSocketHub fans committed balance events out to connected clients. It
// satisfies services.Notifier, so it plugs straight into the settlement and
// credit paths.
type WebSocketHub struct {
	clients    map[string]*websocket.Conn
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	AccountID string
	Conn      *websocket.Conn
}

type Message struct {
	Type      string      `json:"type"`
	AccountID string      `json:"account_id,omitempty"`
	Data      interface{} `json:"data"`
}

func NewWebSocketHandler(st store.Store) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[string]*websocket.Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		store: st,
		hub:   hub,
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.AccountID] = client.Conn
		case client := <-hub.unregister:
			if conn, ok := hub.clients[client.AccountID]; ok && conn == client.Conn {
				delete(hub.clients, client.AccountID)
			}
		case msg := <-hub.broadcast:
			if msg.AccountID != "" {
				if conn, ok := hub.clients[msg.AccountID]; ok {
					if err := conn.WriteJSON(msg); err != nil {
						log.Printf("WebSocket write failed for %s: %v", msg.AccountID, err)
					}
				}
				continue
			}
			for accountID, conn := range hub.clients {
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("WebSocket write failed for %s: %v", accountID, err)
				}
			}
		}
	}
}

// NotifyBalanceChange pushes a balance update to the affected client only.
// A full broadcast channel drops the event rather than blocking settlement.
func (h *WebSocketHandler) NotifyBalanceChange(event models.BalanceEvent) {
	msg := &Message{
		Type:      "BALANCE_UPDATE",
		AccountID: event.AccountID,
		Data:      event,
	}
	select {
	case h.hub.broadcast <- msg:
	default:
		log.Printf("balance event dropped for %s: broadcast buffer full", event.AccountID)
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	accountID := c.GetString("account_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		AccountID: accountID,
		Conn:      conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if msg.Type == "PING" {
			h.sendPong(client)
		}
	}
}

func (h *WebSocketHandler) sendBalance(client *Client) {
	acc, err := h.store.EnsureAccount(context.Background(), client.AccountID)
	if err != nil {
		log.Printf("Failed to load account for WS: %v", err)
		return
	}

	msg := Message{
		Type: "BALANCE_UPDATE",
		Data: gin.H{
			"balance":       acc.Balance,
			"total_earned":  acc.TotalEarned,
			"total_wagered": acc.TotalWagered,
		},
	}

	client.Conn.WriteJSON(msg)
}

func (h *WebSocketHandler) sendPong(client *Client) {
	msg := Message{
		Type: "PONG",
		Data: gin.H{"timestamp": time.Now().Unix()},
	}
	client.Conn.WriteJSON(msg)
}
