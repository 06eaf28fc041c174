package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/learn2earn/backend/internal/events"
	"github.com/learn2earn/backend/internal/middleware"
	"github.com/learn2earn/backend/internal/services"
	"go.uber.org/zap"
)

const ctxWSWallet = "ws_wallet"

const (
	wsSendBuffer   = 16
	wsWriteTimeout = 10 * time.Second
)

// wsClient queues outgoing messages for one socket. Only writeLoop touches
// the connection for writing.
type wsClient struct {
	out  chan []byte
	done chan struct{}
}

func newWSClient() *wsClient {
	return &wsClient{out: make(chan []byte, wsSendBuffer), done: make(chan struct{})}
}

// enqueue never blocks. It reports false when the client is too slow and the
// message was dropped.
func (c *wsClient) enqueue(data []byte) bool {
	select {
	case c.out <- data:
		return true
	default:
		return false
	}
}

func (c *wsClient) writeLoop(conn *websocket.Conn, log *zap.Logger) {
	defer close(c.done)
	for data := range c.out {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug("ws write failed", zap.Error(err))
			// Unblocks the read loop, which unregisters the client.
			_ = conn.Close()
			return
		}
	}
}

// WSHub streams ledger events to the websocket clients whose wallet the
// transaction touches.
type WSHub struct {
	identity    *services.IdentityService
	subscriber  events.Subscriber
	log         *zap.Logger
	mu          sync.RWMutex
	connections map[string][]*wsClient
}

func NewWSHub(identity *services.IdentityService, subscriber events.Subscriber, log *zap.Logger) *WSHub {
	return &WSHub{
		identity:    identity,
		subscriber:  subscriber,
		log:         log,
		connections: make(map[string][]*wsClient),
	}
}

func (h *WSHub) Start(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, events.StreamLedger, h.dispatch)
}

func (h *WSHub) dispatch(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for wallet, clients := range h.connections {
		if !event.Touches(wallet) {
			continue
		}
		for _, client := range clients {
			if !client.enqueue(data) {
				h.log.Warn("ws client too slow, event dropped", zap.String("wallet", wallet))
			}
		}
	}
}

// Connections counts open sockets of a wallet.
func (h *WSHub) Connections(wallet string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[wallet])
}

// WSUpgradeMiddleware checks for websocket upgrade
func WSUpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// Authorize resolves the caller's wallet before the upgrade. It runs after
// the session middleware.
func (h *WSHub) Authorize(c *fiber.Ctx) error {
	profile, err := h.identity.Me(middleware.GetEmail(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Locals(ctxWSWallet, profile.WalletAddress)
	return c.Next()
}

func (h *WSHub) register(wallet string, client *wsClient) {
	h.mu.Lock()
	h.connections[wallet] = append(h.connections[wallet], client)
	h.mu.Unlock()
}

func (h *WSHub) unregister(wallet string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.connections[wallet]
	for i, c := range clients {
		if c == client {
			h.connections[wallet] = append(clients[:i], clients[i+1:]...)
			close(client.out)
			break
		}
	}
	if len(h.connections[wallet]) == 0 {
		delete(h.connections, wallet)
	}
}

func (h *WSHub) HandleWS(conn *websocket.Conn) {
	wallet, _ := conn.Locals(ctxWSWallet).(string)
	if wallet == "" {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
		conn.Close()
		return
	}

	client := newWSClient()
	h.register(wallet, client)
	go client.writeLoop(conn, h.log)
	defer func() {
		h.unregister(wallet, client)
		conn.Close()
		// The connection goes back to a pool once this handler returns.
		<-client.done
	}()

	// Read loop (keep alive / pings)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
