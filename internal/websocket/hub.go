package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vark-assistant/internal/middleware"
	"vark-assistant/internal/models"
	"vark-assistant/internal/services"
)

const (
	maxMessageBytes = 4096
	writeTimeout    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type chatSender interface {
	SendWithPending(ctx context.Context, sessionID uuid.UUID, message string, onPending func(models.History)) (models.History, error)
}

// turnLimiter is charged once per chat turn, keyed by client IP.
type turnLimiter interface {
	Allow(key string) bool
}

// client serializes writes; gorilla connections allow one writer at a time.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *client) writeJSON(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.write(data)
}

// Hub runs chat turns submitted over WebSocket and fans history updates out to
// every open tab of the same session. With a Redis client, updates travel
// through pub/sub so tabs connected to other instances see them too.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID][]*client
	chat        chatSender
	limiter     turnLimiter
	redisClient *redis.Client
	cancelFuncs map[uuid.UUID]context.CancelFunc
	logger      *zap.Logger
}

// NewHub creates a hub. redisClient may be nil for single-instance deployments;
// a nil limiter leaves chat turns unlimited.
func NewHub(chat chatSender, redisClient *redis.Client, limiter turnLimiter, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		connections: make(map[uuid.UUID][]*client),
		chat:        chat,
		limiter:     limiter,
		redisClient: redisClient,
		cancelFuncs: make(map[uuid.UUID]context.CancelFunc),
		logger:      logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	if sessionID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn}
	h.registerConnection(sessionID, c)

	go h.readLoop(sessionID, middleware.ClientIP(r), c)
}

func (h *Hub) readLoop(sessionID uuid.UUID, clientIP string, c *client) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer h.unregisterConnection(sessionID, c)

	c.conn.SetReadLimit(maxMessageBytes)
	for {
		var in models.WSInbound
		if err := c.conn.ReadJSON(&in); err != nil {
			return
		}

		switch in.Type {
		case "message":
			if h.limiter != nil && !h.limiter.Allow(clientIP) {
				c.writeJSON(errorMessage("RATE_LIMITED", "Too many requests. Please try again later."))
				continue
			}
			h.handleMessage(ctx, sessionID, c, in.Payload.Message)
		default:
			c.writeJSON(errorMessage("UNKNOWN_TYPE", "Unsupported message type"))
		}
	}
}

func (h *Hub) handleMessage(ctx context.Context, sessionID uuid.UUID, c *client, text string) {
	history, err := h.chat.SendWithPending(ctx, sessionID, text, func(pending models.History) {
		h.Publish(ctx, sessionID, historyMessage(pending, true))
	})

	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.writeJSON(errorMessage("VALIDATION_ERROR", "Message is required"))
	case err != nil:
		h.logger.Warn("WebSocket chat turn failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		// Every tab saw the pending push; settle them all.
		if history != nil {
			h.Publish(ctx, sessionID, historyMessage(history, false))
		}
		h.Publish(ctx, sessionID, errorMessage("AI_ERROR", "Failed to get AI response"))
	default:
		h.Publish(ctx, sessionID, historyMessage(history, false))
	}
}

// Publish delivers msg to every connection of the session.
func (h *Hub) Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	if h.redisClient == nil {
		h.broadcast(sessionID, data)
		return
	}

	if err := h.redisClient.Publish(ctx, updatesChannel(sessionID), string(data)).Err(); err != nil {
		h.logger.Warn("Redis publish failed, delivering locally", zap.Error(err))
		h.broadcast(sessionID, data)
	}
}

func (h *Hub) registerConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = append(h.connections[sessionID], c)

	// Start pub/sub subscription if this is the first connection for this session
	if h.redisClient != nil && len(h.connections[sessionID]) == 1 {
		ctx, cancel := context.WithCancel(context.Background())
		h.cancelFuncs[sessionID] = cancel
		go h.subscribeToPubSub(ctx, sessionID)
	}

	h.logger.Debug("WebSocket connected",
		zap.String("session_id", sessionID.String()),
		zap.Int("connections", len(h.connections[sessionID])),
	)
}

func (h *Hub) unregisterConnection(sessionID uuid.UUID, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.conn.Close()

	conns := h.connections[sessionID]
	for i, existing := range conns {
		if existing == c {
			h.connections[sessionID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}

	if len(h.connections[sessionID]) == 0 {
		delete(h.connections, sessionID)
		if cancel, ok := h.cancelFuncs[sessionID]; ok {
			cancel()
			delete(h.cancelFuncs, sessionID)
		}
	}

	h.logger.Debug("WebSocket disconnected", zap.String("session_id", sessionID.String()))
}

func (h *Hub) subscribeToPubSub(ctx context.Context, sessionID uuid.UUID) {
	pubsub := h.redisClient.Subscribe(ctx, updatesChannel(sessionID))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(sessionID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	conns := make([]*client, len(h.connections[sessionID]))
	copy(conns, h.connections[sessionID])
	h.mu.RUnlock()

	for _, c := range conns {
		c.write(data)
	}
}

// ConnectionCount reports how many connections a session has open.
func (h *Hub) ConnectionCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[sessionID])
}

func updatesChannel(sessionID uuid.UUID) string {
	return "session_updates:" + sessionID.String()
}

func historyMessage(history models.History, pending bool) models.WSMessage {
	return models.WSMessage{
		Type:    "history",
		Payload: models.HistoryUpdate{History: history, Pending: pending},
	}
}

func errorMessage(code, message string) models.WSMessage {
	return models.WSMessage{
		Type:    "error",
		Payload: map[string]string{"code": code, "message": message},
	}
}
