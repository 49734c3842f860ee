package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mediaportal/portal-backend/internal/domain"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "portal:notifications"

// Event types
const (
	EventNotification = "notification"
)

// Event represents a real-time event sent via WebSocket
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket clients and delivers events to users.
// With Redis, every event goes through pub/sub so all API instances see it.
type Hub struct {
	clients map[uint64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *targetedEvent

	mu          sync.Mutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	UserID uint64 `json:"user_id"`
	Event  *Event `json:"event"`
}

// NewHub creates a new Hub; redisClient may be nil (single instance)
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[uint64]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients[msg.UserID] {
				select {
				case client.send <- data:
				default:
					// 느린 클라이언트는 끊는다
					h.remove(client)
				}
			}
			h.mu.Unlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
}

// Connected returns the number of open connections of a user
func (h *Hub) Connected(userID uint64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// SendToUser delivers an event to every connection of the user on every instance
func (h *Hub) SendToUser(ctx context.Context, userID uint64, event *Event) error {
	msg := &targetedEvent{UserID: userID, Event: event}
	if h.redisClient == nil {
		select {
		case h.broadcast <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return h.redisClient.Publish(ctx, redisPubSubChannel, data).Err()
}

// Push implements the notification pusher
func (h *Hub) Push(ctx context.Context, n *domain.Notification) error {
	return h.SendToUser(ctx, n.UserID, &Event{Type: EventNotification, Payload: n})
}

// subscribeRedis delivers events published by any instance to local clients
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var te targetedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &te); err != nil {
				pkglogger.GetLogger().Warn().Err(err).Msg("invalid pub/sub notification")
				continue
			}
			h.broadcast <- &te
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
