package websocket

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"horas-backend/internal/app/chat"
	"horas-backend/internal/app/hora"
	"horas-backend/internal/utils"
)

const (
	// TopicGlobal receives every new chat message.
	TopicGlobal = "chat:global"

	userTopicPrefix = "user:"

	fanoutTimeout = 10 * time.Second
)

// Frame is the wire envelope for every server push.
type Frame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func marshalFrame(event string, data interface{}) ([]byte, bool) {
	raw, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return nil, false
	}
	return raw, true
}

type joinRequest struct {
	client *Client
	topic  string
}

type delivery struct {
	topic string
	frame []byte
}

// Hub owns every live connection and its topic membership. All map
// access happens on the Run goroutine; fan-out recomputes run
// concurrently and funnel their results back through the deliver
// channel, so a send never races an unregister.
type Hub struct {
	chat  chat.Service
	horas hora.Service
	bus   *utils.EventBus

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	deliver    chan delivery

	topics  map[string]map[*Client]bool
	clients map[*Client]bool

	logger *zap.SugaredLogger
}

func NewHub(chatService chat.Service, horaService hora.Service, bus *utils.EventBus, logger *zap.Logger) *Hub {
	return &Hub{
		chat:       chatService,
		horas:      horaService,
		bus:        bus,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest, 16),
		deliver:    make(chan delivery, 256),
		topics:     make(map[string]map[*Client]bool),
		clients:    make(map[*Client]bool),
		logger:     logger.Sugar(),
	}
}

func userTopic(userID string) string {
	return userTopicPrefix + userID
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Join is idempotent: adding a client to a topic it already belongs
// to is a no-op.
func (h *Hub) Join(c *Client, topic string) {
	h.join <- joinRequest{client: c, topic: topic}
}

// Broadcast queues a frame for every current member of the topic.
// There is no delivery guarantee: disconnected clients simply miss it.
func (h *Hub) Broadcast(topic, event string, data interface{}) {
	frame, ok := marshalFrame(event, data)
	if !ok {
		return
	}
	h.deliver <- delivery{topic: topic, frame: frame}
}

func (h *Hub) Run(ctx context.Context) {
	events := h.bus.SubscribeCh()
	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			h.addToTopic(c, TopicGlobal)
			h.addToTopic(c, userTopic(c.UserID))
			go h.pushUnread(c.UserID)
			go h.pushHorasNotifications(c.UserID)

		case c := <-h.unregister:
			if !h.clients[c] {
				continue
			}
			delete(h.clients, c)
			for topic, members := range h.topics {
				delete(members, c)
				if len(members) == 0 {
					delete(h.topics, topic)
				}
			}
			close(c.send)

		case req := <-h.join:
			if h.clients[req.client] {
				h.addToTopic(req.client, req.topic)
			}

		case d := <-h.deliver:
			for c := range h.topics[d.topic] {
				select {
				case c.send <- d.frame:
				default:
					// Slow consumer: drop the frame, never block the hub.
				}
			}

		case ev := <-events:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) addToTopic(c *Client, topic string) {
	if topic == userTopicPrefix {
		return
	}
	members, ok := h.topics[topic]
	if !ok {
		members = make(map[*Client]bool)
		h.topics[topic] = members
	}
	members[c] = true
}

func (h *Hub) dispatch(ev utils.Event) {
	switch ev.Name {
	case chat.EventMessageCreated:
		payload, ok := ev.Data.(chat.MessageCreated)
		if !ok {
			return
		}
		h.Broadcast(TopicGlobal, "chat:new-message", payload.Message)
		go h.fanOutUnread()

	case chat.EventRead:
		userID, ok := ev.Data.(string)
		if !ok {
			return
		}
		go h.pushUnread(userID)

	case hora.EventHorasChanged:
		userID, ok := ev.Data.(string)
		if !ok {
			return
		}
		go h.pushHorasNotifications(userID)
	}
}

// fanOutUnread recomputes the unread count for every active user,
// the sender included, one independent query per user. A failure for
// one recipient never blocks the rest.
func (h *Hub) fanOutUnread() {
	ctx, cancel := context.WithTimeout(context.Background(), fanoutTimeout)
	defer cancel()

	userIDs, err := h.chat.ActiveUserIDs(ctx, "")
	if err != nil {
		h.logger.Warnw("failed to resolve fan-out recipients", "error", err)
		return
	}

	done := make(chan struct{}, len(userIDs))
	for _, userID := range userIDs {
		go func(id string) {
			defer func() { done <- struct{}{} }()
			h.pushUnread(id)
		}(userID)
	}
	for range userIDs {
		<-done
	}
}

func (h *Hub) pushUnread(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), fanoutTimeout)
	defer cancel()

	count, err := h.chat.Unread(ctx, userID)
	if err != nil {
		h.logger.Warnw("failed to recompute unread count", "userId", userID, "error", err)
		return
	}
	h.Broadcast(userTopic(userID), "chat:unread-count", count)
}

func (h *Hub) pushHorasNotifications(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), fanoutTimeout)
	defer cancel()

	resp, err := h.horas.MisNotificaciones(ctx, userID)
	if err != nil {
		h.logger.Warnw("failed to recompute weekly notifications", "userId", userID, "error", err)
		return
	}
	h.Broadcast(userTopic(userID), "horas-notifications", resp)
}
