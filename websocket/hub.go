package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tutorcenter/scheduler/models"
	"go.uber.org/zap"
)

const (
	EventSlotCreated   = "slot.created"
	EventSlotBooked    = "slot.booked"
	EventSlotCancelled = "slot.cancelled"
	EventSlotDeleted   = "slot.deleted"
)

type SlotEvent struct {
	Type      string `json:"type"`
	SlotID    uint   `json:"slot_id"`
	TutorID   uint   `json:"tutor_id"`
	Date      string `json:"date"`
	Timeblock string `json:"timeblock"`
	Status    string `json:"status"`
}

func NewSlotEvent(typ string, slot *models.Availability) SlotEvent {
	evt := SlotEvent{
		Type:      typ,
		SlotID:    slot.ID,
		Date:      slot.Date.Format(models.DateLayout),
		Timeblock: slot.Timeblock,
		Status:    slot.Status,
	}
	if slot.TutorID != nil {
		evt.TutorID = *slot.TutorID
	}
	return evt
}

type Client struct {
	ID     uuid.UUID
	UserID uint
	Send   chan SlotEvent
}

func NewClient(userID uint) *Client {
	return &Client{ID: uuid.New(), UserID: userID, Send: make(chan SlotEvent, 16)}
}

// Hub fans slot events out to connected clients. A single goroutine (Run)
// owns the client set.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan SlotEvent
	done       chan struct{}

	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan SlotEvent, 256),
		done:       make(chan struct{}),
		clients:    make(map[uuid.UUID]*Client),
	}
}

var Default = NewHub()

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()
			zap.S().Debugw("ws client registered", "client", c.ID, "user", c.UserID)
		case c := <-h.unregister:
			h.drop(c.ID)
		case evt := <-h.broadcast:
			h.mu.RLock()
			var slow []uuid.UUID
			for id, c := range h.clients {
				select {
				case c.Send <- evt:
				default:
					slow = append(slow, id)
				}
			}
			h.mu.RUnlock()
			for _, id := range slow {
				zap.S().Warnw("ws client too slow, dropping", "client", id)
				h.drop(id)
			}
		}
	}
}

func (h *Hub) drop(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Send)
		delete(h.clients, id)
		zap.S().Debugw("ws client unregistered", "client", id)
	}
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues evt for delivery and never blocks; when the queue is full
// the event is dropped.
func (h *Hub) Publish(evt SlotEvent) {
	select {
	case h.broadcast <- evt:
	default:
		zap.S().Warnw("ws broadcast queue full, event dropped", "type", evt.Type, "slot", evt.SlotID)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
