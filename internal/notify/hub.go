package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTag groups library notifications so a client replaces rather
// than stacks them.
const DefaultTag = "script-library-notification"

// Notification is one push message shown to connected pages.
type Notification struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tag       string    `json:"tag"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Hub fans notifications out to subscribed pages. Subscribers that fall
// behind are skipped rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan Notification
}

func NewHub() *Hub {
	return &Hub{subs: map[string]chan Notification{}}
}

// Publish delivers a notification to every subscriber. An empty body gets
// the stock update message, an empty tag the library default.
func (h *Hub) Publish(n Notification) Notification {
	if strings.TrimSpace(n.Body) == "" {
		n.Body = "New update available"
	}
	if n.Tag == "" {
		n.Tag = DefaultTag
	}
	if n.Title == "" {
		n.Title = "Script Library Manager"
	}
	n.CreatedAt = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
			// Drop if subscriber is slow.
		}
	}
	return n
}

// Subscribe registers a listener that receives notifications until ctx is
// cancelled.
func (h *Hub) Subscribe(ctx context.Context) <-chan Notification {
	ch := make(chan Notification, 16)
	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
