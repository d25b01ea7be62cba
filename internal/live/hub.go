// Package live pushes board activity to websocket subscribers, one feed
// per world. Clients that fall behind are dropped rather than blocking
// the broadcast path.
package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is one item on a world's activity feed.
type Event struct {
	Kind    string      `json:"kind"` // "post_created", "comment_created", "post_deleted", ...
	WorldID int         `json:"world_id"`
	Payload interface{} `json:"payload,omitempty"`
}

const subscriberBuffer = 16

type subscriber struct {
	ch chan Event
}

// Hub fans events out to per-world subscriber sets.
type Hub struct {
	mu     sync.Mutex
	worlds map[int]map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{worlds: make(map[int]map[*subscriber]struct{})}
}

// Subscribe registers a feed for worldID. The returned cancel func must
// be called when the consumer goes away.
func (h *Hub) Subscribe(worldID int) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	set, ok := h.worlds[worldID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.worlds[worldID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.worlds[worldID]; ok {
			if _, present := set[sub]; present {
				delete(set, sub)
				close(sub.ch)
				if len(set) == 0 {
					delete(h.worlds, worldID)
				}
			}
		}
		h.mu.Unlock()
	}
	return sub.ch, cancel
}

// Broadcast delivers the event to every live subscriber of its world.
// A full subscriber queue drops the event for that subscriber only.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.worlds[ev.WorldID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports the live subscribers for a world.
func (h *Hub) SubscriberCount(worldID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.worlds[worldID])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// ServeWS upgrades the connection and streams the world's feed until the
// client disconnects.
func (h *Hub) ServeWS(c *gin.Context, worldID int) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe(worldID)
	defer cancel()

	// Reader goroutine just watches for close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
