package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
)

// Hub maps player ids to live connections and delivers room notices to them.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "websocket_hub"),
		clients: make(map[string]*client),
	}
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	that.clients[c.id] = c
	that.mu.Unlock()
}

func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	if that.clients[c.id] == c {
		delete(that.clients, c.id)
	}
	that.mu.Unlock()
}

// Notify queues every notice for its recipients. Unknown or closed recipients
// are skipped.
func (that *Hub) Notify(notices ...entity.Notice) {
	for _, notice := range notices {
		frame, err := encode(notice.Action, notice.Payload)
		if err != nil {
			that.logger.Error("failed to marshal notice", "action", notice.Action, "error", err)
			continue
		}

		for _, playerID := range notice.To {
			that.mu.RLock()
			c, ok := that.clients[playerID]
			that.mu.RUnlock()

			if !ok {
				that.logger.Debug("recipient is not connected", "playerID", playerID, "action", notice.Action)
				continue
			}

			c.enqueue(frame)
		}
	}
}

func (that *Hub) ConnectionCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}
