package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"course-service/internal/observability"
)

// Hub is the registry of live chat channels, at most one per user.
type Hub struct {
	clients map[int]Channel
	mu      sync.RWMutex
	events  *observability.EventEmitter
}

// NewHub creates an empty hub. events may be nil.
func NewHub(events *observability.EventEmitter) *Hub {
	return &Hub{
		clients: make(map[int]Channel),
		events:  events,
	}
}

// Register installs ch as the user's channel. A previous channel for the same
// user is closed and returned.
func (h *Hub) Register(userID int, ch Channel) Channel {
	h.mu.Lock()
	old, ok := h.clients[userID]
	h.clients[userID] = ch
	h.mu.Unlock()

	if !ok || old == ch {
		return nil
	}
	old.Close(CloseSessionReplaced, "session replaced")
	observability.IncWSEvent("ws_replaced")
	observability.Logger().Info("chat channel replaced",
		zap.Int("user_id", userID),
		zap.String("old_conn_id", old.Info().ConnID),
		zap.String("conn_id", ch.Info().ConnID),
	)
	h.events.Emit(context.Background(), observability.RoutingKeyWSEvents, wsEnvelope("ws_replaced", old.Info(), "session replaced"))
	return old
}

// Unregister removes the user's entry only if it is still ch. It reports
// whether an entry was removed.
func (h *Hub) Unregister(userID int, ch Channel) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[userID]; ok && current == ch {
		delete(h.clients, userID)
		return true
	}
	return false
}

// Lookup returns the user's channel, if any.
func (h *Hub) Lookup(userID int) (Channel, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ch, ok := h.clients[userID]
	return ch, ok
}

// Len returns the number of registered users.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Deliver pushes frame to the user's channel if one is registered. A channel
// that fails the write is closed and unregistered.
func (h *Hub) Deliver(ctx context.Context, userID int, frame any) (bool, error) {
	ch, ok := h.Lookup(userID)
	if !ok {
		return false, nil
	}
	if err := ch.Send(frame); err != nil {
		ch.Close(websocket.CloseInternalServerErr, "write failed")
		h.Unregister(userID, ch)
		observability.IncWSEvent("ws_error")
		observability.LoggerFromContext(ctx).Warn("chat delivery failed",
			zap.Int("to_user", userID),
			zap.String("conn_id", ch.Info().ConnID),
			zap.Error(err),
		)
		h.events.Emit(ctx, observability.RoutingKeyWSEvents, wsEnvelope("ws_error", ch.Info(), err.Error()))
		return false, err
	}
	return true, nil
}
