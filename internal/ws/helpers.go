package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"course-service/internal/middleware"
	"course-service/internal/observability"
)

func newConnID() string {
	return uuid.NewString()
}

// handshakeToken reads the bearer token from the Authorization header or,
// for browsers that cannot set headers on a websocket, the token query parameter.
func handshakeToken(r *http.Request) string {
	if token, ok := middleware.BearerToken(r.Header.Get("Authorization")); ok {
		return token
	}
	return r.URL.Query().Get("token")
}

func wsEnvelope(event string, info ConnInfo, reason string) observability.EventEnvelope {
	var durationMS int64
	if !info.ConnectedAt.IsZero() {
		durationMS = time.Since(info.ConnectedAt).Milliseconds()
	}
	return observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		RequestID: info.RequestID,
		TraceID:   info.TraceID,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"kind":        "chat",
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": durationMS,
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"user_id":   info.UserID,
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}
}
