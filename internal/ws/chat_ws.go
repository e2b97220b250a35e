package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"course-service/internal/auth"
	"course-service/internal/config"
	"course-service/internal/models"
	"course-service/internal/observability"
	"course-service/internal/repositories"
)

const tracerName = "course-service/ws"

var errMalformedFrame = errors.New("malformed frame")

// ChatWebSocketHandler serves the per-user chat channel.
type ChatWebSocketHandler struct {
	hub             *Hub
	messages        repositories.MessageRepository
	resolver        auth.Resolver
	events          *observability.EventEmitter
	validate        *validator.Validate
	malformedPolicy string
	upgrader        websocket.Upgrader
}

// NewChatWebSocketHandler constructs a ChatWebSocketHandler. malformedPolicy is
// config.MalformedFrameDrop or config.MalformedFrameClose.
func NewChatWebSocketHandler(hub *Hub, messages repositories.MessageRepository, resolver auth.Resolver, events *observability.EventEmitter, malformedPolicy string) *ChatWebSocketHandler {
	return &ChatWebSocketHandler{
		hub:             hub,
		messages:        messages,
		resolver:        resolver,
		events:          events,
		validate:        validator.New(),
		malformedPolicy: malformedPolicy,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle authenticates the handshake, upgrades the connection and registers
// it as the user's channel.
func (h *ChatWebSocketHandler) Handle(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id", "kind": "invalid_request"})
		return
	}

	ctx, span := otel.Tracer(tracerName).Start(c.Request.Context(), "ws.handshake",
		trace.WithAttributes(attribute.Int("chat.user_id", userID)))
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	claims, err := h.resolver.Resolve(handshakeToken(c.Request))
	if err != nil {
		span.SetStatus(codes.Error, "unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "kind": "unauthorized"})
		return
	}
	if tokenUser, _ := claims.UserID(); tokenUser != userID {
		span.SetStatus(codes.Error, "forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "token does not belong to this user", "kind": "forbidden"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("websocket upgrade failed", zap.Int("user_id", userID), zap.Error(err))
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	client := NewClient(conn, info)
	h.hub.Register(userID, client)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	h.events.Emit(ctx, observability.RoutingKeyWSEvents, wsEnvelope("ws_connect", info, ""))

	go h.readLoop(context.WithoutCancel(ctx), userID, client)
}

func (h *ChatWebSocketHandler) readLoop(ctx context.Context, userID int, client *Client) {
	logger := observability.LoggerFromContext(ctx).With(zap.Int("user_id", userID), zap.String("conn_id", client.Info().ConnID))
	var closeReason string
	defer func() {
		h.hub.Unregister(userID, client)
		client.Close(websocket.CloseNormalClosure, "")
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		h.events.Emit(ctx, observability.RoutingKeyWSEvents, wsEnvelope("ws_disconnect", client.Info(), closeReason))
		logger.Debug("chat channel closed", zap.String("reason", closeReason))
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !client.ClosedByServer() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				observability.IncWSEvent("ws_error")
				h.events.Emit(ctx, observability.RoutingKeyWSEvents, wsEnvelope("ws_error", client.Info(), closeReason))
				logger.Warn("chat channel read failed", zap.Error(err))
			}
			return
		}
		if !h.handleFrame(ctx, userID, client, data) {
			closeReason = errMalformedFrame.Error()
			return
		}
	}
}

// handleFrame processes one inbound frame and reports whether the channel stays open.
func (h *ChatWebSocketHandler) handleFrame(ctx context.Context, fromUser int, client *Client, data []byte) bool {
	logger := observability.LoggerFromContext(ctx)

	frame, err := h.decodeFrame(data)
	if err != nil {
		observability.IncChatMessage(observability.OutcomeMalformed)
		logger.Warn("malformed chat frame",
			zap.Int("from_user", fromUser),
			zap.String("policy", h.malformedPolicy),
			zap.Error(err),
		)
		if h.malformedPolicy == config.MalformedFrameClose {
			client.Close(websocket.CloseUnsupportedData, errMalformedFrame.Error())
			return false
		}
		return true
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "chat.message", trace.WithAttributes(
		attribute.Int("chat.from_user", fromUser),
		attribute.Int("chat.to_user", frame.ToUser),
	))
	defer span.End()

	msg, err := h.messages.CreateMessage(ctx, fromUser, frame.ToUser, *frame.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store failed")
		observability.IncChatMessage(observability.OutcomeStoreFailed)
		logger.Error("store chat message", zap.Int("from_user", fromUser), zap.Int("to_user", frame.ToUser), zap.Error(err))
		return true
	}

	delivered, _ := h.hub.Deliver(ctx, frame.ToUser, msg.DeliveryFrame())
	outcome := observability.OutcomeStored
	if delivered {
		outcome = observability.OutcomeDelivered
	}
	observability.IncChatMessage(outcome)
	span.SetAttributes(attribute.Int("chat.message_id", msg.ID), attribute.Bool("chat.delivered", delivered))

	h.events.Emit(ctx, observability.RoutingKeyChatEvents, observability.EventEnvelope{
		EventType: "chat_events",
		EventName: "chat.message_sent",
		RequestID: client.Info().RequestID,
		TraceID:   span.SpanContext().TraceID().String(),
		Payload: map[string]interface{}{
			"message_id": msg.ID,
			"from_user":  msg.FromUserID,
			"to_user":    msg.ToUserID,
			"delivered":  delivered,
		},
	})
	return true
}

func (h *ChatWebSocketHandler) decodeFrame(data []byte) (models.InboundFrame, error) {
	var frame models.InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return models.InboundFrame{}, errors.Wrap(err, "decode frame")
	}
	if err := h.validate.Struct(frame); err != nil {
		return models.InboundFrame{}, errors.Wrap(err, "validate frame")
	}
	return frame, nil
}
