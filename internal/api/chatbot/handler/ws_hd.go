package chatbotHandler

import (
	"SikshaMantra/internal/api/chatbot"
	"SikshaMantra/internal/entity"
	"SikshaMantra/internal/middleware"
	contextPkg "SikshaMantra/pkg/context"
	"SikshaMantra/pkg/log"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const wsIdleTimeout = 10 * time.Minute

type wsError struct {
	Error string `json:"error"`
}

func (h *ChatbotHandler) RequireWebsocketUpgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ChatStream answers every text frame with a MessageResponse frame. The
// session starts from the optional session_id query parameter and is kept
// for the lifetime of the connection.
func (h *ChatbotHandler) ChatStream(conn *websocket.Conn) {
	requestID, _ := conn.Locals(middleware.RequestIDKey).(string)
	sessionID := conn.Query("session_id")

	var userID string
	if user, ok := conn.Locals(middleware.UserLocalsKey).(entity.UserLoginData); ok {
		userID = user.ID
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Chat stream opened")

	defer func() {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": sessionID,
		}).Info("Chat stream closed")
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(wsIdleTimeout)); err != nil {
			return
		}

		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithFields(log.Fields{
					"request_id": requestID,
					"error":      err.Error(),
				}).Warn("Chat stream read failed")
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), 5*time.Second)
		response, err := h.chatbotService.SendMessage(ctx, chatbot.SendMessageRequest{
			Message:   string(payload),
			SessionID: sessionID,
			UserID:    userID,
		})
		cancel()

		if err != nil {
			if writeErr := conn.WriteJSON(wsError{Error: err.Error()}); writeErr != nil {
				return
			}
			if errors.Is(err, chatbot.ErrInvalidSessionID) {
				return
			}
			continue
		}

		sessionID = response.SessionID
		if err := conn.WriteJSON(response); err != nil {
			return
		}
	}
}
