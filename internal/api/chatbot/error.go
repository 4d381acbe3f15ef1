package chatbot

import (
	"SikshaMantra/pkg/response"
	"net/http"
)

var (
	ErrInvalidSessionID   = response.NewCodedError(http.StatusBadRequest, "INVALID_SESSION", "invalid session id")
	ErrMessageTooLong     = response.NewCodedError(http.StatusBadRequest, "MESSAGE_TOO_LONG", "message too long")
	ErrHistoryUnavailable = response.NewCodedError(http.StatusServiceUnavailable, "HISTORY_UNAVAILABLE", "chat history unavailable")
	ErrChatLogUnavailable = response.NewCodedError(http.StatusServiceUnavailable, "CHAT_LOG_UNAVAILABLE", "chat log unavailable")
)
