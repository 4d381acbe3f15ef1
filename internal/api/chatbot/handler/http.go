package chatbotHandler

import (
	chatbotService "SikshaMantra/internal/api/chatbot/service"
	"SikshaMantra/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ChatbotHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	chatbotService chatbotService.IChatbotService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatbotService.IChatbotService,
) *ChatbotHandler {
	return &ChatbotHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		chatbotService: cs,
	}
}

func (h *ChatbotHandler) Start(srv fiber.Router) {
	chatbot := srv.Group("/chatbot")

	chatbot.Post("/message", h.middleware.NewRateLimiter, h.middleware.NewOptionalTokenMiddleware, h.SendMessage)
	chatbot.Get("/suggestions", h.GetSuggestions)
	chatbot.Get("/sessions/:session_id/history", h.GetSessionHistory)
	chatbot.Delete("/sessions/:session_id/history", h.ClearSessionHistory)

	// Streaming chat, one session per connection
	chatbot.Use("/ws", h.RequireWebsocketUpgrade, h.middleware.NewOptionalTokenMiddleware)
	chatbot.Get("/ws", websocket.New(h.ChatStream))

	// Moderation
	admin := chatbot.Group("/admin", h.middleware.NewTokenMiddleware, h.middleware.NewAdminMiddleware)
	admin.Get("/unmatched", h.GetUnmatchedMessages)
	admin.Get("/stats", h.GetChatStats)
	admin.Post("/explain", h.ExplainMessage)
}
