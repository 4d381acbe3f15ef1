package chatbotHandler

import (
	"SikshaMantra/internal/api/chatbot"
	contextPkg "SikshaMantra/pkg/context"
	"SikshaMantra/pkg/handlerUtil"
	jwtPkg "SikshaMantra/pkg/jwt"
	"SikshaMantra/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ChatbotHandler) SendMessage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing chat message request")

	var req chatbot.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if user, err := jwtPkg.GetUserLoginData(ctx); err == nil {
		req.UserID = user.ID
	}

	response, err := h.chatbotService.SendMessage(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "send_message")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

func (h *ChatbotHandler) GetSuggestions(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.chatbotService.GetSuggestions(contextPkg.FromFiberCtx(ctx)))
}

func (h *ChatbotHandler) GetSessionHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessionID := ctx.Params("session_id")
	history, err := h.chatbotService.GetSessionHistory(c, sessionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, history)
	}
}

func (h *ChatbotHandler) ClearSessionHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.chatbotService.ClearSessionHistory(c, ctx.Params("session_id")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "clear_session_history")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}
