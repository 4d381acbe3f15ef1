package chatbotHandler

import (
	"SikshaMantra/internal/api/chatbot"
	contextPkg "SikshaMantra/pkg/context"
	"SikshaMantra/pkg/handlerUtil"
	"SikshaMantra/pkg/log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// maxUnmatchedPage is far beyond any real moderation backlog and keeps the
// offset arithmetic in range.
const maxUnmatchedPage = 1_000_000

func (h *ChatbotHandler) GetUnmatchedMessages(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > maxUnmatchedPage {
		page = maxUnmatchedPage
	}

	limit, err := strconv.Atoi(ctx.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"page":       page,
		"limit":      limit,
	}).Debug("Processing get unmatched messages request")

	response, err := h.chatbotService.GetUnmatchedMessages(c, page, limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_unmatched_messages")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

func (h *ChatbotHandler) GetChatStats(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	stats, err := h.chatbotService.GetChatStats(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_chat_stats")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, stats)
	}
}

func (h *ChatbotHandler) ExplainMessage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	var req chatbot.ExplainRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.chatbotService.ExplainMessage(contextPkg.FromFiberCtx(ctx), req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "explain_message")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}
