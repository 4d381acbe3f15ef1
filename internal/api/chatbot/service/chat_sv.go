package chatbotService

import (
	"SikshaMantra/internal/api/chatbot"
	"SikshaMantra/internal/entity"
	contextPkg "SikshaMantra/pkg/context"
	"SikshaMantra/pkg/log"
	"context"
	"time"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func (s *chatbotService) SendMessage(
	ctx context.Context,
	req chatbot.SendMessageRequest,
) (*chatbot.MessageResponse, error) {
	if utf8.RuneCountInString(req.Message) > chatbot.MaxMessageLength {
		return nil, chatbot.ErrMessageTooLong
	}

	sessionID, err := s.resolveSessionID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	ctx = contextPkg.WithSessionID(ctx, sessionID)

	reply := s.matcher.Match(req.Message)
	now := time.Now()

	log.FromContext(s.log, ctx).WithFields(logrus.Fields{
		"source":  reply.Source,
		"matched": reply.Matched,
		"score":   reply.Score,
	}).Debug("Chat message matched")

	s.saveChatMessage(ctx, entity.ChatMessage{
		SessionID: sessionID,
		UserID:    req.UserID,
		Message:   req.Message,
		Reply:     reply.Text,
		Source:    entity.ChatSource(reply.Source),
		Matched:   reply.Matched,
		Score:     reply.Score,
		CreatedAt: now,
	})

	s.appendHistory(ctx, sessionID, chatbot.HistoryItem{
		Message:   req.Message,
		Reply:     reply.Text,
		Source:    string(reply.Source),
		CreatedAt: now,
	})

	return &chatbot.MessageResponse{
		SessionID: sessionID,
		Reply:     reply.Text,
		Source:    string(reply.Source),
		Matched:   reply.Matched,
		Score:     reply.Score,
	}, nil
}

// resolveSessionID starts a new session when raw is empty and otherwise
// returns the canonical upper case form of raw.
func (s *chatbotService) resolveSessionID(ctx context.Context, raw string) (string, error) {
	if raw != "" {
		sessionID, err := s.utils.CanonicalULID(raw)
		if err != nil {
			return "", chatbot.ErrInvalidSessionID
		}
		return sessionID, nil
	}

	sessionID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		log.FromContext(s.log, ctx).WithError(err).Error("Failed to generate session id")
		return "", err
	}
	return sessionID, nil
}

// saveChatMessage persists the exchange. Failures are logged only: the user
// already has an answer and the log is for moderation.
func (s *chatbotService) saveChatMessage(ctx context.Context, msg entity.ChatMessage) {
	logger := log.FromContext(s.log, ctx)

	id, err := s.utils.NewULIDFromTimestamp(msg.CreatedAt)
	if err != nil {
		logger.WithError(err).Warn("Failed to generate chat message id")
		return
	}
	msg.ID = id

	repo, err := s.chatRepo.NewClient(false)
	if err != nil {
		logger.WithError(err).Warn("Failed to create repository client")
		return
	}

	if err := repo.ChatMessages.CreateChatMessage(ctx, msg); err != nil {
		logger.WithError(err).Warn("Failed to save chat message")
		return
	}

	if err := repo.Commit(); err != nil {
		logger.WithError(err).Warn("Failed to commit chat message")
	}
}

func (s *chatbotService) appendHistory(ctx context.Context, sessionID string, item chatbot.HistoryItem) {
	logger := log.FromContext(s.log, ctx)

	entry, err := jsoniter.MarshalToString(item)
	if err != nil {
		logger.WithError(err).Warn("Failed to encode history entry")
		return
	}

	if err := s.redisServer.AppendHistory(ctx, sessionID, entry, s.config.HistoryLimit, s.config.HistoryTTL); err != nil {
		logger.WithError(err).Warn("Failed to append session history")
	}
}

func (s *chatbotService) GetSuggestions(ctx context.Context) *chatbot.SuggestionsResponse {
	return &chatbot.SuggestionsResponse{
		Suggestions: s.matcher.GetSuggestions(),
	}
}

func (s *chatbotService) GetSessionHistory(ctx context.Context, sessionID string) (*chatbot.HistoryResponse, error) {
	sessionID, err := s.utils.CanonicalULID(sessionID)
	if err != nil {
		return nil, chatbot.ErrInvalidSessionID
	}
	ctx = contextPkg.WithSessionID(ctx, sessionID)

	entries, err := s.redisServer.GetHistory(ctx, sessionID)
	if err != nil {
		log.FromContext(s.log, ctx).WithError(err).Error("Failed to read session history")
		return nil, chatbot.ErrHistoryUnavailable
	}

	items := make([]chatbot.HistoryItem, 0, len(entries))
	for _, entry := range entries {
		var item chatbot.HistoryItem
		if err := jsoniter.UnmarshalFromString(entry, &item); err != nil {
			log.FromContext(s.log, ctx).WithError(err).Warn("Skipping malformed history entry")
			continue
		}
		items = append(items, item)
	}

	return &chatbot.HistoryResponse{
		SessionID: sessionID,
		Items:     items,
	}, nil
}

func (s *chatbotService) ClearSessionHistory(ctx context.Context, sessionID string) error {
	sessionID, err := s.utils.CanonicalULID(sessionID)
	if err != nil {
		return chatbot.ErrInvalidSessionID
	}
	ctx = contextPkg.WithSessionID(ctx, sessionID)

	if err := s.redisServer.DeleteHistory(ctx, sessionID); err != nil {
		log.FromContext(s.log, ctx).WithError(err).Error("Failed to clear session history")
		return chatbot.ErrHistoryUnavailable
	}

	return nil
}
