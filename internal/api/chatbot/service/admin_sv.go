package chatbotService

import (
	"SikshaMantra/internal/api/chatbot"
	"SikshaMantra/internal/entity"
	"SikshaMantra/pkg/log"
	"context"
	"time"
)

func (s *chatbotService) GetUnmatchedMessages(ctx context.Context, page, limit int) (*chatbot.UnmatchedResponse, error) {
	offset, size := s.utils.Paginate(page, limit, s.config.MaxPageSize)

	repo, err := s.chatRepo.NewClient(false)
	if err != nil {
		log.FromContext(s.log, ctx).WithError(err).Error("Failed to create repository client")
		return nil, chatbot.ErrChatLogUnavailable
	}

	messages, total, err := repo.ChatMessages.GetChatMessagesBySource(ctx, entity.ChatSourceFallback, size, offset)
	if err != nil {
		log.FromContext(s.log, ctx).WithError(err).Error("Failed to get unmatched messages")
		return nil, chatbot.ErrChatLogUnavailable
	}

	logs := make([]chatbot.ChatLog, 0, len(messages))
	for _, msg := range messages {
		logs = append(logs, chatbot.ChatLog{
			ID:        msg.ID,
			SessionID: msg.SessionID,
			UserID:    msg.UserID,
			Message:   msg.Message,
			Reply:     msg.Reply,
			Source:    msg.Source.String(),
			Matched:   msg.Matched,
			Score:     msg.Score,
			CreatedAt: msg.CreatedAt,
		})
	}

	return &chatbot.UnmatchedResponse{
		Messages: logs,
		Total:    total,
		Page:     offset/size + 1,
		Limit:    size,
	}, nil
}

func (s *chatbotService) GetChatStats(ctx context.Context) (*chatbot.ChatStats, error) {
	repo, err := s.chatRepo.NewClient(false)
	if err != nil {
		log.FromContext(s.log, ctx).WithError(err).Error("Failed to create repository client")
		return nil, chatbot.ErrChatLogUnavailable
	}

	counts, err := repo.ChatMessages.CountChatMessagesBySource(ctx)
	if err != nil {
		log.FromContext(s.log, ctx).WithError(err).Error("Failed to count chat messages")
		return nil, chatbot.ErrChatLogUnavailable
	}

	stats := &chatbot.ChatStats{
		BySource: make(map[string]int, len(entity.ChatSources)),
	}
	for _, source := range entity.ChatSources {
		stats.BySource[source.String()] = counts[source]
		stats.TotalMessages += counts[source]
	}

	if stats.TotalMessages > 0 {
		matched := counts[entity.ChatSourceIntent] + counts[entity.ChatSourceFAQ]
		stats.MatchRate = float64(matched) / float64(stats.TotalMessages)
	}

	return stats, nil
}

func (s *chatbotService) ExplainMessage(ctx context.Context, req chatbot.ExplainRequest) (*chatbot.ExplainResponse, error) {
	start := time.Now()
	explanation := s.matcher.Explain(req.Message)

	return &chatbot.ExplainResponse{
		Input:          explanation.Input,
		NormalizedText: explanation.NormalizedText,
		Tokens:         explanation.Tokens,
		BestIntent:     explanation.BestIntent,
		IntentScore:    explanation.IntentScore,
		BestQuestion:   explanation.BestQuestion,
		FAQScore:       explanation.FAQScore,
		Source:         string(explanation.Source),
		ProcessingTime: time.Since(start).String(),
	}, nil
}
