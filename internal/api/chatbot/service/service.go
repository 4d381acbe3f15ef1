package chatbotService

import (
	"SikshaMantra/internal/api/chatbot"
	chatbotRepository "SikshaMantra/internal/api/chatbot/repository"
	"SikshaMantra/pkg/nlp"
	"SikshaMantra/pkg/redis"
	"SikshaMantra/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IChatbotService interface {
	SendMessage(ctx context.Context, req chatbot.SendMessageRequest) (*chatbot.MessageResponse, error)
	GetSuggestions(ctx context.Context) *chatbot.SuggestionsResponse
	GetSessionHistory(ctx context.Context, sessionID string) (*chatbot.HistoryResponse, error)
	ClearSessionHistory(ctx context.Context, sessionID string) error

	GetUnmatchedMessages(ctx context.Context, page, limit int) (*chatbot.UnmatchedResponse, error)
	GetChatStats(ctx context.Context) (*chatbot.ChatStats, error)
	ExplainMessage(ctx context.Context, req chatbot.ExplainRequest) (*chatbot.ExplainResponse, error)
}

type chatbotService struct {
	log         *logrus.Logger
	chatRepo    chatbotRepository.Repository
	redisServer redis.IRedis
	utils       utils.IUtils
	matcher     nlp.IMatcher
	config      *ChatbotConfig
}

type ChatbotConfig struct {
	HistoryLimit int64
	HistoryTTL   time.Duration
	MaxPageSize  int
}

func DefaultConfig() *ChatbotConfig {
	return &ChatbotConfig{
		HistoryLimit: 20,
		HistoryTTL:   60 * time.Minute,
		MaxPageSize:  100,
	}
}

func NewChatbotService(
	log *logrus.Logger,
	chatRepo chatbotRepository.Repository,
	redisServer redis.IRedis,
	utils utils.IUtils,
	matcher nlp.IMatcher,
	config *ChatbotConfig,
) IChatbotService {
	if config == nil {
		config = DefaultConfig()
	}

	return &chatbotService{
		log:         log,
		chatRepo:    chatRepo,
		redisServer: redisServer,
		utils:       utils,
		matcher:     matcher,
		config:      config,
	}
}
