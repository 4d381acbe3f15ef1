package config

import (
	"SikshaMantra/database/postgres"
	chatbotHandler "SikshaMantra/internal/api/chatbot/handler"
	chatbotRepository "SikshaMantra/internal/api/chatbot/repository"
	chatbotService "SikshaMantra/internal/api/chatbot/service"
	"SikshaMantra/internal/middleware"
	"SikshaMantra/pkg/nlp"
	"SikshaMantra/pkg/redis"
	"SikshaMantra/pkg/utils"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	db            *sqlx.DB
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	redisServer   redis.IRedis
	matcher       nlp.IMatcher
	chatbotConfig *chatbotService.ChatbotConfig
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithMatcher loads the chatbot corpus from CHATBOT_CORPUS_PATH, falling back
// to the embedded default corpus.
func WithMatcher() ServerOption {
	return func(s *Server) error {
		corpus, source, err := loadCorpus()
		if err != nil {
			return fmt.Errorf("failed to load chatbot corpus: %w", err)
		}

		matcher, err := nlp.NewMatcher(corpus)
		if err != nil {
			return fmt.Errorf("failed to create matcher: %w", err)
		}

		if s.log != nil {
			s.log.WithFields(logrus.Fields{
				"source":  source,
				"intents": len(corpus.Intents),
				"faqs":    len(corpus.FAQ),
			}).Info("Chatbot corpus loaded")
		}

		s.matcher = matcher
		return nil
	}
}

func WithChatbotConfig() ServerOption {
	return func(s *Server) error {
		cfg, err := ChatbotConfigFromEnv()
		if err != nil {
			return err
		}
		s.chatbotConfig = cfg
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Chatbot Domain
	chatRepo := chatbotRepository.New(s.db, s.log)
	chatServices := chatbotService.NewChatbotService(s.log, chatRepo, s.redisServer, s.utils, s.matcher, s.chatbotConfig)
	chatHandlers := chatbotHandler.New(s.log, s.validator, s.middleware, chatServices)

	// Global middleware must be registered before any route, the health check included.
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	s.setupHealthCheck()
	s.handlers = append(s.handlers, chatHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	if s.redisServer != nil {
		if closeErr := s.redisServer.Close(); closeErr != nil {
			s.log.Warnf("Failed to close redis: %v", closeErr)
		}
	}
	if s.db != nil {
		if closeErr := s.db.Close(); closeErr != nil {
			s.log.Warnf("Failed to close database: %v", closeErr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"time":    time.Now().UTC(),
		})
	})
}
