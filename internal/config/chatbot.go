package config

import (
	chatbotService "SikshaMantra/internal/api/chatbot/service"
	"SikshaMantra/pkg/nlp"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	envCorpusPath        = "CHATBOT_CORPUS_PATH"
	envHistoryLimit      = "CHATBOT_HISTORY_LIMIT"
	envHistoryTTLMinutes = "CHATBOT_HISTORY_TTL_MINUTES"
)

func loadCorpus() (nlp.Corpus, string, error) {
	if path := os.Getenv(envCorpusPath); path != "" {
		corpus, err := nlp.LoadCorpusFile(path)
		return corpus, path, err
	}

	corpus, err := nlp.DefaultCorpus()
	return corpus, "embedded", err
}

// ChatbotConfigFromEnv starts from chatbotService.DefaultConfig and applies the
// history overrides. Values must be positive integers.
func ChatbotConfigFromEnv() (*chatbotService.ChatbotConfig, error) {
	cfg := chatbotService.DefaultConfig()

	if raw := os.Getenv(envHistoryLimit); raw != "" {
		limit, err := positiveInt(envHistoryLimit, raw)
		if err != nil {
			return nil, err
		}
		cfg.HistoryLimit = int64(limit)
	}

	if raw := os.Getenv(envHistoryTTLMinutes); raw != "" {
		minutes, err := positiveInt(envHistoryTTLMinutes, raw)
		if err != nil {
			return nil, err
		}
		cfg.HistoryTTL = time.Duration(minutes) * time.Minute
	}

	return cfg, nil
}

func positiveInt(key, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}
