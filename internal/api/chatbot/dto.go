package chatbot

import (
	"time"
)

const MaxMessageLength = 1000

type SendMessageRequest struct {
	Message   string `json:"message" validate:"max=1000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,len=26,alphanum"`
	UserID    string `json:"-"`
}

type MessageResponse struct {
	SessionID string  `json:"session_id"`
	Reply     string  `json:"reply"`
	Source    string  `json:"source"`
	Matched   string  `json:"matched,omitempty"`
	Score     float64 `json:"score"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type HistoryItem struct {
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Items     []HistoryItem `json:"items"`
}

type ChatLog struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Source    string    `json:"source"`
	Matched   string    `json:"matched,omitempty"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type UnmatchedResponse struct {
	Messages []ChatLog `json:"messages"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

type ChatStats struct {
	TotalMessages int            `json:"total_messages"`
	BySource      map[string]int `json:"by_source"`
	MatchRate     float64        `json:"match_rate"`
}

type ExplainRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

type ExplainResponse struct {
	Input          string   `json:"input"`
	NormalizedText string   `json:"normalized_text"`
	Tokens         []string `json:"tokens"`
	BestIntent     string   `json:"best_intent,omitempty"`
	IntentScore    float64  `json:"intent_score"`
	BestQuestion   string   `json:"best_question,omitempty"`
	FAQScore       float64  `json:"faq_score"`
	Source         string   `json:"source"`
	ProcessingTime string   `json:"processing_time"`
}
