package entity

import "time"

type ChatSource string

const (
	ChatSourceIntent   ChatSource = "intent"
	ChatSourceFAQ      ChatSource = "faq"
	ChatSourceFallback ChatSource = "fallback"
)

var ChatSources = []ChatSource{ChatSourceIntent, ChatSourceFAQ, ChatSourceFallback}

func (s ChatSource) String() string {
	return string(s)
}

type ChatMessage struct {
	ID        string     `db:"id"`
	SessionID string     `db:"session_id"`
	UserID    string     `db:"user_id"`
	Message   string     `db:"message"`
	Reply     string     `db:"reply"`
	Source    ChatSource `db:"source"`
	Matched   string     `db:"matched"`
	Score     float64    `db:"score"`
	CreatedAt time.Time  `db:"created_at"`
}
