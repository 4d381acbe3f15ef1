package chatbotService

import (
	"SikshaMantra/internal/api/chatbot"
	chatbotRepository "SikshaMantra/internal/api/chatbot/repository"
	"SikshaMantra/internal/entity"
	"SikshaMantra/pkg/nlp"
	"SikshaMantra/pkg/utils"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatMessages struct {
	mu        sync.Mutex
	messages  []entity.ChatMessage
	createErr error
	queryErr  error
	counts    map[entity.ChatSource]int

	lastLimit, lastOffset int
}

func (f *fakeChatMessages) CreateChatMessage(ctx context.Context, msg entity.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeChatMessages) GetChatMessagesBySource(ctx context.Context, source entity.ChatSource, limit, offset int) ([]entity.ChatMessage, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit, f.lastOffset = limit, offset
	if f.queryErr != nil {
		return nil, 0, f.queryErr
	}

	var matched []entity.ChatMessage
	for _, msg := range f.messages {
		if msg.Source == source {
			matched = append(matched, msg)
		}
	}
	total := len(matched)
	if offset >= total {
		return []entity.ChatMessage{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (f *fakeChatMessages) CountChatMessagesBySource(ctx context.Context) (map[entity.ChatSource]int, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.counts, nil
}

type fakeRepository struct {
	messages  *fakeChatMessages
	clientErr error
}

func (f *fakeRepository) NewClient(tx bool) (chatbotRepository.Client, error) {
	if f.clientErr != nil {
		return chatbotRepository.Client{}, f.clientErr
	}
	return chatbotRepository.Client{
		ChatMessages: f.messages,
		Commit:       func() error { return nil },
		Rollback:     func() error { return nil },
	}, nil
}

type fakeRedis struct {
	mu      sync.Mutex
	history map[string][]string
	err     error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{history: map[string][]string{}}
}

func (f *fakeRedis) AppendHistory(ctx context.Context, sessionID string, entry string, limit int64, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	list := append(f.history[sessionID], entry)
	if limit > 0 && int64(len(list)) > limit {
		list = list[int64(len(list))-limit:]
	}
	f.history[sessionID] = list
	return nil
}

func (f *fakeRedis) GetHistory(ctx context.Context, sessionID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]string{}, f.history[sessionID]...), nil
}

func (f *fakeRedis) DeleteHistory(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.history, sessionID)
	return nil
}

func (f *fakeRedis) Close() error { return nil }

type firstSource struct{}

func (firstSource) IntN(int) int { return 0 }

type testDeps struct {
	svc      IChatbotService
	messages *fakeChatMessages
	repo     *fakeRepository
	redis    *fakeRedis
}

func newTestService(t *testing.T, cfg *ChatbotConfig) testDeps {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	matcher, err := nlp.NewMatcher(nlp.Corpus{
		Intents: []nlp.Intent{
			{Tag: "register_student", Patterns: []string{"how do i register as a student"}, Responses: []string{"Visit /register and choose Student."}},
			{Tag: "payment", Patterns: []string{"how do i pay with esewa"}, Responses: []string{"Use eSewa at checkout.", "Pay via eSewa."}},
		},
		FAQ: []nlp.FAQEntry{
			{Question: "can i get a refund for a course", Answer: "Within 7 days."},
		},
	}, nlp.WithRandomSource(firstSource{}))
	require.NoError(t, err)

	messages := &fakeChatMessages{}
	repo := &fakeRepository{messages: messages}
	redisServer := newFakeRedis()

	return testDeps{
		svc:      NewChatbotService(logger, repo, redisServer, utils.New(), matcher, cfg),
		messages: messages,
		repo:     repo,
		redis:    redisServer,
	}
}

func TestSendMessage_IntentReply(t *testing.T) {
	deps := newTestService(t, nil)

	resp, err := deps.svc.SendMessage(context.Background(), chatbot.SendMessageRequest{
		Message: "How do I register as a student?",
		UserID:  "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Visit /register and choose Student.", resp.Reply)
	assert.Equal(t, "intent", resp.Source)
	assert.Equal(t, "register_student", resp.Matched)
	assert.Len(t, resp.SessionID, 26)

	require.Len(t, deps.messages.messages, 1)
	saved := deps.messages.messages[0]
	assert.Equal(t, resp.SessionID, saved.SessionID)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, entity.ChatSourceIntent, saved.Source)
	assert.Len(t, saved.ID, 26)

	assert.Len(t, deps.redis.history[resp.SessionID], 1)
}

func TestSendMessage_FAQAndFallback(t *testing.T) {
	deps := newTestService(t, nil)
	ctx := context.Background()

	resp, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: "Can I get a refund for a course?"})
	require.NoError(t, err)
	assert.Equal(t, "Within 7 days.", resp.Reply)
	assert.Equal(t, "faq", resp.Source)

	resp, err = deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: ""})
	require.NoError(t, err)
	assert.Equal(t, nlp.FallbackResponse, resp.Reply)
	assert.Equal(t, "fallback", resp.Source)
	assert.Zero(t, resp.Score)
}

func TestSendMessage_KeepsSession(t *testing.T) {
	deps := newTestService(t, nil)
	ctx := context.Background()

	first, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: "how do i pay with esewa"})
	require.NoError(t, err)

	second, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{
		Message:   "something else entirely",
		SessionID: first.SessionID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	history, err := deps.svc.GetSessionHistory(ctx, second.SessionID)
	require.NoError(t, err)
	require.Len(t, history.Items, 2)
	assert.Equal(t, nlp.FallbackResponse, history.Items[1].Reply)
}

func TestSendMessage_SessionIDIsCaseInsensitive(t *testing.T) {
	deps := newTestService(t, nil)
	ctx := context.Background()

	first, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: "how do i pay with esewa"})
	require.NoError(t, err)

	lower := strings.ToLower(first.SessionID)
	second, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: "hello", SessionID: lower})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)

	// Both spellings read and write one history list.
	assert.Len(t, deps.redis.history, 1)
	for _, id := range []string{first.SessionID, lower} {
		history, err := deps.svc.GetSessionHistory(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first.SessionID, history.SessionID)
		assert.Len(t, history.Items, 2)
	}

	require.Len(t, deps.messages.messages, 2)
	assert.Equal(t, first.SessionID, deps.messages.messages[1].SessionID)

	require.NoError(t, deps.svc.ClearSessionHistory(ctx, lower))
	assert.Empty(t, deps.redis.history[first.SessionID])
}

func TestSendMessage_InvalidSession(t *testing.T) {
	deps := newTestService(t, nil)

	_, err := deps.svc.SendMessage(context.Background(), chatbot.SendMessageRequest{
		Message:   "hello",
		SessionID: "not-a-ulid",
	})
	assert.ErrorIs(t, err, chatbot.ErrInvalidSessionID)
	assert.Empty(t, deps.messages.messages)
}

func TestSendMessage_TooLong(t *testing.T) {
	deps := newTestService(t, nil)

	_, err := deps.svc.SendMessage(context.Background(), chatbot.SendMessageRequest{
		Message: strings.Repeat("a", chatbot.MaxMessageLength+1),
	})
	assert.ErrorIs(t, err, chatbot.ErrMessageTooLong)
}

func TestSendMessage_StorageFailuresStillReply(t *testing.T) {
	deps := newTestService(t, nil)
	deps.messages.createErr = errors.New("db down")
	deps.redis.err = errors.New("redis down")

	resp, err := deps.svc.SendMessage(context.Background(), chatbot.SendMessageRequest{Message: "how do i pay with esewa"})
	require.NoError(t, err)
	assert.Equal(t, "Use eSewa at checkout.", resp.Reply)

	deps.repo.clientErr = errors.New("no connection")
	resp, err = deps.svc.SendMessage(context.Background(), chatbot.SendMessageRequest{Message: "how do i pay with esewa"})
	require.NoError(t, err)
	assert.Equal(t, "Use eSewa at checkout.", resp.Reply)
}

func TestGetSessionHistory(t *testing.T) {
	deps := newTestService(t, &ChatbotConfig{HistoryLimit: 2, HistoryTTL: time.Minute, MaxPageSize: 10})
	ctx := context.Background()

	first, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: "one"})
	require.NoError(t, err)
	for _, msg := range []string{"two", "three"} {
		_, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: msg, SessionID: first.SessionID})
		require.NoError(t, err)
	}

	history, err := deps.svc.GetSessionHistory(ctx, first.SessionID)
	require.NoError(t, err)
	require.Len(t, history.Items, 2)
	assert.Equal(t, "two", history.Items[0].Message)
	assert.Equal(t, "three", history.Items[1].Message)

	deps.redis.history[first.SessionID] = append(deps.redis.history[first.SessionID], "{broken")
	history, err = deps.svc.GetSessionHistory(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Len(t, history.Items, 2)
}

func TestGetSessionHistory_Errors(t *testing.T) {
	deps := newTestService(t, nil)
	ctx := context.Background()

	_, err := deps.svc.GetSessionHistory(ctx, "bad")
	assert.ErrorIs(t, err, chatbot.ErrInvalidSessionID)

	sessionID, err := utils.New().NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)

	history, err := deps.svc.GetSessionHistory(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, history.Items)

	deps.redis.err = errors.New("redis down")
	_, err = deps.svc.GetSessionHistory(ctx, sessionID)
	assert.ErrorIs(t, err, chatbot.ErrHistoryUnavailable)
}

func TestClearSessionHistory(t *testing.T) {
	deps := newTestService(t, nil)
	ctx := context.Background()

	resp, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: "how do i pay with esewa"})
	require.NoError(t, err)

	require.NoError(t, deps.svc.ClearSessionHistory(ctx, resp.SessionID))
	history, err := deps.svc.GetSessionHistory(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Empty(t, history.Items)

	assert.ErrorIs(t, deps.svc.ClearSessionHistory(ctx, "bad"), chatbot.ErrInvalidSessionID)

	deps.redis.err = errors.New("redis down")
	assert.ErrorIs(t, deps.svc.ClearSessionHistory(ctx, resp.SessionID), chatbot.ErrHistoryUnavailable)
}

func TestGetSuggestions(t *testing.T) {
	deps := newTestService(t, nil)

	resp := deps.svc.GetSuggestions(context.Background())
	assert.Len(t, resp.Suggestions, 5)
	assert.Equal(t, resp.Suggestions, deps.svc.GetSuggestions(context.Background()).Suggestions)
}

func TestGetUnmatchedMessages(t *testing.T) {
	deps := newTestService(t, &ChatbotConfig{HistoryLimit: 5, HistoryTTL: time.Minute, MaxPageSize: 2})
	ctx := context.Background()

	for _, msg := range []string{"how do i pay with esewa", "asdf", "qwerty", "zxcv"} {
		_, err := deps.svc.SendMessage(ctx, chatbot.SendMessageRequest{Message: msg})
		require.NoError(t, err)
	}

	resp, err := deps.svc.GetUnmatchedMessages(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, 1, resp.Page)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "asdf", resp.Messages[0].Message)

	resp, err = deps.svc.GetUnmatchedMessages(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, deps.messages.lastOffset)
	assert.Equal(t, 2, resp.Page)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "zxcv", resp.Messages[0].Message)

	deps.messages.queryErr = errors.New("db down")
	_, err = deps.svc.GetUnmatchedMessages(ctx, 1, 2)
	assert.ErrorIs(t, err, chatbot.ErrChatLogUnavailable)
}

func TestGetChatStats(t *testing.T) {
	deps := newTestService(t, nil)
	ctx := context.Background()

	deps.messages.counts = map[entity.ChatSource]int{
		entity.ChatSourceIntent:   6,
		entity.ChatSourceFAQ:      2,
		entity.ChatSourceFallback: 2,
	}

	stats, err := deps.svc.GetChatStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalMessages)
	assert.InDelta(t, 0.8, stats.MatchRate, 1e-9)
	assert.Equal(t, 2, stats.BySource["faq"])

	deps.messages.counts = map[entity.ChatSource]int{}
	stats, err = deps.svc.GetChatStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalMessages)
	assert.Zero(t, stats.MatchRate)
	assert.Len(t, stats.BySource, 3)

	deps.repo.clientErr = errors.New("no connection")
	_, err = deps.svc.GetChatStats(ctx)
	assert.ErrorIs(t, err, chatbot.ErrChatLogUnavailable)
}

func TestExplainMessage(t *testing.T) {
	deps := newTestService(t, nil)

	resp, err := deps.svc.ExplainMessage(context.Background(), chatbot.ExplainRequest{Message: "How do I pay with eSewa?"})
	require.NoError(t, err)
	assert.Equal(t, "how do i pay with esewa", resp.NormalizedText)
	assert.Equal(t, "payment", resp.BestIntent)
	assert.Equal(t, "intent", resp.Source)
	assert.NotEmpty(t, resp.ProcessingTime)
}
