package chatbotRepository

import (
	"SikshaMantra/internal/entity"
	contextPkg "SikshaMantra/pkg/context"
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"time"
)

type ChatMessageDB struct {
	ID        string          `db:"id"`
	SessionID string          `db:"session_id"`
	UserID    sql.NullString  `db:"user_id"`
	Message   string          `db:"message"`
	Reply     string          `db:"reply"`
	Source    string          `db:"source"`
	Matched   sql.NullString  `db:"matched"`
	Score     sql.NullFloat64 `db:"score"`
	CreatedAt time.Time       `db:"created_at"`
}

type sourceCountDB struct {
	Source string `db:"source"`
	Total  int    `db:"total"`
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *chatMessageRepository) CreateChatMessage(ctx context.Context, msg entity.ChatMessage) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         msg.ID,
		"session_id": msg.SessionID,
		"user_id":    nullString(msg.UserID),
		"message":    msg.Message,
		"reply":      msg.Reply,
		"source":     msg.Source.String(),
		"matched":    nullString(msg.Matched),
		"score":      msg.Score,
		"created_at": msg.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateChatMessage, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateChatMessage")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": msg.SessionID,
			"error":      err.Error(),
		}).Error("Database error when creating chat message")
		return err
	}

	return nil
}

func (r *chatMessageRepository) GetChatMessagesBySource(
	ctx context.Context,
	source entity.ChatSource,
	limit, offset int,
) ([]entity.ChatMessage, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"source": source.String(),
		"limit":  limit,
		"offset": offset,
	}

	var total int
	countQuery, countArgs, err := sqlx.Named(queryCountChatMessagesBySource, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountChatMessagesBySource named query preparation err")
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountChatMessagesBySource execution err")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryGetChatMessagesBySource, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatMessagesBySource named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []ChatMessageDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatMessagesBySource execution err")
		return nil, 0, err
	}

	messages := make([]entity.ChatMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, r.makeChatMessage(row))
	}

	return messages, total, nil
}

func (r *chatMessageRepository) CountChatMessagesBySource(ctx context.Context) (map[entity.ChatSource]int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var rows []sourceCountDB
	if err := r.q.SelectContext(ctx, &rows, queryCountChatMessagesGroupedBySource); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountChatMessagesBySource execution err")
		return nil, err
	}

	counts := make(map[entity.ChatSource]int, len(entity.ChatSources))
	for _, source := range entity.ChatSources {
		counts[source] = 0
	}
	for _, row := range rows {
		counts[entity.ChatSource(row.Source)] = row.Total
	}

	return counts, nil
}

func (r *chatMessageRepository) makeChatMessage(row ChatMessageDB) entity.ChatMessage {
	return entity.ChatMessage{
		ID:        row.ID,
		SessionID: row.SessionID,
		UserID:    row.UserID.String,
		Message:   row.Message,
		Reply:     row.Reply,
		Source:    entity.ChatSource(row.Source),
		Matched:   row.Matched.String,
		Score:     row.Score.Float64,
		CreatedAt: row.CreatedAt,
	}
}
