package chatbotRepository

const (
	queryCreateChatMessage = `
		INSERT INTO chat_messages (
			id, session_id, user_id, message, reply,
			source, matched, score, created_at
		) VALUES (
			:id, :session_id, :user_id, :message, :reply,
			:source, :matched, :score, :created_at
		)
	`

	queryGetChatMessagesBySource = `
		SELECT
			id, session_id, user_id, message, reply,
			source, matched, score, created_at
		FROM chat_messages
		WHERE source = :source
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountChatMessagesBySource = `
		SELECT COUNT(*)
		FROM chat_messages
		WHERE source = :source
	`

	queryCountChatMessagesGroupedBySource = `
		SELECT source, COUNT(*) AS total
		FROM chat_messages
		GROUP BY source
	`
)
