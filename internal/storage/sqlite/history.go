package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/pkg/log"
)

// History is the append-only chat log, keyed by phone number. Transports
// write both sides of a turn; the workflow core only reads through the
// context built from it.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

func (h *History) AddMessage(ctx context.Context, phoneNumber string, msg convo.StoredMessage) error {
	kind := msg.Kind
	if kind == "" {
		kind = "text"
	}

	query := `INSERT INTO messages (phone_number, sender, kind, content) VALUES (?, ?, ?, ?)`
	if _, err := h.db.ExecContext(ctx, query, phoneNumber, msg.Sender, kind, msg.Content); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// GetRecent returns the last limit messages in chronological order.
func (h *History) GetRecent(ctx context.Context, phoneNumber string, limit int) ([]convo.StoredMessage, error) {
	query := `SELECT sender, kind, content, created_at FROM messages WHERE phone_number = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, phoneNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []convo.StoredMessage
	for rows.Next() {
		var msg convo.StoredMessage
		if err := rows.Scan(&msg.Sender, &msg.Kind, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returned newest first; the window wants oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Str("phone", phoneNumber).Msg("loaded history")
	return messages, nil
}
