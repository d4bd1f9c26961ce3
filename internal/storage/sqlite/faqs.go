package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type FAQ struct {
	ID       int64
	Topic    string
	Question string
	Answer   string
}

type FAQs struct {
	db *sql.DB
}

func NewFAQs(db *sql.DB) *FAQs {
	return &FAQs{db: db}
}

// Search matches any keyword of the query against topic, question and answer.
// Deliberately cheap: this backs the degraded-performer lane's only tool.
func (f *FAQs) Search(ctx context.Context, query string, limit int) ([]FAQ, error) {
	if limit <= 0 {
		limit = 3
	}

	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil, nil
	}

	var conditions []string
	var args []any
	for _, w := range words {
		pattern := "%" + w + "%"
		conditions = append(conditions, `(LOWER(topic) LIKE ? OR LOWER(question) LIKE ? OR LOWER(answer) LIKE ?)`)
		args = append(args, pattern, pattern, pattern)
	}

	stmt := `SELECT id, topic, question, answer FROM faqs WHERE ` +
		strings.Join(conditions, " OR ") + ` LIMIT ?`
	args = append(args, limit)

	rows, err := f.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query faqs: %w", err)
	}
	defer rows.Close()

	var out []FAQ
	for rows.Next() {
		var faq FAQ
		if err := rows.Scan(&faq.ID, &faq.Topic, &faq.Question, &faq.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan faq: %w", err)
		}
		out = append(out, faq)
	}
	return out, rows.Err()
}

func (f *FAQs) Insert(ctx context.Context, faq FAQ) error {
	query := `INSERT INTO faqs (topic, question, answer) VALUES (?, ?, ?)`
	if _, err := f.db.ExecContext(ctx, query, faq.Topic, faq.Question, faq.Answer); err != nil {
		return fmt.Errorf("failed to insert faq: %w", err)
	}
	return nil
}
