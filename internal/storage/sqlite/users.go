package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/reliefbot/internal/convo"
)

type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// Upsert creates the user on first contact and refreshes any profile fields
// the channel supplied since.
func (u *Users) Upsert(ctx context.Context, p convo.Profile) error {
	query := `
		INSERT INTO users (phone_number, username, address, email) VALUES (?, ?, ?, ?)
		ON CONFLICT(phone_number) DO UPDATE SET
			username = CASE WHEN excluded.username != '' THEN excluded.username ELSE users.username END,
			address  = CASE WHEN excluded.address  != '' THEN excluded.address  ELSE users.address  END,
			email    = CASE WHEN excluded.email    != '' THEN excluded.email    ELSE users.email    END`

	if _, err := u.db.ExecContext(ctx, query, p.PhoneNumber, p.Username, p.Address, p.Email); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (u *Users) Get(ctx context.Context, phoneNumber string) (convo.Profile, error) {
	query := `SELECT phone_number, username, address, email FROM users WHERE phone_number = ?`

	var p convo.Profile
	var username, address, email sql.NullString
	err := u.db.QueryRowContext(ctx, query, phoneNumber).Scan(&p.PhoneNumber, &username, &address, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return convo.Profile{PhoneNumber: phoneNumber}, nil
	}
	if err != nil {
		return convo.Profile{}, fmt.Errorf("failed to query user: %w", err)
	}

	p.Username = username.String
	p.Address = address.String
	p.Email = email.String
	return p, nil
}
