package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrSlotConflict means the requested slot overlaps an existing booking at
// the same facility.
var ErrSlotConflict = errors.New("booking slot conflict")

type Booking struct {
	ID           int64
	CaseID       string
	FacilityID   int64
	PatientPhone string
	PatientName  string
	Reason       string
	StartsAt     time.Time
	EndsAt       time.Time
}

type Bookings struct {
	db *sql.DB
}

func NewBookings(db *sql.DB) *Bookings {
	return &Bookings{db: db}
}

// HasConflict reports whether [startsAt, endsAt) overlaps any existing
// booking at the facility. Exact overlap arithmetic lives here, not in the
// routing core.
func (b *Bookings) HasConflict(ctx context.Context, facilityID int64, startsAt, endsAt time.Time) (bool, error) {
	query := `SELECT COUNT(1) FROM bookings WHERE facility_id = ? AND starts_at < ? AND ends_at > ?`

	var count int
	if err := b.db.QueryRowContext(ctx, query, facilityID, endsAt, startsAt).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}
	return count > 0, nil
}

// Create persists a booking after rejecting overlapping slots.
func (b *Bookings) Create(ctx context.Context, booking Booking) error {
	if !booking.EndsAt.After(booking.StartsAt) {
		return fmt.Errorf("booking ends at or before it starts")
	}

	conflict, err := b.HasConflict(ctx, booking.FacilityID, booking.StartsAt, booking.EndsAt)
	if err != nil {
		return err
	}
	if conflict {
		return ErrSlotConflict
	}

	query := `INSERT INTO bookings (case_id, facility_id, patient_phone, patient_name, reason, starts_at, ends_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = b.db.ExecContext(ctx, query, booking.CaseID, booking.FacilityID,
		booking.PatientPhone, booking.PatientName, booking.Reason, booking.StartsAt, booking.EndsAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (b *Bookings) ListByPhone(ctx context.Context, phoneNumber string) ([]Booking, error) {
	query := `SELECT id, case_id, facility_id, patient_phone, patient_name, reason, starts_at, ends_at
	          FROM bookings WHERE patient_phone = ? ORDER BY starts_at`

	rows, err := b.db.QueryContext(ctx, query, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var bk Booking
		if err := rows.Scan(&bk.ID, &bk.CaseID, &bk.FacilityID, &bk.PatientPhone,
			&bk.PatientName, &bk.Reason, &bk.StartsAt, &bk.EndsAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, bk)
	}
	return out, rows.Err()
}
