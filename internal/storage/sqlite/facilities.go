package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	FacilityHospital = "hospital"
	FacilityPolice   = "police"
)

type Facility struct {
	ID        int64
	Kind      string
	Name      string
	Address   string
	City      string
	Phone     string
	Email     string
	Latitude  float64
	Longitude float64
	Services  string
}

type Facilities struct {
	db *sql.DB
}

func NewFacilities(db *sql.DB) *Facilities {
	return &Facilities{db: db}
}

// Search filters facilities of one kind by a free-text term over name, city
// and services. An empty term lists everything up to limit.
func (f *Facilities) Search(ctx context.Context, kind, term string, limit int) ([]Facility, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `SELECT id, kind, name, address, city, phone, email,
	                 COALESCE(latitude, 0), COALESCE(longitude, 0), services
	          FROM facilities WHERE kind = ?`
	args := []any{kind}

	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + term + "%"
		query += ` AND (name LIKE ? OR city LIKE ? OR services LIKE ?)`
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY name LIMIT ?`
	args = append(args, limit)

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query facilities: %w", err)
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		var fac Facility
		if err := rows.Scan(&fac.ID, &fac.Kind, &fac.Name, &fac.Address, &fac.City,
			&fac.Phone, &fac.Email, &fac.Latitude, &fac.Longitude, &fac.Services); err != nil {
			return nil, fmt.Errorf("failed to scan facility: %w", err)
		}
		out = append(out, fac)
	}
	return out, rows.Err()
}

func (f *Facilities) GetByName(ctx context.Context, name string) (Facility, error) {
	query := `SELECT id, kind, name, address, city, phone, email,
	                 COALESCE(latitude, 0), COALESCE(longitude, 0), services
	          FROM facilities WHERE name = ? LIMIT 1`

	var fac Facility
	err := f.db.QueryRowContext(ctx, query, name).Scan(&fac.ID, &fac.Kind, &fac.Name,
		&fac.Address, &fac.City, &fac.Phone, &fac.Email, &fac.Latitude, &fac.Longitude, &fac.Services)
	if err != nil {
		return Facility{}, fmt.Errorf("facility %q: %w", name, err)
	}
	return fac, nil
}

func (f *Facilities) Insert(ctx context.Context, fac Facility) error {
	query := `INSERT INTO facilities (kind, name, address, city, phone, email, latitude, longitude, services)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := f.db.ExecContext(ctx, query, fac.Kind, fac.Name, fac.Address, fac.City,
		fac.Phone, fac.Email, fac.Latitude, fac.Longitude, fac.Services)
	if err != nil {
		return fmt.Errorf("failed to insert facility: %w", err)
	}
	return nil
}
