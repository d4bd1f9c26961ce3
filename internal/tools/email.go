package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/reliefbot/internal/convo"
	"github.com/sandevgo/reliefbot/internal/storage/sqlite"
	"github.com/sandevgo/reliefbot/pkg/log"
)

const ToolSendBookingEmail = "send_booking_email"

const bookingEmailSchema = `
{
  "type": "object",
  "properties": {
    "facility_name": { "type": "string", "description": "Exact facility name as returned by the facility search tools" },
    "patient_name": { "type": "string" },
    "patient_phone": { "type": "string" },
    "reason": { "type": "string", "description": "Short reason for the visit" },
    "starts_at": { "type": "string", "description": "Appointment start in RFC3339, e.g. 2025-06-01T10:00:00+05:00" },
    "duration_minutes": { "type": "integer", "description": "Slot length, default 30" }
  },
  "required": ["facility_name", "patient_phone", "starts_at"]
}
`

type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type FacilityGetter interface {
	GetByName(ctx context.Context, name string) (sqlite.Facility, error)
}

type BookingCreator interface {
	Create(ctx context.Context, booking sqlite.Booking) error
}

// BookingEmail persists a booking (after the slot-conflict check) and
// notifies the facility by email.
type BookingEmail struct {
	sender     EmailSender
	facilities FacilityGetter
	bookings   BookingCreator
}

func NewBookingEmail(sender EmailSender, facilities FacilityGetter, bookings BookingCreator) *BookingEmail {
	return &BookingEmail{
		sender:     sender,
		facilities: facilities,
		bookings:   bookings,
	}
}

func (e *BookingEmail) SendBookingEmail(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		FacilityName    string `json:"facility_name"`
		PatientName     string `json:"patient_name"`
		PatientPhone    string `json:"patient_phone"`
		Reason          string `json:"reason"`
		StartsAt        string `json:"starts_at"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		return "", fmt.Errorf("invalid starts_at: %w", err)
	}
	if input.DurationMinutes <= 0 {
		input.DurationMinutes = 30
	}
	endsAt := startsAt.Add(time.Duration(input.DurationMinutes) * time.Minute)

	facility, err := e.facilities.GetByName(ctx, input.FacilityName)
	if err != nil {
		return "", err
	}

	booking := sqlite.Booking{
		CaseID:       uuid.NewString(),
		FacilityID:   facility.ID,
		PatientPhone: input.PatientPhone,
		PatientName:  input.PatientName,
		Reason:       input.Reason,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
	}
	if err := e.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, sqlite.ErrSlotConflict) {
			return "The requested slot is already taken at this facility. Please suggest a different time to the user.", nil
		}
		return "", err
	}

	subject := fmt.Sprintf("New appointment request: %s", startsAt.In(convo.Karachi()).Format("Mon 02 Jan 15:04"))
	body := fmt.Sprintf(
		"A new appointment was booked via %s.\n\nFacility: %s\nPatient: %s\nPhone: %s\nReason: %s\nSlot: %s - %s\nReference: %s\n",
		"ReliefBot",
		facility.Name,
		input.PatientName,
		input.PatientPhone,
		input.Reason,
		startsAt.In(convo.Karachi()).Format(time.RFC1123),
		endsAt.In(convo.Karachi()).Format("15:04"),
		booking.CaseID,
	)

	if facility.Email == "" {
		log.FromCtx(ctx).Warn().Str("facility", facility.Name).Msg("facility has no email, booking stored without notification")
		return fmt.Sprintf("Booking stored (reference %s), but the facility has no email on file.", booking.CaseID), nil
	}

	if err := e.sender.Send(ctx, facility.Email, subject, body); err != nil {
		// The booking record survives; only the notification failed.
		log.FromCtx(ctx).Error().Err(err).Str("facility", facility.Name).Msg("failed to send booking email")
		return fmt.Sprintf("Booking stored (reference %s), but the confirmation email could not be delivered.", booking.CaseID), nil
	}

	return fmt.Sprintf("Booking confirmed and facility notified by email. Reference: %s", booking.CaseID), nil
}

func (e *BookingEmail) GetDefinitions() map[string]Definition {
	return map[string]Definition{
		ToolSendBookingEmail: {
			Description: "Record an appointment booking and send a confirmation email to the facility",
			Schema:      json.RawMessage(bookingEmailSchema),
			Handler:     e.SendBookingEmail,
		},
	}
}
