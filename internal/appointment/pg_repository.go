package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const appointmentColumns = `id, appointment_date, start_time, duration_minutes, calendar_id, lead_name, collaborators, created_at, updated_at`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var collaborators []string

	err := row.Scan(
		&a.ID,
		&a.Date,
		&a.Time,
		&a.Duration,
		&a.CalendarID,
		&a.LeadName,
		&collaborators,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Date = CalendarDay(a.Date)
	a.Time = strings.TrimSpace(a.Time)
	a.Collaborators = collaborators
	return &a, nil
}

// Interface methods

func (r *PgRepository) List(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE appointment_date >= $1
		  AND appointment_date < $2
		ORDER BY appointment_date, created_at, id
	`, CalendarDay(from), CalendarDay(to))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	result := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	collaborators := a.Collaborators
	if collaborators == nil {
		collaborators = []string{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, appointment_date, start_time, duration_minutes, calendar_id, lead_name, collaborators, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+appointmentColumns+`
	`, a.ID, CalendarDay(a.Date), a.Time, a.Duration, a.CalendarID, a.LeadName, collaborators)

	created, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return created, nil
}

// Update writes only the date, time and duration columns named by the patch.
func (r *PgRepository) Update(ctx context.Context, id uuid.UUID, p Patch) (*Appointment, error) {
	var date *time.Time
	if p.Date != nil {
		d := CalendarDay(*p.Date)
		date = &d
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET appointment_date = COALESCE($2::date, appointment_date),
		    start_time = COALESCE($3::text, start_time),
		    duration_minutes = COALESCE($4::int, duration_minutes),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, date, p.Time, p.Duration)

	return scanAppointment(row)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
