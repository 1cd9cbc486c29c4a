package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository is the data-access layer the scheduling core consumes. Dates
// passed in and returned are calendar days, see CalendarDay.
type Repository interface {
	// List returns appointments with from <= Date < to, ordered by date
	// and then insertion.
	List(ctx context.Context, from, to time.Time) ([]Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*Appointment, error)

	Create(ctx context.Context, a Appointment) (*Appointment, error)
	Update(ctx context.Context, id uuid.UUID, p Patch) (*Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
