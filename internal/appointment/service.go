package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackgods/brokerage-crm/internal/config"
	redisclient "github.com/hackgods/brokerage-crm/internal/redis"
)

const (
	EventAppointmentCreated       = "APPOINTMENT_CREATED"
	EventAppointmentRescheduled   = "APPOINTMENT_RESCHEDULED"
	EventAppointmentMoveCancelled = "APPOINTMENT_MOVE_CANCELLED"
)

var (
	ErrDayBeingRescheduled = errors.New("calendar day is being rescheduled, please retry")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	cfg    config.Config
	logger *zap.Logger
}

func NewService(repo Repository, locker redisclient.Locker, cfg config.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		cfg:    cfg,
		logger: logger,
	}
}

// MoveRequest describes a drag-and-drop move, a resize (Duration set), or
// both. Resolution is only consulted when the target conflicts.
type MoveRequest struct {
	Date       time.Time
	Time       string
	Duration   *int
	Resolution Resolution
}

type MoveResult struct {
	State       RescheduleState
	Appointment Appointment
	Conflict    *Appointment
}

// Move reschedules an appointment. With a conflict and no resolution it
// returns StateConflictPresented and writes nothing.
func (s *Service) Move(ctx context.Context, id uuid.UUID, req MoveRequest) (*MoveResult, error) {
	if _, err := ParseClock(req.Time); err != nil {
		return nil, err
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return nil, &InvalidAppointmentError{Field: "duration", Value: fmt.Sprint(*req.Duration), Reason: "must be greater than zero"}
	}
	day := CalendarDay(req.Date)

	var result *MoveResult
	err := s.locker.WithDayLock(ctx, day, func(lockCtx context.Context) error {
		candidate, err := s.repo.Get(lockCtx, id)
		if err != nil {
			return fmt.Errorf("load appointment: %w", err)
		}

		existing, err := s.repo.List(lockCtx, day, day.AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("list appointments: %w", err)
		}

		plan, err := PlanReschedule(*candidate, day, req.Time, req.Duration, existing)
		if err != nil {
			return err
		}

		if plan.State == StateConflictPresented {
			if req.Resolution == ResolutionNone {
				result = &MoveResult{State: plan.State, Appointment: *candidate, Conflict: plan.Conflict}
				return nil
			}
			if err := plan.Resolve(req.Resolution); err != nil {
				return err
			}
		}

		if plan.State == StateDiscarded {
			s.logEvent(lockCtx, candidate.ID, EventAppointmentMoveCancelled, map[string]any{
				"requested_date": day.Format(DateLayout),
				"requested_time": req.Time,
				"conflict_id":    plan.Conflict.ID.String(),
			})
			result = &MoveResult{State: plan.State, Appointment: *candidate, Conflict: plan.Conflict}
			return nil
		}

		updated, err := s.repo.Update(lockCtx, candidate.ID, plan.Patch())
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		payload := map[string]any{
			"from_date":  candidate.Date.Format(DateLayout),
			"from_time":  candidate.Time,
			"to_date":    updated.Date.Format(DateLayout),
			"to_time":    updated.Time,
			"duration":   updated.Duration,
			"resolution": string(req.Resolution),
		}
		if plan.Conflict != nil {
			payload["conflict_id"] = plan.Conflict.ID.String()
		}
		s.logEvent(lockCtx, updated.ID, EventAppointmentRescheduled, payload)

		result = &MoveResult{State: StateCommitted, Appointment: *updated, Conflict: plan.Conflict}
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrDayBeingRescheduled
		}
		return nil, err
	}

	s.logger.Info("appointment move",
		zap.String("appointment_id", id.String()),
		zap.String("state", string(result.State)),
		zap.String("date", result.Appointment.Date.Format(DateLayout)),
		zap.String("time", result.Appointment.Time),
	)

	return result, nil
}

// Create validates and stores a new appointment. Overlaps are allowed here;
// only moves go through conflict resolution.
func (s *Service) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	a.Date = CalendarDay(a.Date)
	if err := a.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logEvent(ctx, created.ID, EventAppointmentCreated, map[string]any{
		"date":        created.Date.Format(DateLayout),
		"time":        created.Time,
		"duration":    created.Duration,
		"calendar_id": created.CalendarID,
	})

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("failed to marshal event payload", zap.String("event", eventType), zap.Error(err))
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.logger.Warn("failed to insert event log",
			zap.String("event", eventType),
			zap.String("appointment_id", appointmentID.String()),
			zap.Error(err),
		)
	}
}

// listVisible loads [from, to) and keeps the requested calendars. No
// calendars means all of them.
func (s *Service) listVisible(ctx context.Context, from, to time.Time, calendars []string) ([]Appointment, error) {
	appts, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if len(calendars) == 0 {
		return appts, nil
	}

	visible := make(map[string]bool, len(calendars))
	for _, c := range calendars {
		visible[c] = true
	}
	filtered := appts[:0]
	for _, a := range appts {
		if visible[a.CalendarID] {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}
