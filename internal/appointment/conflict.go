package appointment

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DelayBuffer is the gap left after the conflicting appointment when a move
// is resolved by delaying it.
const DelayBuffer = 10

var (
	ErrInvalidTransition = errors.New("invalid reschedule transition")
	ErrOutsideDay        = errors.New("appointment would end after midnight")
	ErrUnknownResolution = errors.New("unknown conflict resolution")
)

// DetectConflict returns the existing appointment that the candidate would
// collide with at targetDate/targetTime, or nil. When several collide, the
// earliest-starting one wins; equal starts keep collection order.
func DetectConflict(candidate Appointment, targetDate time.Time, targetTime string, existing []Appointment) (*Appointment, error) {
	start, err := ParseClock(targetTime)
	if err != nil {
		return nil, err
	}
	if candidate.Duration <= 0 {
		return nil, &InvalidAppointmentError{Field: "duration", Value: fmt.Sprint(candidate.Duration), Reason: "must be greater than zero"}
	}
	end := start + candidate.Duration

	var found *Appointment
	for i := range existing {
		other := existing[i]
		if other.ID == candidate.ID || !SameCalendarDay(other.Date, targetDate) {
			continue
		}
		if !Overlaps(start, end, other.StartMinutes(), other.EndMinutes()) {
			continue
		}
		if found == nil || other.StartMinutes() < found.StartMinutes() {
			found = &existing[i]
		}
	}
	if found == nil {
		return nil, nil
	}
	c := *found
	return &c, nil
}

type RescheduleState string

const (
	StateConflictPresented RescheduleState = "conflict_presented"
	StateCommitted         RescheduleState = "committed"
	StateDiscarded         RescheduleState = "discarded"
)

type Resolution string

const (
	ResolutionNone    Resolution = ""
	ResolutionConfirm Resolution = "confirm"
	ResolutionDelay   Resolution = "delay"
	ResolutionCancel  Resolution = "cancel"
)

func ParseResolution(s string) (Resolution, error) {
	switch r := Resolution(strings.ToLower(strings.TrimSpace(s))); r {
	case ResolutionNone, ResolutionConfirm, ResolutionDelay, ResolutionCancel:
		return r, nil
	default:
		return ResolutionNone, fmt.Errorf("%w: %q", ErrUnknownResolution, s)
	}
}

// Reschedule is one pending move of a candidate appointment. It starts
// either Committed (no conflict) or ConflictPresented, and the three
// resolutions move it to a terminal state.
type Reschedule struct {
	Candidate   Appointment
	Conflict    *Appointment
	TargetDate  time.Time
	TargetTime  string
	NewDuration *int
	State       RescheduleState
}

// PlanReschedule checks the target against existing. A non-nil newDuration
// turns the move into a resize.
func PlanReschedule(candidate Appointment, targetDate time.Time, targetTime string, newDuration *int, existing []Appointment) (*Reschedule, error) {
	probe := candidate
	if newDuration != nil {
		probe.Duration = *newDuration
	}
	conflict, err := DetectConflict(probe, targetDate, targetTime, existing)
	if err != nil {
		return nil, err
	}
	if start, _ := ParseClock(targetTime); start+probe.Duration > MinutesPerDay {
		return nil, ErrOutsideDay
	}

	r := &Reschedule{
		Candidate:   candidate,
		Conflict:    conflict,
		TargetDate:  CalendarDay(targetDate),
		TargetTime:  targetTime,
		NewDuration: newDuration,
		State:       StateCommitted,
	}
	if conflict != nil {
		r.State = StateConflictPresented
	}
	return r, nil
}

func (r *Reschedule) duration() int {
	if r.NewDuration != nil {
		return *r.NewDuration
	}
	return r.Candidate.Duration
}

// Confirm keeps the requested slot and accepts the double booking.
func (r *Reschedule) Confirm() error {
	if r.State != StateConflictPresented {
		return fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, r.State)
	}
	r.State = StateCommitted
	return nil
}

// Delay starts the candidate DelayBuffer minutes after the conflicting
// appointment ends, on the same target date.
func (r *Reschedule) Delay() error {
	if r.State != StateConflictPresented {
		return fmt.Errorf("%w: delay from %s", ErrInvalidTransition, r.State)
	}
	start := r.Conflict.EndMinutes() + DelayBuffer
	if start+r.duration() > MinutesPerDay {
		return ErrOutsideDay
	}
	r.TargetTime = FormatClock(start)
	r.State = StateCommitted
	return nil
}

func (r *Reschedule) Cancel() error {
	if r.State != StateConflictPresented {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, r.State)
	}
	r.State = StateDiscarded
	return nil
}

func (r *Reschedule) Resolve(res Resolution) error {
	switch res {
	case ResolutionConfirm:
		return r.Confirm()
	case ResolutionDelay:
		return r.Delay()
	case ResolutionCancel:
		return r.Cancel()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResolution, res)
	}
}

// Patch is what must be persisted. It is empty unless the move is committed.
func (r *Reschedule) Patch() Patch {
	if r.State != StateCommitted {
		return Patch{}
	}
	date := r.TargetDate
	clock := r.TargetTime
	p := Patch{Date: &date, Time: &clock}
	if r.NewDuration != nil {
		d := *r.NewDuration
		p.Duration = &d
	}
	return p
}

// Apply returns the candidate as it looks after the move.
func (r *Reschedule) Apply() Appointment {
	return r.Patch().ApplyTo(r.Candidate)
}
