package appointment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

var ErrInvalidAppointment = errors.New("invalid appointment")

// InvalidAppointmentError reports a field that cannot enter the layout or
// conflict logic.
type InvalidAppointmentError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidAppointmentError) Error() string {
	return fmt.Sprintf("invalid appointment %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidAppointmentError) Is(target error) bool {
	return target == ErrInvalidAppointment
}

type Appointment struct {
	ID            uuid.UUID
	Date          time.Time // UTC midnight, see CalendarDay
	Time          string    // "HH:MM", 24h
	Duration      int       // minutes
	CalendarID    string
	LeadName      string
	Collaborators []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StartMinutes is derived from Time on every call. It returns 0 for a
// malformed clock; call Validate first.
func (a Appointment) StartMinutes() int {
	m, err := ParseClock(a.Time)
	if err != nil {
		return 0
	}
	return m
}

func (a Appointment) EndMinutes() int {
	return a.StartMinutes() + a.Duration
}

func (a Appointment) Validate() error {
	start, err := ParseClock(a.Time)
	if err != nil {
		return err
	}
	if a.Duration <= 0 {
		return &InvalidAppointmentError{Field: "duration", Value: strconv.Itoa(a.Duration), Reason: "must be greater than zero"}
	}
	if start+a.Duration > MinutesPerDay {
		return &InvalidAppointmentError{Field: "duration", Value: strconv.Itoa(a.Duration), Reason: "ends after midnight"}
	}
	if a.Date.IsZero() {
		return &InvalidAppointmentError{Field: "date", Value: "", Reason: "is required"}
	}
	return nil
}

// ParseClock turns "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok || !twoDigits(h) || !twoDigits(m) {
		return 0, &InvalidAppointmentError{Field: "time", Value: s, Reason: "expected HH:MM"}
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, &InvalidAppointmentError{Field: "time", Value: s, Reason: "hour out of range"}
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, &InvalidAppointmentError{Field: "time", Value: s, Reason: "minute out of range"}
	}
	return hh*60 + mm, nil
}

func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CalendarDay keeps the wall-clock date of t and drops everything else.
// Dates are stored and compared as UTC midnight.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SameCalendarDay(a, b time.Time) bool {
	return CalendarDay(a).Equal(CalendarDay(b))
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &InvalidAppointmentError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return d, nil
}

// Overlaps uses half-open intervals: ending at 11:00 and starting at 11:00
// do not collide.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Patch carries the only fields a move or resize may change.
type Patch struct {
	Date     *time.Time
	Time     *string
	Duration *int
}

func (p Patch) Empty() bool {
	return p.Date == nil && p.Time == nil && p.Duration == nil
}

func (p Patch) ApplyTo(a Appointment) Appointment {
	if p.Date != nil {
		a.Date = CalendarDay(*p.Date)
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	return a
}

type TimeSlot struct {
	Time      string
	Available bool
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
