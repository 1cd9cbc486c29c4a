package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps appointments in process. It backs tests and local
// runs without Postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	order  []uuid.UUID
	byID   map[uuid.UUID]Appointment
	events []EventLog
}

func NewMemoryRepository(seed ...Appointment) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[uuid.UUID]Appointment)}
	for _, a := range seed {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		a.Date = CalendarDay(a.Date)
		r.order = append(r.order, a.ID)
		r.byID[a.ID] = a
	}
	return r
}

func (r *MemoryRepository) List(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to = CalendarDay(from), CalendarDay(to)
	result := []Appointment{}
	for _, id := range r.order {
		a := r.byID[id]
		if !a.Date.Before(from) && a.Date.Before(to) {
			result = append(result, cloneAppointment(a))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	c := cloneAppointment(a)
	return &c, nil
}

func (r *MemoryRepository) Create(ctx context.Context, a Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.Date = CalendarDay(a.Date)
	a.CreatedAt, a.UpdatedAt = now, now
	r.order = append(r.order, a.ID)
	r.byID[a.ID] = cloneAppointment(a)
	return &a, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id uuid.UUID, p Patch) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a = p.ApplyTo(a)
	a.UpdatedAt = time.Now().UTC()
	r.byID[id] = a
	c := cloneAppointment(a)
	return &c, nil
}

func (r *MemoryRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded event log.
func (r *MemoryRepository) Events() []EventLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]EventLog(nil), r.events...)
}

func cloneAppointment(a Appointment) Appointment {
	if a.Collaborators != nil {
		a.Collaborators = append([]string(nil), a.Collaborators...)
	}
	return a
}
