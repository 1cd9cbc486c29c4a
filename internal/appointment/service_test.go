package appointment

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackgods/brokerage-crm/internal/config"
	redisclient "github.com/hackgods/brokerage-crm/internal/redis"
)

type localLocker struct {
	mu    sync.Mutex
	calls []time.Time
}

func (l *localLocker) WithDayLock(ctx context.Context, day time.Time, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, day)
	return fn(ctx)
}

type busyLocker struct{}

func (busyLocker) WithDayLock(context.Context, time.Time, func(context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

var testConfig = config.Config{DayStart: 8 * 60, DayEnd: 19 * 60, SlotStep: 30}

func newTestService(t *testing.T, seed ...Appointment) (*Service, *MemoryRepository, *localLocker) {
	t.Helper()
	repo := NewMemoryRepository(seed...)
	locker := &localLocker{}
	return NewService(repo, locker, testConfig, zap.NewNop()), repo, locker
}

func TestService_MoveWithoutConflict(t *testing.T) {
	candidate := dated(tuesday, "Martin", "08:00", 60)
	candidate.CalendarID = "rdv-clients"
	svc, repo, locker := newTestService(t, candidate)

	res, err := svc.Move(context.Background(), candidate.ID, MoveRequest{Date: monday, Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, res.State)
	assert.Nil(t, res.Conflict)
	assert.Equal(t, monday, res.Appointment.Date)
	assert.Equal(t, "10:00", res.Appointment.Time)
	assert.Equal(t, "rdv-clients", res.Appointment.CalendarID)
	assert.Equal(t, []time.Time{monday}, locker.calls)

	stored, err := repo.Get(context.Background(), candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", stored.Time)

	events := repo.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventAppointmentRescheduled, events[0].EventType)
}

func TestService_MoveConflictFlow(t *testing.T) {
	candidate := dated(tuesday, "Martin", "10:00", 60)
	busy := dated(monday, "Dupont", "10:30", 30)

	t.Run("unresolved conflict writes nothing", func(t *testing.T) {
		svc, repo, _ := newTestService(t, candidate, busy)

		res, err := svc.Move(context.Background(), candidate.ID, MoveRequest{Date: monday, Time: "10:00"})
		require.NoError(t, err)
		assert.Equal(t, StateConflictPresented, res.State)
		require.NotNil(t, res.Conflict)
		assert.Equal(t, busy.ID, res.Conflict.ID)

		stored, err := repo.Get(context.Background(), candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, tuesday, stored.Date)
		assert.Empty(t, repo.Events())
	})

	t.Run("confirm double books", func(t *testing.T) {
		svc, _, _ := newTestService(t, candidate, busy)

		res, err := svc.Move(context.Background(), candidate.ID, MoveRequest{Date: monday, Time: "10:00", Resolution: ResolutionConfirm})
		require.NoError(t, err)
		assert.Equal(t, StateCommitted, res.State)
		assert.Equal(t, "10:00", res.Appointment.Time)
		assert.Equal(t, monday, res.Appointment.Date)
	})

	t.Run("delay lands after the conflict", func(t *testing.T) {
		svc, repo, _ := newTestService(t, candidate, busy)

		res, err := svc.Move(context.Background(), candidate.ID, MoveRequest{Date: monday, Time: "10:00", Resolution: ResolutionDelay})
		require.NoError(t, err)
		assert.Equal(t, StateCommitted, res.State)
		assert.Equal(t, "11:10", res.Appointment.Time)

		events := repo.Events()
		require.Len(t, events, 1)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
		assert.Equal(t, "delay", payload["resolution"])
		assert.Equal(t, busy.ID.String(), payload["conflict_id"])
	})

	t.Run("cancel leaves the appointment alone", func(t *testing.T) {
		svc, repo, _ := newTestService(t, candidate, busy)

		res, err := svc.Move(context.Background(), candidate.ID, MoveRequest{Date: monday, Time: "10:00", Resolution: ResolutionCancel})
		require.NoError(t, err)
		assert.Equal(t, StateDiscarded, res.State)
		assert.Equal(t, tuesday, res.Appointment.Date)
		assert.Equal(t, "10:00", res.Appointment.Time)

		stored, err := repo.Get(context.Background(), candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, tuesday, stored.Date)

		events := repo.Events()
		require.Len(t, events, 1)
		assert.Equal(t, EventAppointmentMoveCancelled, events[0].EventType)
	})
}

func TestService_MoveResize(t *testing.T) {
	candidate := dated(monday, "Martin", "09:00", 30)
	svc, _, _ := newTestService(t, candidate)
	longer := 45

	res, err := svc.Move(context.Background(), candidate.ID, MoveRequest{Date: monday, Time: "09:00", Duration: &longer})
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, res.State)
	assert.Equal(t, 45, res.Appointment.Duration)
}

func TestService_MoveErrors(t *testing.T) {
	candidate := dated(monday, "Martin", "09:00", 30)
	svc, _, _ := newTestService(t, candidate)
	ctx := context.Background()

	_, err := svc.Move(ctx, uuid.New(), MoveRequest{Date: monday, Time: "09:00"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	_, err = svc.Move(ctx, candidate.ID, MoveRequest{Date: monday, Time: "9h"})
	assert.ErrorIs(t, err, ErrInvalidAppointment)

	zero := 0
	_, err = svc.Move(ctx, candidate.ID, MoveRequest{Date: monday, Time: "09:00", Duration: &zero})
	assert.ErrorIs(t, err, ErrInvalidAppointment)

	busySvc := NewService(NewMemoryRepository(candidate), busyLocker{}, testConfig, zap.NewNop())
	_, err = busySvc.Move(ctx, candidate.ID, MoveRequest{Date: monday, Time: "10:00"})
	assert.ErrorIs(t, err, ErrDayBeingRescheduled)
}

func TestService_Create(t *testing.T) {
	svc, repo, _ := newTestService(t)

	created, err := svc.Create(context.Background(), Appointment{
		Date:          time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC),
		Time:          "14:00",
		Duration:      45,
		CalendarID:    "signature",
		LeadName:      "Sophie Bernard",
		Collaborators: []string{"Julien"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, monday, created.Date)
	require.Len(t, repo.Events(), 1)

	_, err = svc.Create(context.Background(), Appointment{Date: monday, Time: "14:00", Duration: -5})
	assert.ErrorIs(t, err, ErrInvalidAppointment)
}

func TestService_DayView(t *testing.T) {
	a := dated(monday, "a", "09:00", 60)
	a.CalendarID = "prospection"
	b := dated(monday, "b", "09:30", 30)
	b.CalendarID = "signature"
	late := dated(monday, "late", "21:00", 30)
	late.CalendarID = "prospection"
	other := dated(tuesday, "other", "09:00", 30)
	svc, _, _ := newTestService(t, a, b, late, other)

	view, err := svc.DayView(context.Background(), monday, nil)
	require.NoError(t, err)
	assert.Equal(t, monday, view.Date)
	require.Len(t, view.Columns, 3)

	hours := map[int][]Placement{}
	for _, row := range view.Hours {
		hours[row.Hour] = row.Placements
	}
	assert.Len(t, view.Hours, 12, "08..18 plus the 21h row")
	require.Len(t, hours[9], 2)
	assert.Equal(t, 2, hours[9][0].TotalColumns)
	require.Len(t, hours[21], 1)
	assert.Empty(t, hours[8])

	filtered, err := svc.DayView(context.Background(), monday, []string{"signature"})
	require.NoError(t, err)
	require.Len(t, filtered.Columns, 1)
	assert.Equal(t, "b", filtered.Columns[0].Appointment.LeadName)
	assert.Equal(t, 1, filtered.Columns[0].TotalColumns)
}

func TestService_WeekView(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)
	svc, _, _ := newTestService(t,
		dated(monday, "a", "09:00", 60),
		dated(monday, "b", "09:15", 60),
		dated(wednesday, "c", "16:00", 30),
		dated(monday.AddDate(0, 0, 7), "next week", "09:00", 30),
	)

	view, err := svc.WeekView(context.Background(), wednesday.Add(15*time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, monday, view.Start)
	require.Len(t, view.Days, 7)
	assert.Len(t, view.Days[0].Placements, 2)
	assert.Equal(t, 2, view.Days[0].Placements[1].TotalColumns)
	assert.Empty(t, view.Days[1].Placements)
	assert.Len(t, view.Days[2].Placements, 1)
	assert.Empty(t, view.Days[6].Placements)
}

func TestService_MonthView(t *testing.T) {
	svc, _, _ := newTestService(t,
		dated(monday, "late", "15:00", 30),
		dated(monday, "early", "09:00", 30),
		dated(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), "april", "09:00", 30),
	)

	view, err := svc.MonthView(context.Background(), time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), view.Month)
	require.Len(t, view.Days, 31)

	cell := view.Days[1]
	assert.Equal(t, monday, cell.Date)
	assert.Equal(t, 2, cell.Count)
	assert.Equal(t, "early", cell.Appointments[0].LeadName)
	assert.Equal(t, 0, view.Days[30].Count)
}

func TestService_TimeSlots(t *testing.T) {
	svc, _, _ := newTestService(t, dated(monday, "busy", "08:30", 60))

	slots, err := svc.TimeSlots(context.Background(), monday, 30)
	require.NoError(t, err)
	require.Len(t, slots, 22)
	assert.Equal(t, TimeSlot{Time: "08:00", Available: true}, slots[0])
	assert.Equal(t, TimeSlot{Time: "08:30", Available: false}, slots[1])
	assert.Equal(t, TimeSlot{Time: "09:00", Available: false}, slots[2])
	assert.Equal(t, TimeSlot{Time: "09:30", Available: true}, slots[3])
	assert.Equal(t, TimeSlot{Time: "18:30", Available: true}, slots[21])

	_, err = svc.TimeSlots(context.Background(), monday, 0)
	assert.ErrorIs(t, err, ErrInvalidAppointment)
}

func TestStartOfWeek(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, StartOfWeek(sunday))
	assert.Equal(t, monday, StartOfWeek(monday))
}
