package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTimeSlots(t *testing.T) {
	existing := []Appointment{
		dated(monday, "busy", "09:00", 60),
		dated(tuesday, "other day", "08:00", 120),
	}
	slots := GenerateTimeSlots(monday, existing, SlotOptions{DayStart: 8 * 60, DayEnd: 11 * 60, Step: 30, Duration: 30})

	require.Len(t, slots, 6)
	want := []TimeSlot{
		{Time: "08:00", Available: true},
		{Time: "08:30", Available: true},
		{Time: "09:00", Available: false},
		{Time: "09:30", Available: false},
		{Time: "10:00", Available: true},
		{Time: "10:30", Available: true},
	}
	assert.Equal(t, want, slots)
}

func TestGenerateTimeSlots_LongerDurationBlocksEarlierStarts(t *testing.T) {
	existing := []Appointment{dated(monday, "busy", "10:00", 30)}
	slots := GenerateTimeSlots(monday, existing, SlotOptions{DayStart: 9 * 60, DayEnd: 11 * 60, Step: 30, Duration: 60})

	got := map[string]bool{}
	for _, s := range slots {
		got[s.Time] = s.Available
	}
	assert.Equal(t, map[string]bool{"09:00": true, "09:30": false, "10:00": false}, got)
}

func TestGenerateTimeSlots_Deterministic(t *testing.T) {
	existing := []Appointment{dated(monday, "busy", "12:00", 45)}
	opts := DefaultSlotOptions()
	assert.Equal(t, GenerateTimeSlots(monday, existing, opts), GenerateTimeSlots(monday, existing, opts))
}

func TestGenerateTimeSlots_BadOptions(t *testing.T) {
	assert.Empty(t, GenerateTimeSlots(monday, nil, SlotOptions{DayStart: 600, DayEnd: 600, Step: 30, Duration: 30}))
	assert.Empty(t, GenerateTimeSlots(monday, nil, SlotOptions{DayStart: 480, DayEnd: 600, Step: 0, Duration: 30}))
}
