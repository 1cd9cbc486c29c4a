package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appt(name, clock string, duration int) Appointment {
	return Appointment{ID: uuid.New(), LeadName: name, Time: clock, Duration: duration}
}

func columnsByLead(placements []Placement) map[string][2]int {
	out := make(map[string][2]int, len(placements))
	for _, p := range placements {
		out[p.Appointment.LeadName] = [2]int{p.Column, p.TotalColumns}
	}
	return out
}

func TestComputeOverlapGroups_Empty(t *testing.T) {
	assert.Empty(t, ComputeOverlapGroups(nil))
	assert.NotNil(t, ComputeOverlapGroups([]Appointment{}))
}

func TestComputeOverlapGroups_Disjoint(t *testing.T) {
	got := columnsByLead(ComputeOverlapGroups([]Appointment{
		appt("b", "11:00", 60),
		appt("a", "10:00", 60),
	}))

	assert.Equal(t, [2]int{0, 1}, got["a"])
	assert.Equal(t, [2]int{0, 1}, got["b"])
}

func TestComputeOverlapGroups_IdenticalIntervals(t *testing.T) {
	for n := 1; n <= 5; n++ {
		var in []Appointment
		for i := 0; i < n; i++ {
			in = append(in, appt(string(rune('a'+i)), "09:00", 45))
		}

		out := ComputeOverlapGroups(in)
		require.Len(t, out, n)

		seen := make(map[int]bool)
		for _, p := range out {
			assert.Equal(t, n, p.TotalColumns)
			assert.GreaterOrEqual(t, p.Column, 0)
			assert.Less(t, p.Column, n)
			seen[p.Column] = true
		}
		assert.Len(t, seen, n, "columns must be distinct")
	}
}

func TestComputeOverlapGroups_TransitiveCluster(t *testing.T) {
	// a overlaps b, b overlaps c, a and c are disjoint: one cluster, two columns.
	out := ComputeOverlapGroups([]Appointment{
		appt("a", "10:00", 30),
		appt("b", "10:15", 30),
		appt("c", "10:35", 30),
	})
	got := columnsByLead(out)

	assert.Equal(t, [2]int{0, 2}, got["a"])
	assert.Equal(t, [2]int{1, 2}, got["b"])
	assert.Equal(t, [2]int{0, 2}, got["c"], "c reuses a's column once a has ended")

	for _, p := range out {
		assert.Equal(t, out[0].Cluster, p.Cluster)
	}
}

func TestComputeOverlapGroups_SeparateClustersKeepOwnDivisor(t *testing.T) {
	got := columnsByLead(ComputeOverlapGroups([]Appointment{
		appt("a", "09:00", 60),
		appt("b", "09:30", 60),
		appt("c", "09:45", 15),
		appt("d", "14:00", 30),
	}))

	assert.Equal(t, 3, got["a"][1])
	assert.Equal(t, 3, got["b"][1])
	assert.Equal(t, 3, got["c"][1])
	assert.Equal(t, [2]int{0, 1}, got["d"])
}

func TestComputeOverlapGroups_ShorterFirstOnTie(t *testing.T) {
	out := ComputeOverlapGroups([]Appointment{
		appt("long", "10:00", 90),
		appt("short", "10:00", 15),
	})

	require.Len(t, out, 2)
	assert.Equal(t, "short", out[0].Appointment.LeadName)
	assert.Equal(t, 0, out[0].Column)
	assert.Equal(t, "long", out[1].Appointment.LeadName)
	assert.Equal(t, 1, out[1].Column)
}

func TestComputeOverlapGroups_NoVisualCollision(t *testing.T) {
	in := []Appointment{
		appt("a", "08:00", 120),
		appt("b", "08:30", 30),
		appt("c", "09:00", 30),
		appt("d", "09:15", 60),
		appt("e", "10:00", 15),
		appt("f", "10:30", 30),
		appt("g", "12:00", 30),
	}
	out := ComputeOverlapGroups(in)

	for i := range out {
		for j := i + 1; j < len(out); j++ {
			a, b := out[i], out[j]
			if Overlaps(a.Appointment.StartMinutes(), a.Appointment.EndMinutes(), b.Appointment.StartMinutes(), b.Appointment.EndMinutes()) {
				assert.Equal(t, a.Cluster, b.Cluster)
				assert.NotEqual(t, a.Column, b.Column, "%s and %s collide", a.Appointment.LeadName, b.Appointment.LeadName)
			}
		}
	}
}

func TestComputeOverlapGroups_Idempotent(t *testing.T) {
	in := []Appointment{
		appt("a", "10:00", 30),
		appt("b", "10:10", 30),
		appt("c", "10:10", 10),
		appt("d", "11:00", 30),
	}
	before := append([]Appointment(nil), in...)

	first := ComputeOverlapGroups(in)
	second := ComputeOverlapGroups(in)

	assert.Equal(t, first, second)
	assert.Equal(t, before, in, "input must not be reordered")
}

func TestBucketByHour(t *testing.T) {
	buckets := BucketByHour([]Appointment{
		appt("a", "09:00", 30),
		appt("b", "09:45", 30),
		appt("c", "14:10", 30),
	})

	assert.Len(t, buckets[9], 2)
	assert.Len(t, buckets[14], 1)
	assert.Empty(t, buckets[10])
}
