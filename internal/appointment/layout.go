package appointment

import (
	"sort"
	"time"
)

// Placement is an appointment annotated with its column inside its overlap
// cluster. Every member of a cluster shares the same TotalColumns.
type Placement struct {
	Appointment  Appointment
	Column       int
	TotalColumns int
	Cluster      int
}

// ComputeOverlapGroups assigns columns so overlapping appointments of one
// rendering bucket sit side by side. Inputs must have passed Validate.
// The result is in render order: start ascending, shorter first, then input order.
func ComputeOverlapGroups(appts []Appointment) []Placement {
	if len(appts) == 0 {
		return []Placement{}
	}

	type item struct {
		appt       Appointment
		start, end int
	}
	items := make([]item, len(appts))
	for i, a := range appts {
		items[i] = item{appt: a, start: a.StartMinutes(), end: a.EndMinutes()}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].start != items[j].start {
			return items[i].start < items[j].start
		}
		return items[i].end-items[i].start < items[j].end-items[j].start
	})

	out := make([]Placement, len(items))
	cluster := 0
	clusterFrom := 0
	clusterEnd := -1
	var columnEnds []int

	closeCluster := func(to int) {
		for k := clusterFrom; k < to; k++ {
			out[k].TotalColumns = len(columnEnds)
		}
	}

	for i, it := range items {
		if i > 0 && it.start >= clusterEnd {
			closeCluster(i)
			cluster++
			clusterFrom = i
			columnEnds = columnEnds[:0]
		}

		col := -1
		for c, end := range columnEnds {
			if end <= it.start {
				col = c
				break
			}
		}
		if col == -1 {
			col = len(columnEnds)
			columnEnds = append(columnEnds, it.end)
		} else {
			columnEnds[col] = it.end
		}

		clusterEnd = max(clusterEnd, it.end)
		out[i] = Placement{Appointment: it.appt, Column: col, Cluster: cluster}
	}
	closeCluster(len(items))

	return out
}

// BucketByHour groups appointments into hour rows keyed by start hour.
func BucketByHour(appts []Appointment) map[int][]Appointment {
	buckets := make(map[int][]Appointment)
	for _, a := range appts {
		h := a.StartMinutes() / 60
		buckets[h] = append(buckets[h], a)
	}
	return buckets
}

// BucketByDay groups appointments into day columns keyed by CalendarDay.
func BucketByDay(appts []Appointment) map[time.Time][]Appointment {
	buckets := make(map[time.Time][]Appointment)
	for _, a := range appts {
		d := CalendarDay(a.Date)
		buckets[d] = append(buckets[d], a)
	}
	return buckets
}
