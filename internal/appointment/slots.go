package appointment

import "time"

type SlotOptions struct {
	DayStart int // minutes since midnight
	DayEnd   int
	Step     int
	Duration int // length of the appointment being placed
}

func DefaultSlotOptions() SlotOptions {
	return SlotOptions{DayStart: 8 * 60, DayEnd: 19 * 60, Step: 30, Duration: 30}
}

// GenerateTimeSlots lists start times between DayStart and DayEnd. A slot
// is available when an appointment of opts.Duration starting there would
// not overlap anything booked on that day.
func GenerateTimeSlots(day time.Time, existing []Appointment, opts SlotOptions) []TimeSlot {
	if opts.Step <= 0 || opts.Duration <= 0 || opts.DayEnd <= opts.DayStart {
		return []TimeSlot{}
	}

	var booked []Appointment
	for _, a := range existing {
		if SameCalendarDay(a.Date, day) {
			booked = append(booked, a)
		}
	}

	var slots []TimeSlot
	for t := opts.DayStart; t+opts.Duration <= opts.DayEnd; t += opts.Step {
		free := true
		for _, a := range booked {
			if Overlaps(t, t+opts.Duration, a.StartMinutes(), a.EndMinutes()) {
				free = false
				break
			}
		}
		slots = append(slots, TimeSlot{Time: FormatClock(t), Available: free})
	}
	if slots == nil {
		return []TimeSlot{}
	}
	return slots
}
