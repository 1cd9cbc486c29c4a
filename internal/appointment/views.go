package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type HourRow struct {
	Hour       int
	Placements []Placement
}

type DayView struct {
	Date time.Time
	// Hours covers the configured working day plus any hour holding an
	// appointment outside it. Each row is laid out on its own.
	Hours []HourRow
	// Columns lays out the whole day as a single bucket.
	Columns []Placement
}

type DayColumn struct {
	Date       time.Time
	Placements []Placement
}

type WeekView struct {
	Start time.Time // Monday
	Days  []DayColumn
}

type MonthCell struct {
	Date         time.Time
	Count        int
	Appointments []Appointment
}

type MonthView struct {
	Month time.Time // first day
	Days  []MonthCell
}

func (s *Service) DayView(ctx context.Context, day time.Time, calendars []string) (*DayView, error) {
	day = CalendarDay(day)
	appts, err := s.listVisible(ctx, day, day.AddDate(0, 0, 1), calendars)
	if err != nil {
		return nil, err
	}
	return buildDayView(day, appts, s.cfg.DayStart/60, (s.cfg.DayEnd+59)/60), nil
}

func buildDayView(day time.Time, appts []Appointment, firstHour, endHour int) *DayView {
	buckets := BucketByHour(appts)

	hours := make(map[int]bool)
	for h := firstHour; h < endHour; h++ {
		hours[h] = true
	}
	for h := range buckets {
		hours[h] = true
	}
	ordered := make([]int, 0, len(hours))
	for h := range hours {
		ordered = append(ordered, h)
	}
	sort.Ints(ordered)

	view := &DayView{Date: day, Columns: ComputeOverlapGroups(appts)}
	for _, h := range ordered {
		view.Hours = append(view.Hours, HourRow{Hour: h, Placements: ComputeOverlapGroups(buckets[h])})
	}
	return view
}

// WeekView returns the Monday-to-Sunday week containing anyDay.
func (s *Service) WeekView(ctx context.Context, anyDay time.Time, calendars []string) (*WeekView, error) {
	start := StartOfWeek(anyDay)
	appts, err := s.listVisible(ctx, start, start.AddDate(0, 0, 7), calendars)
	if err != nil {
		return nil, err
	}

	byDay := BucketByDay(appts)
	view := &WeekView{Start: start}
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		view.Days = append(view.Days, DayColumn{Date: d, Placements: ComputeOverlapGroups(byDay[d])})
	}
	return view, nil
}

func (s *Service) MonthView(ctx context.Context, anyDay time.Time, calendars []string) (*MonthView, error) {
	d := CalendarDay(anyDay)
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	appts, err := s.listVisible(ctx, first, next, calendars)
	if err != nil {
		return nil, err
	}

	byDay := BucketByDay(appts)
	view := &MonthView{Month: first}
	for day := first; day.Before(next); day = day.AddDate(0, 0, 1) {
		dayAppts := byDay[day]
		sort.SliceStable(dayAppts, func(i, j int) bool {
			return dayAppts[i].StartMinutes() < dayAppts[j].StartMinutes()
		})
		if dayAppts == nil {
			dayAppts = []Appointment{}
		}
		view.Days = append(view.Days, MonthCell{Date: day, Count: len(dayAppts), Appointments: dayAppts})
	}
	return view, nil
}

// TimeSlots suggests start times on day for an appointment of duration
// minutes, checked against what is booked in the repository.
func (s *Service) TimeSlots(ctx context.Context, day time.Time, duration int) ([]TimeSlot, error) {
	if duration <= 0 {
		return nil, &InvalidAppointmentError{Field: "duration", Value: fmt.Sprint(duration), Reason: "must be greater than zero"}
	}
	day = CalendarDay(day)
	appts, err := s.repo.List(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return GenerateTimeSlots(day, appts, SlotOptions{
		DayStart: s.cfg.DayStart,
		DayEnd:   s.cfg.DayEnd,
		Step:     s.cfg.SlotStep,
		Duration: duration,
	}), nil
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	d := CalendarDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
