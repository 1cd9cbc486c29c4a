package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/brokerage-crm/internal/appointment"
)

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := appointment.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}

		appt, err := svc.Create(r.Context(), appointment.Appointment{
			Date:          date,
			Time:          req.Time,
			Duration:      req.Duration,
			CalendarID:    req.CalendarID,
			LeadName:      req.LeadName,
			Collaborators: req.Collaborators,
		})
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(*appt))
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(*appt))
	}
}

// moveAppointmentHandler answers 409 with both appointments when the move
// conflicts and no resolution was chosen yet.
func moveAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := appointmentID(w, r)
		if !ok {
			return
		}

		var req MoveAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := appointment.ParseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}

		resolution, err := appointment.ParseResolution(req.Resolution)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_resolution", "resolution must be one of confirm, delay, cancel")
			return
		}

		res, err := svc.Move(r.Context(), id, appointment.MoveRequest{
			Date:       date,
			Time:       req.Time,
			Duration:   req.Duration,
			Resolution: resolution,
		})
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		resp := MoveAppointmentResponse{
			State:       string(res.State),
			Appointment: toAppointmentResponse(res.Appointment),
		}
		if res.Conflict != nil {
			c := toAppointmentResponse(*res.Conflict)
			resp.Conflict = &c
		}

		status := http.StatusOK
		if res.State == appointment.StateConflictPresented {
			status = http.StatusConflict
		}
		writeJSON(w, status, resp)
	}
}

func dayViewHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, ok := queryDate(w, r)
		if !ok {
			return
		}

		view, err := svc.DayView(r.Context(), day, queryCalendars(r))
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		resp := DayViewResponse{
			Date:    formatDate(view.Date),
			Hours:   make([]HourRowResponse, 0, len(view.Hours)),
			Columns: toPlacementResponses(view.Columns),
		}
		for _, row := range view.Hours {
			resp.Hours = append(resp.Hours, HourRowResponse{Hour: row.Hour, Appointments: toPlacementResponses(row.Placements)})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func weekViewHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, ok := queryDate(w, r)
		if !ok {
			return
		}

		view, err := svc.WeekView(r.Context(), day, queryCalendars(r))
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		resp := WeekViewResponse{Start: formatDate(view.Start), Days: make([]DayColumnResponse, 0, len(view.Days))}
		for _, d := range view.Days {
			resp.Days = append(resp.Days, DayColumnResponse{Date: formatDate(d.Date), Appointments: toPlacementResponses(d.Placements)})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func monthViewHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, ok := queryDate(w, r)
		if !ok {
			return
		}

		view, err := svc.MonthView(r.Context(), day, queryCalendars(r))
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		resp := MonthViewResponse{Month: view.Month.Format("2006-01"), Days: make([]MonthCellResponse, 0, len(view.Days))}
		for _, cell := range view.Days {
			appts := make([]AppointmentResponse, 0, len(cell.Appointments))
			for _, a := range cell.Appointments {
				appts = append(appts, toAppointmentResponse(a))
			}
			resp.Days = append(resp.Days, MonthCellResponse{Date: formatDate(cell.Date), Count: cell.Count, Appointments: appts})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func timeSlotsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, ok := queryDate(w, r)
		if !ok {
			return
		}

		duration := 30
		if v := r.URL.Query().Get("duration"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_duration", "duration must be an integer number of minutes")
				return
			}
			duration = n
		}

		slots, err := svc.TimeSlots(r.Context(), day, duration)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		resp := TimeSlotsResponse{Date: formatDate(day), Duration: duration, Slots: make([]TimeSlotResponse, 0, len(slots))}
		for _, s := range slots {
			resp.Slots = append(resp.Slots, TimeSlotResponse{Time: s.Time, Available: s.Available})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrInvalidAppointment):
		writeError(w, http.StatusBadRequest, "invalid_appointment", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrUnknownResolution):
		writeError(w, http.StatusBadRequest, "invalid_resolution", err.Error())
	case errors.Is(err, appointment.ErrOutsideDay):
		writeError(w, http.StatusUnprocessableEntity, "outside_day", err.Error())
	case errors.Is(err, appointment.ErrDayBeingRescheduled):
		writeError(w, http.StatusConflict, "day_being_rescheduled", "calendar day is being rescheduled, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func appointmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryDate reads ?date=YYYY-MM-DD, defaulting to today.
func queryDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	v := r.URL.Query().Get("date")
	if v == "" {
		return appointment.CalendarDay(time.Now()), true
	}
	d, err := appointment.ParseDate(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return time.Time{}, false
	}
	return d, true
}

// queryCalendars accepts ?calendar=a&calendar=b and ?calendar=a,b.
func queryCalendars(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["calendar"] {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
