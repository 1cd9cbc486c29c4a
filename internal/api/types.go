package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/brokerage-crm/internal/appointment"
	"github.com/hackgods/brokerage-crm/internal/per"
)

type CreateAppointmentRequest struct {
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	Duration      int      `json:"duration"`
	CalendarID    string   `json:"calendar_id"`
	LeadName      string   `json:"lead_name"`
	Collaborators []string `json:"collaborators"`
}

type MoveAppointmentRequest struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Duration   *int   `json:"duration,omitempty"`
	Resolution string `json:"resolution,omitempty"` // confirm, delay, cancel
}

type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	EndTime       string    `json:"end_time"`
	Duration      int       `json:"duration"`
	CalendarID    string    `json:"calendar_id"`
	LeadName      string    `json:"lead_name"`
	Collaborators []string  `json:"collaborators"`
}

type PlacementResponse struct {
	AppointmentResponse
	Column       int `json:"column"`
	TotalColumns int `json:"total_columns"`
	Cluster      int `json:"cluster"`
}

type MoveAppointmentResponse struct {
	State       string               `json:"state"`
	Appointment AppointmentResponse  `json:"appointment"`
	Conflict    *AppointmentResponse `json:"conflict,omitempty"`
}

type HourRowResponse struct {
	Hour         int                 `json:"hour"`
	Appointments []PlacementResponse `json:"appointments"`
}

type DayViewResponse struct {
	Date    string              `json:"date"`
	Hours   []HourRowResponse   `json:"hours"`
	Columns []PlacementResponse `json:"columns"`
}

type DayColumnResponse struct {
	Date         string              `json:"date"`
	Appointments []PlacementResponse `json:"appointments"`
}

type WeekViewResponse struct {
	Start string              `json:"start"`
	Days  []DayColumnResponse `json:"days"`
}

type MonthCellResponse struct {
	Date         string                `json:"date"`
	Count        int                   `json:"count"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type MonthViewResponse struct {
	Month string              `json:"month"`
	Days  []MonthCellResponse `json:"days"`
}

type TimeSlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type TimeSlotsResponse struct {
	Date     string             `json:"date"`
	Duration int                `json:"duration"`
	Slots    []TimeSlotResponse `json:"slots"`
}

// SimulationRequest mirrors the PER form. Numeric fields accept numbers or
// strings and fall back to 0.
type SimulationRequest struct {
	Status              string     `json:"professional_status"`
	AnnualIncome        per.Amount `json:"annual_income"`
	MonthlyContribution per.Amount `json:"monthly_contribution"`
	Profile             string     `json:"investor_profile"`
	Age                 per.Amount `json:"age"`
	TaxBracket          per.Amount `json:"tax_bracket"` // percent: 0, 11, 30, 41, 45

	// Report only
	ClientName  string `json:"client_name,omitempty"`
	AdvisorName string `json:"advisor_name,omitempty"`
}

type SimulationResponse struct {
	ProfessionalStatus         string  `json:"professional_status"`
	AnnualIncome               float64 `json:"annual_income"`
	MonthlyContribution        float64 `json:"monthly_contribution"`
	InvestorProfile            string  `json:"investor_profile"`
	Age                        int     `json:"age"`
	TaxBracket                 float64 `json:"tax_bracket"`
	AnnualRate                 float64 `json:"annual_rate"`
	MonthsUntilRetirement      int     `json:"months_until_retirement"`
	TaxCeiling                 float64 `json:"tax_ceiling"`
	InvestedCapital            float64 `json:"invested_capital"`
	GeneratedCapital           float64 `json:"generated_capital"`
	TotalCapital               float64 `json:"total_capital"`
	TotalTaxSavings            float64 `json:"total_tax_savings"`
	ContributionExceedsCeiling bool    `json:"contribution_exceeds_ceiling"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(a appointment.Appointment) AppointmentResponse {
	collaborators := a.Collaborators
	if collaborators == nil {
		collaborators = []string{}
	}
	return AppointmentResponse{
		ID:            a.ID,
		Date:          formatDate(a.Date),
		Time:          a.Time,
		EndTime:       appointment.FormatClock(a.EndMinutes()),
		Duration:      a.Duration,
		CalendarID:    a.CalendarID,
		LeadName:      a.LeadName,
		Collaborators: collaborators,
	}
}

func toPlacementResponses(ps []appointment.Placement) []PlacementResponse {
	out := make([]PlacementResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, PlacementResponse{
			AppointmentResponse: toAppointmentResponse(p.Appointment),
			Column:              p.Column,
			TotalColumns:        p.TotalColumns,
			Cluster:             p.Cluster,
		})
	}
	return out
}

func toSimulationInputs(req SimulationRequest) per.Inputs {
	bracket, _ := per.ParseTaxBracket(float64(req.TaxBracket))
	return per.Inputs{
		Status:              per.ParseStatus(req.Status),
		AnnualIncome:        float64(req.AnnualIncome),
		MonthlyContribution: float64(req.MonthlyContribution),
		Profile:             per.ParseProfile(req.Profile),
		Age:                 int(req.Age),
		TaxBracket:          bracket,
	}
}

func toSimulationResponse(res per.Result) SimulationResponse {
	return SimulationResponse{
		ProfessionalStatus:         string(res.Inputs.Status),
		AnnualIncome:               res.Inputs.AnnualIncome,
		MonthlyContribution:        res.Inputs.MonthlyContribution,
		InvestorProfile:            string(res.Inputs.Profile),
		Age:                        res.Inputs.Age,
		TaxBracket:                 float64(res.Inputs.TaxBracket),
		AnnualRate:                 res.AnnualRate,
		MonthsUntilRetirement:      res.MonthsUntilRetirement,
		TaxCeiling:                 res.TaxCeiling,
		InvestedCapital:            res.InvestedCapital,
		GeneratedCapital:           res.GeneratedCapital,
		TotalCapital:               res.TotalCapital,
		TotalTaxSavings:            res.TotalTaxSavings,
		ContributionExceedsCeiling: res.ContributionExceedsCeiling,
	}
}

func formatDate(t time.Time) string {
	return t.Format(appointment.DateLayout)
}
