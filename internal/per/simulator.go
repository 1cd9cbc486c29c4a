// Package per computes Plan d'Épargne Retraite projections: the deductible
// contribution ceiling, compound growth until retirement and the tax saved.
// Every function is pure and never fails; invalid amounts count as zero.
package per

import "math"

type ProfessionalStatus string

const (
	StatusSalarie     ProfessionalStatus = "Salarié"
	StatusIndependant ProfessionalStatus = "Indépendant"
)

type InvestorProfile string

const (
	ProfilePrudent   InvestorProfile = "Prudent"
	ProfileEquilibre InvestorProfile = "Équilibré"
	ProfileDynamique InvestorProfile = "Dynamique"
)

// Ceiling policy. These follow the current tax rules and must not be tuned.
const (
	salarieFlatCeiling     = 4399
	salarieIncomeThreshold = 43995
	salarieRate            = 0.10

	independantIncomeThreshold = 48000
	independantLowRate         = 0.10
	independantHighRate        = 0.15
)

const (
	RetirementAge = 67
	MinAge        = 18
)

// AnnualRate is the expected yearly return for a profile. Unknown profiles
// get the balanced rate.
func AnnualRate(p InvestorProfile) float64 {
	switch p {
	case ProfilePrudent:
		return 0.03
	case ProfileDynamique:
		return 0.07
	default:
		return 0.05
	}
}

// ComputeTaxCeiling returns the deductible ceiling, rounded to the euro.
func ComputeTaxCeiling(status ProfessionalStatus, annualIncome float64) float64 {
	income := clamp(annualIncome)

	if status == StatusIndependant {
		if income <= independantIncomeThreshold {
			return math.Round(income * independantLowRate)
		}
		return math.Round(income * independantHighRate)
	}

	if income <= salarieIncomeThreshold {
		return salarieFlatCeiling
	}
	return math.Round(income * salarieRate)
}

type Capitals struct {
	Invested  float64
	Generated float64
	Total     float64
}

// MonthsUntilRetirement never returns less than one month.
func MonthsUntilRetirement(age int) int {
	return max((RetirementAge-clampAge(age))*12, 1)
}

// ComputeCapitals projects a constant monthly contribution as an ordinary
// annuity. Rounding happens on the outputs only.
func ComputeCapitals(monthlyContribution float64, profile InvestorProfile, age int) Capitals {
	invested, total := capitals(clamp(monthlyContribution), AnnualRate(profile), MonthsUntilRetirement(age))
	return Capitals{
		Invested:  math.Round(invested),
		Generated: math.Round(total - invested),
		Total:     math.Round(total),
	}
}

func capitals(monthly, annualRate float64, months int) (invested, total float64) {
	invested = monthly * float64(months)
	r := annualRate / 12
	if r == 0 {
		return invested, invested
	}
	total = monthly * (math.Pow(1+r, float64(months)) - 1) / r
	return invested, total
}

// TaxBracket is a marginal income tax rate.
type TaxBracket float64

var TaxBrackets = []TaxBracket{0, 0.11, 0.30, 0.41, 0.45}

// ParseTaxBracket accepts a percentage (0, 11, 30, 41, 45) or its fraction.
func ParseTaxBracket(v float64) (TaxBracket, bool) {
	if v > 1 {
		v /= 100
	}
	for _, b := range TaxBrackets {
		if math.Abs(float64(b)-v) < 1e-9 {
			return b, true
		}
	}
	return 0, false
}

// ComputeTaxSavings is the yearly contribution times the bracket, rounded.
func ComputeTaxSavings(monthlyContribution float64, bracket TaxBracket) float64 {
	b, ok := ParseTaxBracket(float64(bracket))
	if !ok {
		b = 0
	}
	return math.Round(clamp(monthlyContribution) * 12 * float64(b))
}

type Inputs struct {
	Status              ProfessionalStatus
	AnnualIncome        float64
	MonthlyContribution float64
	Profile             InvestorProfile
	Age                 int
	TaxBracket          TaxBracket
}

type Result struct {
	Inputs                     Inputs
	TaxCeiling                 float64
	InvestedCapital            float64
	GeneratedCapital           float64
	TotalCapital               float64
	TotalTaxSavings            float64
	AnnualRate                 float64
	MonthsUntilRetirement      int
	ContributionExceedsCeiling bool
}

// Simulate derives every output from in. Sanitised inputs are echoed back.
func Simulate(in Inputs) Result {
	in = Normalize(in)
	caps := ComputeCapitals(in.MonthlyContribution, in.Profile, in.Age)
	ceiling := ComputeTaxCeiling(in.Status, in.AnnualIncome)

	return Result{
		Inputs:                     in,
		TaxCeiling:                 ceiling,
		InvestedCapital:            caps.Invested,
		GeneratedCapital:           caps.Generated,
		TotalCapital:               caps.Total,
		TotalTaxSavings:            ComputeTaxSavings(in.MonthlyContribution, in.TaxBracket),
		AnnualRate:                 AnnualRate(in.Profile),
		MonthsUntilRetirement:      MonthsUntilRetirement(in.Age),
		ContributionExceedsCeiling: in.MonthlyContribution*12 > ceiling,
	}
}

// Normalize applies the clamping rules used by every computation.
func Normalize(in Inputs) Inputs {
	in.AnnualIncome = clamp(in.AnnualIncome)
	in.MonthlyContribution = clamp(in.MonthlyContribution)
	in.Age = clampAge(in.Age)
	if in.Status != StatusIndependant {
		in.Status = StatusSalarie
	}
	switch in.Profile {
	case ProfilePrudent, ProfileEquilibre, ProfileDynamique:
	default:
		in.Profile = ProfileEquilibre
	}
	if b, ok := ParseTaxBracket(float64(in.TaxBracket)); ok {
		in.TaxBracket = b
	} else {
		in.TaxBracket = 0
	}
	return in
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clampAge(age int) int {
	return min(max(age, MinAge), RetirementAge)
}
