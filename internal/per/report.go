package per

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	reportMarginLeft  = 20.0
	reportMarginTop   = 20.0
	reportMarginRight = 20.0
	reportWidth       = 210.0 - reportMarginLeft - reportMarginRight
)

// ReportOptions labels a PDF simulation sheet.
type ReportOptions struct {
	ClientName  string
	AdvisorName string
	GeneratedAt time.Time
}

// WriteReport renders one simulation as a single A4 page.
func WriteReport(w io.Writer, res Result, opts ReportOptions) error {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(reportMarginLeft, reportMarginTop, reportMarginRight)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Simulation PER", true)
	// Core fonts are cp1252; accents must be translated.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(reportWidth, 12, tr("Simulation Plan d'Épargne Retraite"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(90, 90, 90)
	subtitle := "Édité le " + opts.GeneratedAt.Format("02/01/2006")
	if opts.ClientName != "" {
		subtitle = opts.ClientName + " - " + subtitle
	}
	pdf.CellFormat(reportWidth, 7, tr(subtitle), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	in := res.Inputs
	section(pdf, tr, "Votre situation", [][2]string{
		{"Statut professionnel", string(in.Status)},
		{"Revenu annuel", FormatEuros(in.AnnualIncome)},
		{"Âge", fmt.Sprintf("%d ans", in.Age)},
		{"Versement mensuel", FormatEuros(in.MonthlyContribution)},
		{"Profil investisseur", fmt.Sprintf("%s (%s / an)", in.Profile, formatPercent(res.AnnualRate))},
		{"Tranche marginale d'imposition", formatPercent(float64(in.TaxBracket))},
	})

	section(pdf, tr, "Fiscalité", [][2]string{
		{"Plafond de déduction", FormatEuros(res.TaxCeiling)},
		{"Économie d'impôt annuelle", FormatEuros(res.TotalTaxSavings)},
	})
	if res.ContributionExceedsCeiling {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(170, 60, 40)
		pdf.MultiCell(reportWidth, 5, tr("Les versements annuels dépassent le plafond de déduction : la part excédentaire n'est pas déductible."), "", "L", false)
		pdf.Ln(4)
	}

	section(pdf, tr, fmt.Sprintf("Projection à %d ans (%d mois)", RetirementAge, res.MonthsUntilRetirement), [][2]string{
		{"Capital investi", FormatEuros(res.InvestedCapital)},
		{"Intérêts générés", FormatEuros(res.GeneratedCapital)},
		{"Capital total", FormatEuros(res.TotalCapital)},
	})

	if opts.AdvisorName != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(50, 50, 50)
		pdf.CellFormat(reportWidth, 6, tr("Votre conseiller : "+opts.AdvisorName), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(reportWidth, 4, tr("Simulation non contractuelle. Les rendements passés ne préjugent pas des rendements futurs."), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render per report: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string, rows [][2]string) {
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(reportWidth, 8, tr(title), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		pdf.CellFormat(reportWidth*0.6, 7, tr(row[0]), "LB", 0, "L", false, 0, "")
		pdf.CellFormat(reportWidth*0.4, 7, tr(row[1]), "RB", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

// FormatEuros renders 143861.78 as "143 862 €".
func FormatEuros(v float64) string {
	digits := strconv.FormatInt(int64(v+0.5), 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteString(" €")
	return b.String()
}

func formatPercent(rate float64) string {
	return strconv.FormatFloat(math.Round(rate*10000)/100, 'f', -1, 64) + " %"
}
