package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/brokerage-crm/internal/logging"
	"github.com/hackgods/brokerage-crm/internal/per"
)

func main() {
	scenarioFile := flag.String("scenarios", "scenarios.yaml", "YAML file listing the simulations to run")
	pdfDir := flag.String("pdf", "", "write one PDF report per scenario into this directory")
	flag.Parse()

	logger := logging.New(false)
	defer func() { _ = logger.Sync() }()

	f, err := per.LoadScenarios(*scenarioFile)
	if err != nil {
		logger.Fatal("load scenarios", zap.String("file", *scenarioFile), zap.Error(err))
	}
	if len(f.Scenarios) == 0 {
		logger.Warn("no scenarios in file", zap.String("file", *scenarioFile))
		return
	}

	results := make([]per.Result, len(f.Scenarios))
	for i, s := range f.Scenarios {
		results[i] = per.Simulate(s.Inputs())
	}

	printTable(f.Scenarios, results)

	if *pdfDir == "" {
		return
	}
	if err := os.MkdirAll(*pdfDir, 0o755); err != nil {
		logger.Fatal("create pdf directory", zap.Error(err))
	}
	now := time.Now()
	for i, s := range f.Scenarios {
		var buf bytes.Buffer
		err := per.WriteReport(&buf, results[i], per.ReportOptions{
			ClientName:  f.ClientName,
			AdvisorName: f.AdvisorName,
			GeneratedAt: now,
		})
		if err != nil {
			logger.Fatal("render report", zap.String("scenario", s.Name), zap.Error(err))
		}
		path := filepath.Join(*pdfDir, s.Name+".pdf")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			logger.Fatal("write report", zap.String("path", path), zap.Error(err))
		}
		logger.Info("report written", zap.String("path", path))
	}
}

func printTable(scenarios []per.Scenario, results []per.Result) {
	fmt.Printf("%-20s │ %-12s │ %-10s │ %4s │ %10s │ %12s │ %12s │ %12s │ %10s\n",
		"Scenario", "Statut", "Profil", "Âge", "Plafond", "Investi", "Intérêts", "Total", "Économie")
	for i, r := range results {
		mark := ""
		if r.ContributionExceedsCeiling {
			mark = " *"
		}
		fmt.Printf("%-20s │ %-12s │ %-10s │ %4d │ %10s │ %12s │ %12s │ %12s │ %10s%s\n",
			scenarios[i].Name,
			r.Inputs.Status,
			r.Inputs.Profile,
			r.Inputs.Age,
			per.FormatEuros(r.TaxCeiling),
			per.FormatEuros(r.InvestedCapital),
			per.FormatEuros(r.GeneratedCapital),
			per.FormatEuros(r.TotalCapital),
			per.FormatEuros(r.TotalTaxSavings),
			mark,
		)
	}
	fmt.Println("* versements annuels au-dessus du plafond déductible")
}
