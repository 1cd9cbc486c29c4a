package per

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one simulation read from a scenario file. Amounts use the
// same lenient parsing as the web form.
type Scenario struct {
	Name                string `yaml:"name"`
	Status              string `yaml:"professional_status"`
	AnnualIncome        Amount `yaml:"annual_income"`
	MonthlyContribution Amount `yaml:"monthly_contribution"`
	Profile             string `yaml:"investor_profile"`
	Age                 Amount `yaml:"age"`
	TaxBracket          Amount `yaml:"tax_bracket"`
}

type ScenarioFile struct {
	ClientName  string     `yaml:"client_name"`
	AdvisorName string     `yaml:"advisor_name"`
	Scenarios   []Scenario `yaml:"scenarios"`
}

func (s Scenario) Inputs() Inputs {
	bracket, _ := ParseTaxBracket(float64(s.TaxBracket))
	return Inputs{
		Status:              ParseStatus(s.Status),
		AnnualIncome:        float64(s.AnnualIncome),
		MonthlyContribution: float64(s.MonthlyContribution),
		Profile:             ParseProfile(s.Profile),
		Age:                 int(s.Age),
		TaxBracket:          bracket,
	}
}

// UnmarshalYAML reads any scalar through ParseAmount; other nodes are 0.
func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		*a = 0
		return nil
	}
	*a = Amount(ParseAmount(value.Value))
	return nil
}

func ParseScenarios(data []byte) (*ScenarioFile, error) {
	var f ScenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	for i := range f.Scenarios {
		if f.Scenarios[i].Name == "" {
			f.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
	}
	return &f, nil
}

func LoadScenarios(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseScenarios(data)
}
