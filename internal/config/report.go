package config

import (
	"fmt"
	"os"

	"github.com/locvowork/excelstyler/pkg/styledexcel"
	"gopkg.in/yaml.v2"
)

// ReportConfig lists the named reports the service can export.
type ReportConfig struct {
	Reports []Report `yaml:"reports"`
}

// Report is a SQL query exported with validation styling and rules.
type Report struct {
	Name        string                    `yaml:"name"`
	Query       string                    `yaml:"query"`
	IndexColumn string                    `yaml:"index_column"`
	Export      styledexcel.ExportOptions `yaml:"export"`
	Validation  Validation                `yaml:"validation"`
	Rules       []styledexcel.Rule        `yaml:"rules"`
}

// Validation configures the validation-column styling of a report.
type Validation struct {
	Suffix     string      `yaml:"suffix"`
	ErrorStyle interface{} `yaml:"error_style"`
	Remove     bool        `yaml:"remove"`
}

// Options converts v into validation options, leaving unset fields at their defaults.
func (v Validation) Options() []styledexcel.ValidationOption {
	opts := []styledexcel.ValidationOption{styledexcel.WithRemoveValidationColumns(v.Remove)}
	if v.Suffix != "" {
		opts = append(opts, styledexcel.WithSuffix(v.Suffix))
	}
	if v.ErrorStyle != nil {
		opts = append(opts, styledexcel.WithErrorStyle(v.ErrorStyle))
	}
	return opts
}

// UnmarshalYAML starts every report from the default export options so omitted keys
// keep their defaults.
func (r *Report) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain Report
	p := plain{Export: styledexcel.DefaultExportOptions()}
	if err := unmarshal(&p); err != nil {
		return err
	}
	*r = Report(p)
	return nil
}

// LoadReportConfig reads report definitions from a YAML file.
func LoadReportConfig(path string) (*ReportConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report config: %w", err)
	}
	return ParseReportConfig(b)
}

// ParseReportConfig decodes YAML report definitions and checks names are set and unique.
func ParseReportConfig(b []byte) (*ReportConfig, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("report config is empty")
	}
	var cfg ReportConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	seen := make(map[string]bool, len(cfg.Reports))
	for i, r := range cfg.Reports {
		if r.Name == "" {
			return nil, fmt.Errorf("report #%d has no name", i+1)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("report %q defined twice", r.Name)
		}
		seen[r.Name] = true
	}
	return &cfg, nil
}

// Find returns the report with the given name.
func (c *ReportConfig) Find(name string) (*Report, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Reports {
		if c.Reports[i].Name == name {
			return &c.Reports[i], true
		}
	}
	return nil, false
}
