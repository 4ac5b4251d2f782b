// Package report writes the summary of a precheck run to a YAML file.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

// Totals counts outcomes by status.
type Totals struct {
	Plans     int `yaml:"plans"`
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
	TimedOut  int `yaml:"timed_out"`
}

// Document is the on-disk report.
type Document struct {
	model.Summary `yaml:",inline"`

	Passed bool   `yaml:"passed"`
	Totals Totals `yaml:"totals"`
}

// New builds the report for summary.
func New(summary *model.Summary) Document {
	return Document{
		Summary: *summary,
		Passed:  summary.AllSucceeded(),
		Totals: Totals{
			Plans:     len(summary.Outcomes),
			Succeeded: summary.Count(model.OutcomeSucceeded),
			Failed:    summary.Count(model.OutcomeFailed),
			TimedOut:  summary.Count(model.OutcomeTimedOut),
		},
	}
}

// Write renders summary to path, replacing any previous report.
// The file is written to a temporary name first and renamed into place.
func Write(path string, summary *model.Summary) error {
	data, err := yaml.Marshal(New(summary))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp uses 0600; the report is read by other users.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
