// Package export renders an analysis report as JSON, YAML, or a CMS
// migration package.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/h0ck3ystyx/recrafter/internal/analysis"
)

// Supported export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCMS  = "cms"
)

// Exporter writes analysis reports to an output directory.
type Exporter struct {
	logger *slog.Logger
}

// New creates an Exporter.
func New(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logger.With("component", "export")}
}

// Export writes the report in the requested format and returns the path of
// the primary artifact.
func (e *Exporter) Export(report *analysis.Report, outputDir, format string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	switch format {
	case FormatJSON:
		return e.exportJSON(report, outputDir)
	case FormatYAML:
		return e.exportYAML(report, outputDir)
	case FormatCMS:
		return e.exportCMS(report, outputDir)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func (e *Exporter) exportJSON(report *analysis.Report, outputDir string) (string, error) {
	path := filepath.Join(outputDir, "analysis_results.json")
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	e.logger.Info("report exported", "format", FormatJSON, "path", path)
	return path, nil
}

// exportYAML renders the report with the same key schema as the JSON export,
// so the two formats stay interchangeable for downstream tooling.
func (e *Exporter) exportYAML(report *analysis.Report, outputDir string) (string, error) {
	path := filepath.Join(outputDir, "analysis_results.yaml")

	jsonData, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(jsonData, &generic); err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	data, err := yaml.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	e.logger.Info("report exported", "format", FormatYAML, "path", path)
	return path, nil
}
