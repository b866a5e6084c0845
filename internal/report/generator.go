// Package report renders register statistics as JSON or XML documents.
package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"

	"fjacquet/charity-mergers/internal/common"
	"fjacquet/charity-mergers/internal/logging"
	"fjacquet/charity-mergers/internal/stats"
)

// Supported report formats.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Generator renders statistics summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Generator{
		logger: logger.WithField("component", "ReportGenerator"),
	}
}

// Generate renders summary in the given format (json or xml).
func (g *Generator) Generate(summary *stats.Summary, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSON(summary)
	case FormatXML:
		return g.generateXML(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// Write renders summary to w.
func (g *Generator) Write(w io.Writer, summary *stats.Summary, format string) error {
	data, err := g.Generate(summary, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteFile renders summary to path.
func (g *Generator) WriteFile(path string, summary *stats.Summary, format string) error {
	file, err := common.CreateOutputFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			g.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := g.Write(file, summary, format); err != nil {
		return err
	}
	g.logger.Info("Wrote statistics report",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldFormat, Value: format})
	return nil
}

func (g *Generator) generateJSON(summary *stats.Summary) ([]byte, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(data, '\n'), nil
}

func (g *Generator) generateXML(summary *stats.Summary) ([]byte, error) {
	data, err := xml.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal XML report")
		return nil, fmt.Errorf("failed to marshal XML report: %w", err)
	}
	return []byte(xml.Header + string(data) + "\n"), nil
}
