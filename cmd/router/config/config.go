// Package config builds component configurations from CLI flag values.
package config

import (
	"fmt"

	"supplier-routing-service/internal/engine"
	"supplier-routing-service/internal/orders"
	"supplier-routing-service/internal/reporter"
)

// CreateEngineConfig creates an engine configuration from CLI overrides
func CreateEngineConfig(matchMode string, similarityThreshold float64, includeInactive bool) (*engine.Config, error) {
	config := engine.DefaultConfig()

	switch matchMode {
	case "", string(engine.MatchModeExact):
		config.ServiceMatchMode = engine.MatchModeExact
	case string(engine.MatchModeFuzzy):
		config.ServiceMatchMode = engine.MatchModeFuzzy
	default:
		return nil, fmt.Errorf("unknown match mode: %s (use 'exact' or 'fuzzy')", matchMode)
	}

	if similarityThreshold > 0 {
		config.SimilarityThreshold = similarityThreshold
	}
	config.IncludeInactive = includeInactive

	// CLI runs always collect reasons so verbose output can explain rejections
	config.CollectReasons = true

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// CreateParserConfig creates an order parser configuration for CLI usage
func CreateParserConfig(maxErrors int) *orders.ParserConfig {
	config := orders.DefaultParserConfig()

	if maxErrors > 0 {
		config.MaxErrors = maxErrors
	}
	config.ContinueOnError = true

	return config
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string, includeUnmatched, includeInvalid bool) (*reporter.ReportConfig, error) {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	default:
		return nil, fmt.Errorf("invalid output format: %s (use console, json, or csv)", format)
	}

	config.IncludeUnmatched = includeUnmatched
	config.IncludeInvalid = includeInvalid

	return config, nil
}
