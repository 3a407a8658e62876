// Package reporter renders batch routing results for people and machines.
// Console output is for operators running ad hoc batches, JSON for
// downstream billing tooling, CSV for spreadsheet review.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"supplier-routing-service/internal/routing"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeUnmatched bool `json:"include_unmatched"`
	IncludeInvalid   bool `json:"include_invalid"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:           FormatConsole,
		IncludeUnmatched: true,
		IncludeInvalid:   true,
		CSVDelimiter:     ',',
		CSVHeaders:       true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// ReportGenerator renders batch routing results in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the given configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport writes a batch result to the writer in the configured format
func (rg *ReportGenerator) GenerateReport(result *routing.BatchResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("batch result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	case FormatCSV:
		return rg.generateCSVReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// generateConsoleReport writes a human-readable report
func (rg *ReportGenerator) generateConsoleReport(result *routing.BatchResult, writer io.Writer) error {
	fmt.Fprintf(writer, "SUPPLIER ROUTING REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n\n", time.Now().Format(time.RFC3339))

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	summary := result.Summary
	fmt.Fprintf(writer, "Total Orders:    %d\n", summary.TotalOrders)
	fmt.Fprintf(writer, "Matched:         %d\n", summary.Matched)
	fmt.Fprintf(writer, "Unmatched:       %d\n", summary.Unmatched)
	fmt.Fprintf(writer, "Invalid Orders:  %d\n", summary.InvalidOrders)
	fmt.Fprintf(writer, "Duration:        %v\n\n", summary.Duration)

	fmt.Fprintf(writer, "=== ROUTED ORDERS ===\n")
	for _, r := range result.Results {
		switch {
		case r.Err != nil:
			if rg.config.IncludeInvalid {
				fmt.Fprintf(writer, "#%d  %s  REJECTED: %v\n", r.Index+1, describeOrder(r), r.Err)
			}
		case r.Match != nil && r.Match.Matched:
			fmt.Fprintf(writer, "#%d  %s  ->  %s (%s) cost %s\n",
				r.Index+1, describeOrder(r), r.Match.SupplierName, r.Match.ServiceType,
				r.Match.TotalCost.StringFixed(2))
		default:
			if rg.config.IncludeUnmatched {
				fmt.Fprintf(writer, "#%d  %s  ->  No suitable supplier found\n", r.Index+1, describeOrder(r))
			}
		}
	}

	return nil
}

// jsonOrderResult adds the rejection reason, which OrderResult keeps out
// of its own JSON shape because error values do not marshal.
type jsonOrderResult struct {
	routing.OrderResult
	Error string `json:"error,omitempty"`
}

// generateJSONReport writes the structured result
func (rg *ReportGenerator) generateJSONReport(result *routing.BatchResult, writer io.Writer) error {
	filtered := rg.filterResults(result)

	results := make([]jsonOrderResult, 0, len(filtered))
	for _, r := range filtered {
		jr := jsonOrderResult{OrderResult: r}
		if r.Err != nil {
			jr.Error = r.Err.Error()
		}
		results = append(results, jr)
	}

	report := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"summary":      result.Summary,
		"results":      results,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// generateCSVReport writes one row per order
func (rg *ReportGenerator) generateCSVReport(result *routing.BatchResult, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Index",
			"Service_Type",
			"Amount",
			"Reference_Number",
			"Status",
			"Supplier",
			"Total_Cost",
			"Notes",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, r := range rg.filterResults(result) {
		record := []string{
			fmt.Sprintf("%d", r.Index+1),
			"", "", "", "", "", "", "",
		}

		if r.Order != nil {
			record[1] = r.Order.ServiceType
			record[2] = r.Order.Amount.String()
			record[3] = r.Order.ReferenceNumber
		}

		switch {
		case r.Err != nil:
			record[4] = "rejected"
			record[7] = r.Err.Error()
		case r.Match != nil && r.Match.Matched:
			record[4] = "matched"
			record[5] = r.Match.SupplierName
			record[6] = r.Match.TotalCost.StringFixed(2)
		default:
			record[4] = "unmatched"
			record[7] = "No suitable supplier found"
		}

		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}

// filterResults applies the include options to the per-order results
func (rg *ReportGenerator) filterResults(result *routing.BatchResult) []routing.OrderResult {
	filtered := make([]routing.OrderResult, 0, len(result.Results))

	for _, r := range result.Results {
		switch {
		case r.Err != nil:
			if !rg.config.IncludeInvalid {
				continue
			}
		case r.Match == nil || !r.Match.Matched:
			if !rg.config.IncludeUnmatched {
				continue
			}
		}
		filtered = append(filtered, r)
	}

	return filtered
}

func describeOrder(r routing.OrderResult) string {
	if r.Order == nil {
		return "(no order)"
	}

	label := fmt.Sprintf("%s %s", r.Order.ServiceType, r.Order.Amount.String())
	if r.Order.ReferenceNumber != "" {
		label += " [" + r.Order.ReferenceNumber + "]"
	}
	return label
}
