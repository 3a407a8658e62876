// Package orders turns raw order input into models.Order records. It is the
// only place that sees free text: CSV rows from manual exports and
// "Label: value, Label: value" attribute blobs are parsed here so the
// routing engine downstream only ever receives structured records.
package orders

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"supplier-routing-service/internal/models"
	"supplier-routing-service/internal/normalize"
	"supplier-routing-service/pkg/errors"
	"supplier-routing-service/pkg/logger"
)

// ParserConfig holds configuration for order CSV parsing
type ParserConfig struct {
	HasHeader       bool `json:"has_header"`
	SkipEmptyRows   bool `json:"skip_empty_rows"`
	MaxErrors       int  `json:"max_errors"`
	ContinueOnError bool `json:"continue_on_error"`
}

// DefaultParserConfig returns a configuration with sensible defaults
func DefaultParserConfig() *ParserConfig {
	return &ParserConfig{
		HasHeader:       true,
		SkipEmptyRows:   true,
		MaxErrors:       100,
		ContinueOnError: true,
	}
}

// Column aliases observed in real order exports. Headers are compared in
// canonical form, so spacing and punctuation variants all resolve.
var columnAliases = map[string][]string{
	"service_type": {"service type", "service", "type"},
	"amount":       {"amount", "order amount", "transfer amount"},
	"reference":    {"reference number", "reference", "ref no"},
	"marking":      {"marking number", "marking"},
	"attributes":   {"attributes", "questions", "notes"},
}

var requiredColumns = []string{"service type", "amount"}

// Parser reads order CSV files
type Parser struct {
	config *ParserConfig
	logger logger.Logger
}

// NewParser creates an order parser with the given configuration
func NewParser(config *ParserConfig) *Parser {
	if config == nil {
		config = DefaultParserConfig()
	}

	return &Parser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("order_parser"),
	}
}

// ParseStats holds statistics about a parsing operation
type ParseStats struct {
	TotalLines    int
	RecordsParsed int
	RecordsValid  int
	ErrorCount    int
	Errors        []*errors.EnhancedParseError
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d lines, %d records (%d valid), %d errors",
		ps.TotalLines, ps.RecordsParsed, ps.RecordsValid, ps.ErrorCount)
}

// ParseFile reads orders from a CSV file
func (p *Parser) ParseFile(path string) ([]*models.Order, *ParseStats, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}
	defer file.Close()

	return p.Parse(file, path)
}

// Parse reads orders from a CSV stream. The name is used in diagnostics
// only. Rows that fail to parse are collected as recoverable errors; a
// missing required column aborts immediately.
func (p *Parser) Parse(r io.Reader, name string) ([]*models.Order, *ParseStats, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	stats := &ParseStats{}
	collector := errors.NewParseErrorCollector(p.config.MaxErrors, p.config.ContinueOnError)

	columns, err := p.readHeader(reader, name, stats)
	if err != nil {
		return nil, stats, err
	}

	var orders []*models.Order

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, errors.Wrap(err, errors.CategoryParse, errors.CodeInvalidFormat,
				fmt.Sprintf("failed to read CSV record from %s", name))
		}

		stats.TotalLines++
		line := stats.TotalLines
		if p.config.HasHeader {
			line++
		}

		if p.config.SkipEmptyRows && isEmptyRecord(record) {
			continue
		}

		stats.RecordsParsed++

		order, parseErr := p.parseRecord(record, columns, name, line)
		if parseErr != nil {
			p.logger.WithError(parseErr).WithField("line", line).Warn("Skipping unparsable order row")
			if !collector.Add(parseErr) {
				break
			}
			continue
		}

		orders = append(orders, order)
		stats.RecordsValid++
	}

	stats.Errors = collector.GetErrors()
	stats.ErrorCount = len(stats.Errors)

	p.logger.WithFields(logger.Fields{
		"file":    name,
		"valid":   stats.RecordsValid,
		"errors":  stats.ErrorCount,
		"records": stats.RecordsParsed,
	}).Info("Parsed order file")

	return orders, stats, nil
}

// readHeader resolves column positions, applying aliases. Without a header
// row the default column order is service type, amount, reference, marking,
// attributes.
func (p *Parser) readHeader(reader *csv.Reader, name string, stats *ParseStats) (map[string]int, error) {
	if !p.config.HasHeader {
		return map[string]int{
			"service_type": 0,
			"amount":       1,
			"reference":    2,
			"marking":      3,
			"attributes":   4,
		}, nil
	}

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.CategoryParse, errors.CodeInvalidFormat,
				fmt.Sprintf("order file %s is empty", name))
		}
		return nil, errors.Wrap(err, errors.CategoryParse, errors.CodeInvalidFormat,
			fmt.Sprintf("failed to read header row of %s", name))
	}

	columns := make(map[string]int)
	for i, header := range headers {
		key := normalize.CanonicalKey(header)
		for field, aliases := range columnAliases {
			for _, alias := range aliases {
				if key == normalize.CanonicalKey(alias) {
					if _, taken := columns[field]; !taken {
						columns[field] = i
					}
				}
			}
		}
	}

	if _, ok := columns["service_type"]; !ok {
		return nil, errors.MissingColumnError(name, requiredColumns, headers)
	}
	if _, ok := columns["amount"]; !ok {
		return nil, errors.MissingColumnError(name, requiredColumns, headers)
	}

	return columns, nil
}

func (p *Parser) parseRecord(record []string, columns map[string]int, name string, line int) (*models.Order, *errors.EnhancedParseError) {
	serviceType := fieldValue(record, columns, "service_type")
	if serviceType == "" {
		return nil, errors.EmptyValueError(name, line, "service type")
	}

	rawAmount := fieldValue(record, columns, "amount")
	if rawAmount == "" {
		return nil, errors.EmptyValueError(name, line, "amount")
	}

	amount, err := models.ParseDecimalFromString(rawAmount)
	if err != nil || amount.Sign() <= 0 {
		return nil, errors.InvalidAmountError(name, line, "amount", rawAmount)
	}

	order := models.NewOrder(serviceType, amount, ParseAttributes(fieldValue(record, columns, "attributes")))
	order.ReferenceNumber = fieldValue(record, columns, "reference")
	order.MarkingNumber = fieldValue(record, columns, "marking")

	return order, nil
}

func fieldValue(record []string, columns map[string]int, field string) string {
	index, ok := columns[field]
	if !ok || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// ParseAttributes parses a free-text "Label: value, Label: value" blob into
// an attribute map. Keys are lower-cased and trimmed; entries without a
// colon or with an empty label are ignored. Duplicate labels keep the last
// value, matching how corrected entries override earlier ones.
func ParseAttributes(blob string) map[string]string {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil
	}

	attributes := make(map[string]string)

	for _, pair := range strings.Split(blob, ",") {
		key, value, found := strings.Cut(pair, ":")
		if !found {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}

		attributes[key] = strings.TrimSpace(value)
	}

	if len(attributes) == 0 {
		return nil
	}

	return attributes
}
