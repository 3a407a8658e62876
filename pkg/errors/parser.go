package errors

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseContext provides context information for parsing operations
type ParseContext struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   string `json:"column"`
	Value    string `json:"value"`
	Expected string `json:"expected,omitempty"`
}

// EnhancedParseError extends the base RouterError with location context and
// examples, used when order or catalog files contain unusable records.
type EnhancedParseError struct {
	*RouterError
	Context     *ParseContext `json:"context"`
	Recoverable bool          `json:"recoverable"`
	Examples    []string      `json:"examples,omitempty"`
}

// Error implements the error interface with enhanced formatting
func (e *EnhancedParseError) Error() string {
	parts := []string{e.RouterError.Error()}

	if e.Context != nil {
		location := fmt.Sprintf("at %s", filepath.Base(e.Context.File))
		if e.Context.Line > 0 {
			location += fmt.Sprintf(":%d", e.Context.Line)
		}
		if e.Context.Column != "" {
			location += fmt.Sprintf(" column '%s'", e.Context.Column)
		}
		parts = append(parts, location)
	}

	return strings.Join(parts, " ")
}

// NewEnhancedParseError creates a parse error with location context
func NewEnhancedParseError(code ErrorCode, context *ParseContext, message string, cause error) *EnhancedParseError {
	var base *RouterError
	if cause != nil {
		base = Wrap(cause, CategoryParse, code, message)
	} else {
		base = New(CategoryParse, code, message)
	}

	if context != nil {
		base.WithContext("file", context.File)
		if context.Line > 0 {
			base.WithContext("line", context.Line)
		}
		if context.Column != "" {
			base.WithContext("column", context.Column)
		}
		if context.Value != "" {
			base.WithContext("value", context.Value)
		}
	}

	return &EnhancedParseError{
		RouterError: base,
		Context:     context,
		Recoverable: true,
	}
}

// WithExamples attaches example values that would have parsed
func (e *EnhancedParseError) WithExamples(examples ...string) *EnhancedParseError {
	e.Examples = examples
	return e
}

// WithSuggestion adds a suggestion, keeping the enhanced type
func (e *EnhancedParseError) WithSuggestion(suggestion string) *EnhancedParseError {
	e.RouterError.WithSuggestion(suggestion)
	return e
}

// WithRecoverable marks whether the caller can continue past this error
func (e *EnhancedParseError) WithRecoverable(recoverable bool) *EnhancedParseError {
	e.Recoverable = recoverable
	return e
}

// Common parse error constructors

// InvalidAmountError reports an order amount that could not be parsed
func InvalidAmountError(file string, line int, column string, value string) *EnhancedParseError {
	context := &ParseContext{
		File:     file,
		Line:     line,
		Column:   column,
		Value:    value,
		Expected: "decimal number",
	}

	return NewEnhancedParseError(
		CodeInvalidData,
		context,
		fmt.Sprintf("invalid amount '%s'", value),
		nil,
	).WithSuggestion("amounts must be positive decimal numbers").
		WithExamples("7696.70", "600", "12,500.00")
}

// MalformedBracketError reports an amount bracket that could not be parsed
func MalformedBracketError(file string, line int, value string) *EnhancedParseError {
	context := &ParseContext{
		File:     file,
		Line:     line,
		Column:   "amount_limits",
		Value:    value,
		Expected: "'min-max' or '>min'",
	}

	return NewEnhancedParseError(
		CodeMalformedBracket,
		context,
		fmt.Sprintf("malformed amount bracket '%s'", value),
		nil,
	).WithSuggestion("brackets are a closed range or an open lower bound").
		WithExamples("500-10000", ">0.01")
}

// MissingColumnError reports required columns absent from a header row
func MissingColumnError(file string, expectedColumns []string, actualColumns []string) *EnhancedParseError {
	missing := findMissingColumns(expectedColumns, actualColumns)

	context := &ParseContext{
		File:     file,
		Line:     1,
		Column:   strings.Join(missing, ", "),
		Expected: strings.Join(expectedColumns, ", "),
	}

	return NewEnhancedParseError(
		CodeMissingColumn,
		context,
		fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		nil,
	).WithSuggestion("check the header row for the expected column names").
		WithRecoverable(false)
}

// EmptyValueError reports a required field with no value
func EmptyValueError(file string, line int, column string) *EnhancedParseError {
	context := &ParseContext{
		File:   file,
		Line:   line,
		Column: column,
	}

	return NewEnhancedParseError(
		CodeMissingField,
		context,
		fmt.Sprintf("required field '%s' is empty", column),
		nil,
	).WithSuggestion("provide a value for this field or remove the row")
}

// ParseErrorCollector accumulates recoverable parse errors up to a limit
type ParseErrorCollector struct {
	errors          []*EnhancedParseError
	maxErrors       int
	continueOnError bool
}

// NewParseErrorCollector creates a collector; maxErrors <= 0 means unlimited
func NewParseErrorCollector(maxErrors int, continueOnError bool) *ParseErrorCollector {
	return &ParseErrorCollector{
		errors:          []*EnhancedParseError{},
		maxErrors:       maxErrors,
		continueOnError: continueOnError,
	}
}

// Add records an error and reports whether parsing should continue
func (c *ParseErrorCollector) Add(err *EnhancedParseError) bool {
	c.errors = append(c.errors, err)

	if !err.Recoverable {
		return false
	}

	if c.maxErrors > 0 && len(c.errors) >= c.maxErrors {
		return false
	}

	return c.continueOnError
}

// HasErrors reports whether any errors were collected
func (c *ParseErrorCollector) HasErrors() bool {
	return len(c.errors) > 0
}

// GetErrors returns the collected errors
func (c *ParseErrorCollector) GetErrors() []*EnhancedParseError {
	return c.errors
}

// GetSummary builds an ErrorSummary over the collected errors
func (c *ParseErrorCollector) GetSummary() *ErrorSummary {
	routerErrors := make([]*RouterError, 0, len(c.errors))
	for _, err := range c.errors {
		routerErrors = append(routerErrors, err.RouterError)
	}
	return NewErrorSummary(routerErrors)
}

// Clear resets the collector
func (c *ParseErrorCollector) Clear() {
	c.errors = c.errors[:0]
}

func findMissingColumns(expected, actual []string) []string {
	actualSet := make(map[string]bool, len(actual))
	for _, col := range actual {
		actualSet[strings.ToLower(strings.TrimSpace(col))] = true
	}

	var missing []string
	for _, col := range expected {
		if !actualSet[strings.ToLower(strings.TrimSpace(col))] {
			missing = append(missing, col)
		}
	}

	return missing
}
