package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryRouting       ErrorCategory = "routing"
	CategoryNetwork       ErrorCategory = "network"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileCorrupted  ErrorCode = "file_corrupted"

	// Parse errors
	CodeInvalidFormat    ErrorCode = "invalid_format"
	CodeMissingColumn    ErrorCode = "missing_column"
	CodeInvalidData      ErrorCode = "invalid_data"
	CodeMalformedBracket ErrorCode = "malformed_bracket"
	CodeMalformedCharge  ErrorCode = "malformed_charge"

	// Validation errors
	CodeInvalidOrder  ErrorCode = "invalid_order"
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeMissingField  ErrorCode = "missing_field"
	CodeOutOfRange    ErrorCode = "out_of_range"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Routing errors
	CodeMalformedSupplier ErrorCode = "malformed_supplier"
	CodeRoutingFailed     ErrorCode = "routing_failed"

	// Network errors
	CodeConnectionFailed   ErrorCode = "connection_failed"
	CodeRequestFailed      ErrorCode = "request_failed"
	CodeServiceUnavailable ErrorCode = "service_unavailable"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// RouterError is the base error type for all application errors
type RouterError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *RouterError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *RouterError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *RouterError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryRouting, CategoryInternal:
		return 5
	case CategoryNetwork:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *RouterError) WithContext(key string, value interface{}) *RouterError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *RouterError) WithSuggestion(suggestion string) *RouterError {
	e.Suggestion = suggestion
	return e
}

// New creates a new RouterError
func New(category ErrorCategory, code ErrorCode, message string) *RouterError {
	return &RouterError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with RouterError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *RouterError {
	if err == nil {
		return nil
	}

	return &RouterError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *RouterError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file appears to be corrupted: %s", path)
		suggestion = "verify the file integrity and try using a backup copy"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *RouterError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// InvalidOrderError creates the error surfaced when an order fails shape
// validation. It is fatal to that single routing call only; batch callers
// catch it per order.
func InvalidOrderError(field string, value interface{}, err error) *RouterError {
	message := fmt.Sprintf("invalid order: field '%s' has unusable value: %v", field, value)

	var result *RouterError
	if err != nil {
		result = Wrap(err, CategoryValidation, CodeInvalidOrder, message)
	} else {
		result = New(CategoryValidation, CodeInvalidOrder, message)
	}

	return result.
		WithSuggestion("orders need a service type and a positive amount").
		WithContext("field", field).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *RouterError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '12.34')"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *RouterError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// CatalogEntryError creates the diagnostic for a malformed supplier, service or
// bracket entry. Policy: the caller skips the entry (treated as non-matching)
// and keeps evaluating the rest of the catalog; this error is never fatal.
func CatalogEntryError(code ErrorCode, supplier, service, field, value string) *RouterError {
	var message string
	var suggestion string

	switch code {
	case CodeMalformedBracket:
		message = fmt.Sprintf("malformed amount bracket '%s' for supplier '%s' service '%s'", value, supplier, service)
		suggestion = "use 'min-max' for a closed range or '>min' for an open lower bound"
	case CodeMalformedCharge:
		message = fmt.Sprintf("malformed charge condition '%s' for supplier '%s' service '%s'", value, supplier, service)
		suggestion = "use a comparison such as '<10000' or '>= 500'"
	case CodeMalformedSupplier:
		message = fmt.Sprintf("malformed catalog entry for supplier '%s'", supplier)
		suggestion = "check the supplier record for missing name or services"
	default:
		message = fmt.Sprintf("catalog data error for supplier '%s': %s", supplier, value)
		suggestion = "review the catalog entry"
	}

	return New(CategoryRouting, code, message).
		WithSuggestion(suggestion).
		WithContext("supplier", supplier).
		WithContext("service", service).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *RouterError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *RouterError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// RoutingError creates a routing-related error
func RoutingError(code ErrorCode, operation string, err error) *RouterError {
	message := fmt.Sprintf("routing error during %s", operation)
	suggestion := "review the catalog and order data"

	if code == CodeRoutingFailed {
		message = fmt.Sprintf("routing failed during %s", operation)
		suggestion = "check data quality or adjust the service match mode"
	}

	var result *RouterError
	if err != nil {
		result = Wrap(err, CategoryRouting, code, message)
	} else {
		result = New(CategoryRouting, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// NetworkError creates a network-related error
func NetworkError(code ErrorCode, endpoint string, err error) *RouterError {
	var message string
	var suggestion string

	switch code {
	case CodeConnectionFailed:
		message = fmt.Sprintf("connection failed to %s", endpoint)
		suggestion = "check network connectivity and endpoint availability"
	case CodeRequestFailed:
		message = fmt.Sprintf("request to %s failed", endpoint)
		suggestion = "check the sheet URL and API response"
	case CodeServiceUnavailable:
		message = fmt.Sprintf("service unavailable: %s", endpoint)
		suggestion = "try again later or contact the sheet administrator"
	default:
		message = fmt.Sprintf("network error: %s", endpoint)
		suggestion = "check network connection and try again"
	}

	var result *RouterError
	if err != nil {
		result = Wrap(err, CategoryNetwork, code, message)
	} else {
		result = New(CategoryNetwork, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("endpoint", endpoint)
}

// InternalError creates an internal error
func InternalError(code ErrorCode, operation string, err error) *RouterError {
	message := fmt.Sprintf("internal error during %s", operation)
	suggestion := "try again or contact support if the problem persists"

	if code == CodeUnexpectedError {
		message = fmt.Sprintf("unexpected error during %s", operation)
		suggestion = "this is likely a bug - please report it with the error details"
	}

	var result *RouterError
	if err != nil {
		result = Wrap(err, CategoryInternal, code, message)
	} else {
		result = New(CategoryInternal, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total        int                   `json:"total"`
	ByCategory   map[ErrorCategory]int `json:"by_category"`
	ByCode       map[ErrorCode]int     `json:"by_code"`
	Errors       []*RouterError        `json:"errors"`
	SampleErrors []*RouterError        `json:"sample_errors,omitempty"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errors []*RouterError) *ErrorSummary {
	if len(errors) == 0 {
		return &ErrorSummary{
			Total:      0,
			ByCategory: make(map[ErrorCategory]int),
			ByCode:     make(map[ErrorCode]int),
			Errors:     []*RouterError{},
		}
	}

	summary := &ErrorSummary{
		Total:      len(errors),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errors,
	}

	for _, err := range errors {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	// Include sample errors (max 5)
	maxSamples := 5
	if len(errors) > maxSamples {
		summary.SampleErrors = errors[:maxSamples]
	} else {
		summary.SampleErrors = errors
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// HasCategory checks if the summary contains errors of the given category
func (es *ErrorSummary) HasCategory(category ErrorCategory) bool {
	count, exists := es.ByCategory[category]
	return exists && count > 0
}

// HasCode checks if the summary contains errors with the given code
func (es *ErrorSummary) HasCode(code ErrorCode) bool {
	count, exists := es.ByCode[code]
	return exists && count > 0
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// Utility functions

// IsRouterError checks if an error is a RouterError
func IsRouterError(err error) bool {
	_, ok := err.(*RouterError)
	return ok
}

// AsRouterError extracts a RouterError from an error chain
func AsRouterError(err error) (*RouterError, bool) {
	var routerErr *RouterError
	if errors.As(err, &routerErr) {
		return routerErr, true
	}
	return nil, false
}

// IsInvalidOrder reports whether the error chain contains an invalid-order error.
func IsInvalidOrder(err error) bool {
	if routerErr, ok := AsRouterError(err); ok {
		return routerErr.Code == CodeInvalidOrder
	}
	return false
}

// WrapIfNeeded wraps an error if it's not already a RouterError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *RouterError {
	if err == nil {
		return nil
	}

	if routerErr, ok := AsRouterError(err); ok {
		return routerErr
	}

	return Wrap(err, category, code, message)
}
