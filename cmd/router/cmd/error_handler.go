package cmd

import (
	"fmt"
	"os"
	"strings"

	"supplier-routing-service/pkg/errors"
	"supplier-routing-service/pkg/logger"

	"github.com/spf13/viper"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError handles errors and returns the process exit code
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Error("Command failed")

	if routerErr, ok := errors.AsRouterError(err); ok {
		return h.handleRouterError(routerErr)
	}

	return h.handleGenericError(err)
}

// handleRouterError prints a RouterError with its context and suggestion
func (h *CLIErrorHandler) handleRouterError(err *errors.RouterError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nContext:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", h.getCategoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.GetExitCode()
}

// handleGenericError handles non-RouterError types
func (h *CLIErrorHandler) handleGenericError(err error) int {
	if h.isFileNotFoundError(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check if the file path is correct and the file exists\n")
		return 2
	}

	if h.isPermissionError(err) {
		fmt.Fprintf(os.Stderr, "Error: Permission denied\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check file permissions and ensure you have read access\n")
		return 2
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if h.verbose {
		fmt.Fprintf(os.Stderr, "\nFor more details, check the logs or run with --verbose flag\n")
	}

	return 1
}

// getCategoryHelp returns category-specific help text
func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check if the file exists and is readable
• Verify the file path is correct (use absolute paths if needed)
• Ensure you have proper permissions to access the file`

	case errors.CategoryParse:
		return `Parse error help:
• Verify the orders CSV has service type and amount columns
• Check that amounts are positive decimal numbers
• Ensure the file uses UTF-8 encoding
• Use 'router route --help' for examples of correct file formats`

	case errors.CategoryValidation:
		return `Validation error help:
• Check that all required fields have values
• Ensure amounts are decimal numbers without currency symbols
• Verify order attributes use 'label: value' pairs`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and arguments
• Verify configuration file syntax if using --config
• Use 'router route --help' to see all available options
• Try running with default settings first`

	case errors.CategoryRouting:
		return `Routing error help:
• Check supplier catalog entries for malformed brackets or charges
• Run 'router catalog validate' to surface broken entries
• Verify that active suppliers cover the order service types`

	case errors.CategoryNetwork:
		return `Network error help:
• Check that the sheet API URL is correct and reachable
• Verify network connectivity and any proxy settings
• Retry after a short wait if the service is temporarily down`

	default:
		return `For more help:
• Use 'router --help' for general help
• Use 'router route --help' for command-specific help
• Report bugs or ask for help on the project repository`
	}
}

// Error detection helpers

func (h *CLIErrorHandler) isFileNotFoundError(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file or directory")
}

func (h *CLIErrorHandler) isPermissionError(err error) bool {
	return os.IsPermission(err) ||
		strings.Contains(err.Error(), "permission denied") ||
		strings.Contains(err.Error(), "access denied")
}

// FormatValidationErrors formats validation errors in a user-friendly way
func FormatValidationErrors(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	if len(errs) == 1 {
		return fmt.Sprintf("Validation error: %v", errs[0])
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Found %d validation errors:", len(errs)))

	for i, err := range errs {
		lines = append(lines, fmt.Sprintf("  %d. %v", i+1, err))
		if i >= 9 && len(errs) > 10 {
			lines = append(lines, fmt.Sprintf("  ... and %d more errors", len(errs)-10))
			break
		}
	}

	return strings.Join(lines, "\n")
}
