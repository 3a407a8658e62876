package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"supplier-routing-service/cmd/router/config"
	"supplier-routing-service/internal/catalog"
	"supplier-routing-service/internal/engine"
	"supplier-routing-service/internal/models"
	"supplier-routing-service/internal/orders"
	"supplier-routing-service/internal/reporter"
	"supplier-routing-service/internal/routing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	ordersFile          string
	catalogFile         string
	sheetURL            string
	outputFormat        string
	outputFile          string
	matchMode           string
	similarityThreshold float64
	concurrency         int
	includeInactive     bool
	includeUnmatched    bool
	includeInvalid      bool
	showProgress        bool
	maxParseErrors      int
)

// routeCmd represents the route command
var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Route orders to the cheapest eligible supplier",
	Long: `Route money transfer orders from a CSV file against a supplier catalog.

The catalog is read from a local JSON file (--catalog-file) or fetched
from a sheet API (--sheet-url). Every order is evaluated against every
supplier; the cheapest eligible one wins. Orders with no eligible
supplier are reported as unmatched, malformed orders as rejected.

Examples:
  # Basic routing with console output
  router route --orders-file orders.csv --catalog-file suppliers.json

  # JSON report written to a file
  router route --orders-file orders.csv --catalog-file suppliers.json \
    --output-format json --output-file results.json

  # Fuzzy service type matching with a custom threshold
  router route --orders-file orders.csv --catalog-file suppliers.json \
    --match-mode fuzzy --similarity-threshold 0.85

  # Route against a live sheet catalog
  router route --orders-file orders.csv --sheet-url https://sheetdb.io/api/v1/abc123`,
	PreRunE: validateRouteFlags,
	RunE:    runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)

	routeCmd.Flags().StringVarP(&ordersFile, "orders-file", "i", "", "path to orders CSV file (required)")
	routeCmd.Flags().StringVarP(&catalogFile, "catalog-file", "c", "", "path to supplier catalog JSON file")
	routeCmd.Flags().StringVar(&sheetURL, "sheet-url", "", "sheet API base URL to fetch the catalog from")
	routeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	routeCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	routeCmd.Flags().StringVar(&matchMode, "match-mode", "exact", "service type matching: exact or fuzzy")
	routeCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0, "minimum similarity for fuzzy matching (0.0-1.0)")
	routeCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of orders routed in parallel (0 = default)")
	routeCmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "consider inactive suppliers")
	routeCmd.Flags().BoolVar(&includeUnmatched, "include-unmatched", true, "include unmatched orders in the report")
	routeCmd.Flags().BoolVar(&includeInvalid, "include-invalid", true, "include rejected orders in the report")
	routeCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress on stderr")
	routeCmd.Flags().IntVar(&maxParseErrors, "max-parse-errors", 0, "abort parsing after this many bad rows (0 = default)")

	routeCmd.MarkFlagRequired("orders-file")

	viper.BindPFlag("orders-file", routeCmd.Flags().Lookup("orders-file"))
	viper.BindPFlag("catalog-file", routeCmd.Flags().Lookup("catalog-file"))
	viper.BindPFlag("sheet-url", routeCmd.Flags().Lookup("sheet-url"))
	viper.BindPFlag("output-format", routeCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", routeCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("match-mode", routeCmd.Flags().Lookup("match-mode"))
	viper.BindPFlag("similarity-threshold", routeCmd.Flags().Lookup("similarity-threshold"))
	viper.BindPFlag("concurrency", routeCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("include-inactive", routeCmd.Flags().Lookup("include-inactive"))
	viper.BindPFlag("progress", routeCmd.Flags().Lookup("progress"))
}

// validateRouteFlags validates all route command flags before execution
func validateRouteFlags(cmd *cobra.Command, args []string) error {
	ordersFile := viper.GetString("orders-file")
	if ordersFile == "" {
		return fmt.Errorf("orders-file is required")
	}
	if err := validateFileExists(ordersFile, "orders file"); err != nil {
		return err
	}

	catalogFile := viper.GetString("catalog-file")
	sheetURL := viper.GetString("sheet-url")
	if catalogFile == "" && sheetURL == "" {
		return fmt.Errorf("either catalog-file or sheet-url is required")
	}
	if catalogFile != "" && sheetURL != "" {
		return fmt.Errorf("catalog-file and sheet-url are mutually exclusive")
	}
	if catalogFile != "" {
		if err := validateFileExists(catalogFile, "catalog file"); err != nil {
			return err
		}
	}

	format := viper.GetString("output-format")
	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[format] {
		return fmt.Errorf("invalid output format '%s': must be console, json, or csv", format)
	}

	mode := viper.GetString("match-mode")
	if mode != "exact" && mode != "fuzzy" {
		return fmt.Errorf("invalid match mode '%s': must be exact or fuzzy", mode)
	}

	threshold := viper.GetFloat64("similarity-threshold")
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("similarity threshold must be between 0.0 and 1.0, got %g", threshold)
	}

	if viper.GetInt("concurrency") < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}

	return nil
}

// validateFileExists checks if a file exists and is readable
func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s does not exist: %s", description, filePath)
		}
		return fmt.Errorf("cannot access %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", description, err)
	}
	file.Close()

	return nil
}

// runRoute executes the routing pipeline
func runRoute(cmd *cobra.Command, args []string) error {
	verbose := viper.GetBool("verbose")
	handler := NewCLIErrorHandler()

	if verbose {
		fmt.Fprintf(os.Stderr, "Loading orders from: %s\n", viper.GetString("orders-file"))
	}

	parser := orders.NewParser(config.CreateParserConfig(viper.GetInt("max-parse-errors")))
	orderList, parseStats, err := parser.ParseFile(viper.GetString("orders-file"))
	if err != nil {
		os.Exit(handler.HandleError(err))
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%s\n", parseStats.String())
	}

	suppliers, err := loadCatalog(cmd.Context(), verbose)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	engineConfig, err := config.CreateEngineConfig(
		viper.GetString("match-mode"),
		viper.GetFloat64("similarity-threshold"),
		viper.GetBool("include-inactive"),
	)
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(engineConfig)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	service := routing.NewService(eng)
	if viper.GetBool("progress") {
		service.AddProgressCallback(func(completed, total int) {
			fmt.Fprintf(os.Stderr, "\rRouting orders... %d/%d", completed, total)
			if completed == total {
				fmt.Fprintln(os.Stderr)
			}
		})
	}

	result, err := service.RouteBatch(cmd.Context(), &routing.BatchRequest{
		Orders:      orderList,
		Catalog:     suppliers,
		Concurrency: viper.GetInt("concurrency"),
	})
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	reportConfig, err := config.CreateReportConfig(viper.GetString("output-format"), includeUnmatched, includeInvalid)
	if err != nil {
		return err
	}

	generator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	var writer io.Writer = os.Stdout
	if path := viper.GetString("output-file"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		writer = file

		if verbose {
			fmt.Fprintf(os.Stderr, "Writing report to: %s\n", path)
		}
	}

	if err := generator.GenerateReport(result, writer); err != nil {
		os.Exit(handler.HandleError(err))
	}

	return nil
}

// loadCatalog loads the supplier catalog from a file or a sheet API
func loadCatalog(ctx context.Context, verbose bool) ([]models.Supplier, error) {
	if sheetURL := viper.GetString("sheet-url"); sheetURL != "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "Fetching catalog from: %s\n", sheetURL)
		}

		client, err := catalog.NewSheetClient(sheetURL)
		if err != nil {
			return nil, err
		}
		return client.Fetch(ctx)
	}

	path := viper.GetString("catalog-file")
	if verbose {
		fmt.Fprintf(os.Stderr, "Loading catalog from: %s\n", path)
	}

	loader := catalog.NewLoader()
	suppliers, loadStats, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "%s\n", loadStats.String())
	}

	return suppliers, nil
}
