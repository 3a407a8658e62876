package cmd

import (
	"fmt"
	"os"

	"supplier-routing-service/internal/catalog"

	"github.com/spf13/cobra"
)

var (
	catalogPath    string
	catalogSheet   string
	deleteSupplier string
)

// catalogCmd groups catalog management subcommands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the supplier catalog",
	Long: `Inspect and synchronize the supplier catalog.

The catalog lives in a local JSON file and can be mirrored to a sheet
API where operations staff maintain supplier entries. Pull fetches the
sheet into a local file, push replaces the sheet content with the
local file.`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a local catalog file",
	Long: `Load a catalog file and report malformed supplier entries.

Malformed entries are skipped by the router at load time; this command
surfaces them so they can be fixed at the source.`,
	RunE: runCatalogValidate,
}

var catalogPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the catalog from the sheet API into a local file",
	RunE:  runCatalogPull,
}

var catalogPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload a local catalog file to the sheet API",
	RunE:  runCatalogPush,
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete one supplier from the sheet API",
	RunE:  runCatalogRemove,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd, catalogPullCmd, catalogPushCmd, catalogRemoveCmd)

	catalogCmd.PersistentFlags().StringVarP(&catalogPath, "catalog-file", "c", "", "path to supplier catalog JSON file")
	catalogCmd.PersistentFlags().StringVar(&catalogSheet, "sheet-url", "", "sheet API base URL")

	catalogRemoveCmd.Flags().StringVar(&deleteSupplier, "supplier", "", "supplier name to delete (required)")
	catalogRemoveCmd.MarkFlagRequired("supplier")
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	if err := validateFileExists(catalogPath, "catalog file"); err != nil {
		return err
	}

	handler := NewCLIErrorHandler()

	loader := catalog.NewLoader()
	suppliers, stats, err := loader.LoadFile(catalogPath)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	fmt.Printf("%s\n", stats.String())
	for _, entryErr := range stats.Errors {
		fmt.Printf("  skipped: %s\n", entryErr.Message)
	}

	if len(suppliers) == 0 {
		return fmt.Errorf("catalog contains no usable suppliers")
	}

	fmt.Printf("Catalog OK: %d suppliers\n", len(suppliers))
	return nil
}

func runCatalogPull(cmd *cobra.Command, args []string) error {
	if catalogSheet == "" {
		return fmt.Errorf("sheet-url is required")
	}
	if catalogPath == "" {
		return fmt.Errorf("catalog-file is required")
	}

	handler := NewCLIErrorHandler()

	client, err := catalog.NewSheetClient(catalogSheet)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	suppliers, err := client.Fetch(cmd.Context())
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	loader := catalog.NewLoader()
	if err := loader.SaveFile(catalogPath, suppliers); err != nil {
		os.Exit(handler.HandleError(err))
	}

	fmt.Printf("Pulled %d suppliers to %s\n", len(suppliers), catalogPath)
	return nil
}

func runCatalogPush(cmd *cobra.Command, args []string) error {
	if catalogSheet == "" {
		return fmt.Errorf("sheet-url is required")
	}
	if err := validateFileExists(catalogPath, "catalog file"); err != nil {
		return err
	}

	handler := NewCLIErrorHandler()

	loader := catalog.NewLoader()
	suppliers, stats, err := loader.LoadFile(catalogPath)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}
	if stats.SkippedEntries > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d malformed entries will not be pushed\n", stats.SkippedEntries)
	}

	client, err := catalog.NewSheetClient(catalogSheet)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if err := client.Update(cmd.Context(), suppliers); err != nil {
		os.Exit(handler.HandleError(err))
	}

	fmt.Printf("Pushed %d suppliers to %s\n", len(suppliers), catalogSheet)
	return nil
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	if catalogSheet == "" {
		return fmt.Errorf("sheet-url is required")
	}

	handler := NewCLIErrorHandler()

	client, err := catalog.NewSheetClient(catalogSheet)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	if err := client.Delete(cmd.Context(), deleteSupplier); err != nil {
		os.Exit(handler.HandleError(err))
	}

	fmt.Printf("Deleted supplier %q from %s\n", deleteSupplier, catalogSheet)
	return nil
}
