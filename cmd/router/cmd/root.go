package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// Version information set by main
	appVersion   = "dev"
	appBuildTime = "unknown"
	appGitCommit = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "router",
	Short: "A supplier routing tool for money transfer orders",
	Long: `Supplier Routing Service routes money transfer orders to the cheapest
eligible supplier in a catalog.

Each supplier declares per-service amount brackets with exchange rates,
conditional service charges and qualification requirements. The router
evaluates every supplier for every order and picks the lowest total cost.

Examples:
  # Route orders from a CSV file against a local catalog
  router route --orders-file orders.csv --catalog-file suppliers.json

  # Route with fuzzy service type matching and JSON output
  router route --orders-file orders.csv --catalog-file suppliers.json \
    --match-mode fuzzy --output-format json --output-file results.json

  # Manage the supplier catalog backed by a sheet API
  router catalog pull --sheet-url https://sheetdb.io/api/v1/abc123 --catalog-file suppliers.json
  router catalog push --catalog-file suppliers.json --sheet-url https://sheetdb.io/api/v1/abc123`,
	Version: getVersionString(),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.router.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".router")
		}
	}

	viper.SetEnvPrefix("ROUTER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(version, buildTime, gitCommit string) {
	appVersion = version
	appBuildTime = buildTime
	appGitCommit = gitCommit
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	return fmt.Sprintf("%s (built %s, commit %s)", appVersion, appBuildTime, appGitCommit)
}
