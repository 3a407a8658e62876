package main

import (
	"fmt"
	"os"

	"supplier-routing-service/cmd/router/cmd"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, buildTime, gitCommit)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
