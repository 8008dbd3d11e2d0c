// Package main provides the entry point for the portfolio_migrate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio_migrate",
	Short: "Portfolio content migration tool",
	Long: `portfolio_migrate scrapes an existing portfolio page, validates what it finds,
downloads the images into a deterministic layout and regenerates the site's data modules.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
