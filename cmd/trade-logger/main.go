// Package main provides the entry point for the trade logger server.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "trade-logger",
	Short: "Personal trading journal server",
	Long:  `Trade Logger is a personal trading journal: it records trades and strategies, validates them and aggregates performance statistics.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	// A missing .env file is fine; explicit environment wins either way
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
