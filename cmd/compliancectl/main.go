// Package main provides the compliancectl command line tool: run evaluation
// passes, score contractor risk and watch a live dataset.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"compliance-engine/internal/common/config"
	"compliance-engine/internal/common/logger"
)

var rootCmd = &cobra.Command{
	Use:   "compliancectl",
	Short: "Contractor compliance risk and alert classification engine",
	Long:  "compliancectl evaluates contractor compliance-document progress rows into KPIs, alert cards, prioritized worklists, category rollups and contractor risk profiles.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, log, nil
}
