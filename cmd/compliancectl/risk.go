package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"compliance-engine/internal/common/config"
	"compliance-engine/internal/common/logger"
	"compliance-engine/internal/engine/risk"
	"compliance-engine/internal/service"
)

var (
	riskInput       string
	riskHorizon     int
	riskLevel       string
	riskSort        string
	riskHistoryDB   bool
	riskHistorySize int
)

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Score contractor risk profiles and print them as JSON",
	Long: `Score each contractor's weighted risk from its four current metrics,
identify bottleneck factors, project completion at the chosen horizon and
classify the recent trend. Metrics come from a JSON fixture file; history
can be merged in from the reporting database.`,
	RunE: runRisk,
}

func init() {
	riskCmd.Flags().StringVar(&riskInput, "input", "", "JSON fixture file with per-contractor metrics")
	riskCmd.Flags().IntVar(&riskHorizon, "horizon", 0, "Projection horizon in days (7, 30 or 90; 0 takes the configured default)")
	riskCmd.Flags().StringVar(&riskLevel, "level", string(risk.FilterAllLevels), "Level filter: all, critical+high, or an exact level")
	riskCmd.Flags().StringVar(&riskSort, "sort", string(risk.SortByScore), "Sort order: score or name")
	riskCmd.Flags().BoolVar(&riskHistoryDB, "history-from-db", false, "Merge metric history from the reporting database")
	riskCmd.Flags().IntVar(&riskHistorySize, "history-size", 7, "History samples to fetch per contractor")
	rootCmd.AddCommand(riskCmd)
}

func runRisk(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	if riskInput == "" {
		return fmt.Errorf("--input is required")
	}
	data, err := os.ReadFile(riskInput)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	var inputs []service.RiskInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	if riskHistoryDB {
		if err := mergeHistory(cmd, cfg, log, inputs); err != nil {
			return err
		}
	}

	eval, err := newEvaluator(cfg, log)
	if err != nil {
		return err
	}

	profiles, err := eval.RiskProfiles(inputs, riskHorizon, risk.LevelFilter(riskLevel), risk.SortBy(riskSort))
	if err != nil {
		return err
	}
	return printJSON(profiles)
}

func mergeHistory(cmd *cobra.Command, cfg *config.Config, log logger.Logger, inputs []service.RiskInput) error {
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	for i := range inputs {
		history, err := store.FetchRiskHistory(ctx, inputs[i].ContractorID, riskHistorySize)
		if err != nil {
			return err
		}
		inputs[i].History = history
	}
	return nil
}
