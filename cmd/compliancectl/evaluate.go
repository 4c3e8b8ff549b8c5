package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"compliance-engine/internal/common/config"
	"compliance-engine/internal/common/logger"
	"compliance-engine/internal/common/validation"
	"compliance-engine/internal/engine/alerts"
	"compliance-engine/internal/models"
	"compliance-engine/internal/service"
	"compliance-engine/internal/store/postgres"
	"compliance-engine/pkg/registry"
)

var (
	evalInput      string
	evalFromDB     bool
	evalCatalog    string
	evalContractor string
	evalCategory   string
	evalSearch     string
	evalSortKey    string
	evalSortAsc    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run one evaluation pass and print the result as JSON",
	Long: `Run one full evaluation pass over a dataset: KPIs, red and amber cards,
the unified alert view, the prioritized snapshot and category rollups.
Rows come from a JSON fixture file or from the reporting database.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evalInput, "input", "", "JSON fixture file with progress rows")
	evaluateCmd.Flags().BoolVar(&evalFromDB, "from-db", false, "Read rows from the reporting database")
	evaluateCmd.Flags().StringVar(&evalCatalog, "catalog", "", "Document-type catalog file; rows with unlisted codes are flagged")
	evaluateCmd.Flags().StringVar(&evalContractor, "contractor", models.FilterAll, "Contractor ID, or 'all'")
	evaluateCmd.Flags().StringVar(&evalCategory, "category", models.FilterAll, "Document category, or 'all'")
	evaluateCmd.Flags().StringVar(&evalSearch, "search", "", "Case-insensitive search term")
	evaluateCmd.Flags().StringVar(&evalSortKey, "sort", "", "Re-sort the unified view by this key")
	evaluateCmd.Flags().BoolVar(&evalSortAsc, "asc", false, "Sort ascending instead of descending")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ds, err := loadDataset(ctx, cfg, log)
	if err != nil {
		return err
	}

	if evalCatalog != "" {
		catalog, err := registry.Load(evalCatalog)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		if unknown := catalog.UnknownCodes(ds.Rows); len(unknown) > 0 {
			log.Warn("rows reference document codes missing from the catalog", map[string]interface{}{
				"codes": unknown,
			})
		}
	}

	eval, err := newEvaluator(cfg, log)
	if err != nil {
		return err
	}

	f := models.FilterState{
		ContractorID: evalContractor,
		Category:     evalCategory,
		Search:       evalSearch,
	}

	result, err := eval.Evaluate(ctx, ds, f)
	if err != nil {
		return err
	}

	if evalSortKey != "" {
		state := alerts.SortState{Key: alerts.SortKey(evalSortKey), Descending: !evalSortAsc}
		eval.ResortUnified(result, state)
	}

	return printJSON(result)
}

func loadDataset(ctx context.Context, cfg *config.Config, log logger.Logger) (service.Dataset, error) {
	if evalFromDB {
		return datasetFromDB(ctx, cfg, log)
	}
	if evalInput == "" {
		return service.Dataset{}, fmt.Errorf("either --input or --from-db is required")
	}
	return datasetFromFile(evalInput, log)
}

// fixtureFile is the on-disk shape of --input: raw rows plus optional
// precomputed per-contractor summaries.
type fixtureFile struct {
	Rows      json.RawMessage     `json:"rows"`
	Summaries []models.KpiSummary `json:"summaries,omitempty"`
}

func datasetFromFile(path string, log logger.Logger) (service.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return service.Dataset{}, fmt.Errorf("read fixture: %w", err)
	}

	var fixture fixtureFile
	if err := json.Unmarshal(data, &fixture); err != nil {
		return service.Dataset{}, fmt.Errorf("parse fixture: %w", err)
	}

	rows, rejected, err := validation.DecodeProgressRows(fixture.Rows)
	if err != nil {
		return service.Dataset{}, fmt.Errorf("decode rows: %w", err)
	}
	for idx, errs := range rejected {
		log.Warn("rejecting malformed fixture row", map[string]interface{}{
			"index":  idx,
			"errors": errs,
		})
	}

	sum := sha256.Sum256(data)
	return service.Dataset{
		Rows:      rows,
		Summaries: fixture.Summaries,
		Version:   hex.EncodeToString(sum[:8]),
	}, nil
}

func openStore(cfg *config.Config, log logger.Logger) (*postgres.Store, error) {
	return postgres.Open(cfg.Database.Postgres, log)
}

func datasetFromDB(ctx context.Context, cfg *config.Config, log logger.Logger) (service.Dataset, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return service.Dataset{}, err
	}
	defer store.Close()

	rows, rejected, err := store.FetchProgress(ctx)
	if err != nil {
		return service.Dataset{}, err
	}
	if rejected > 0 {
		log.Warn("store rejected malformed rows", map[string]interface{}{"count": rejected})
	}

	summaries, err := store.FetchKpiSummaries(ctx)
	if err != nil {
		return service.Dataset{}, err
	}

	return service.Dataset{
		Rows:      rows,
		Summaries: summaries,
		Version:   fmt.Sprintf("db-%d", time.Now().Unix()),
	}, nil
}

func newEvaluator(cfg *config.Config, log logger.Logger) (*service.Evaluator, error) {
	return service.New(cfg.Engine, cfg.Cache.Capacity, log)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
