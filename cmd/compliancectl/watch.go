package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"compliance-engine/internal/common/config"
	"compliance-engine/internal/common/logger"
	"compliance-engine/internal/common/observability"
	"compliance-engine/internal/engine/alerts"
	"compliance-engine/internal/models"
	"compliance-engine/internal/notify"
	"compliance-engine/internal/service"
	"compliance-engine/internal/store/redisstore"
)

var (
	watchInterval    time.Duration
	watchMetricsAddr string
	watchNotify      bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate the reporting database on an interval",
	Long: `Poll the reporting database, run a full evaluation pass each cycle and
expose Prometheus metrics. With --notify, suggested actions on overdue
alerts are dispatched after every pass.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "Evaluation interval")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", ":9102", "Prometheus metrics listen address")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Dispatch suggested actions for red cards")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	shared := redisstore.New(cfg.Database.Redis, cfg.Cache)
	defer shared.Close()
	if err := shared.Ping(ctx); err != nil {
		log.Warn("shared cache unreachable, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
		shared = nil
	}

	opts := []service.Option{service.WithObservability(obs)}
	if shared != nil {
		opts = append(opts, service.WithSharedCache(shared))
	}
	eval, err := service.New(cfg.Engine, cfg.Cache.Capacity, log, opts...)
	if err != nil {
		return err
	}

	var dispatcher *notify.Dispatcher
	if watchNotify {
		dispatcher, err = notify.New(ctx, cfg.Notifications, log)
		if err != nil {
			return err
		}
	}

	go serveMetrics(watchMetricsAddr, log)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	log.Info("watch started", map[string]interface{}{
		"interval":    watchInterval.String(),
		"metricsAddr": watchMetricsAddr,
	})

	runCycle(ctx, cfg, log, eval, dispatcher)
	for {
		select {
		case <-ticker.C:
			runCycle(ctx, cfg, log, eval, dispatcher)
		case sig := <-sigCh:
			log.Info("shutting down", map[string]interface{}{"signal": sig.String()})
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func runCycle(ctx context.Context, cfg *config.Config, log logger.Logger, eval *service.Evaluator, dispatcher *notify.Dispatcher) {
	ds, err := datasetFromDB(ctx, cfg, log)
	if err != nil {
		log.Error("dataset load failed", map[string]interface{}{"error": err.Error()})
		return
	}

	result, err := eval.Evaluate(ctx, ds, models.NewFilterState())
	if err != nil {
		log.Error("evaluation failed", map[string]interface{}{"error": err.Error()})
		return
	}

	if dispatcher == nil {
		return
	}
	// Unified items carry the suggested actions; only the overdue tier is
	// dispatched automatically.
	for _, item := range result.Unified {
		if item.WarningLevel != alerts.LevelOverdue {
			continue
		}
		if err := dispatcher.DispatchItem(ctx, item); err != nil {
			log.Error("dispatch failed", map[string]interface{}{
				"documentCode": item.DocumentCode,
				"error":        err.Error(),
			})
		}
	}
}

func serveMetrics(addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server stopped", map[string]interface{}{"error": err.Error()})
	}
}
