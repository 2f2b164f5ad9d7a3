package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository/mongodb"
	"github.com/mamadbah2/resaledesk/internal/service/export"
	"github.com/mamadbah2/resaledesk/internal/service/learning"
	"github.com/mamadbah2/resaledesk/internal/service/reporting"
)

var errNoSource = errors.New("either --file or --mongo-uri is required")

func addSourceFlags(a *app, cmd *cobra.Command, prefix, fileHelp string) {
	cmd.Flags().String("file", "", fileHelp)
	cmd.Flags().String("mongo-uri", "", "read from MongoDB instead of a file")
	cmd.Flags().String("mongo-db", "resaledesk", "MongoDB database name")
	for _, name := range []string{"file", "mongo-uri", "mongo-db"} {
		_ = a.v.BindPFlag(prefix+"."+name, cmd.Flags().Lookup(name))
	}
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (a *app) withMongo(ctx context.Context, prefix string, fn func(*mongodb.MongoDBRepository) error) error {
	repo, err := mongodb.NewMongoDBRepository(ctx, a.v.GetString(prefix+".mongo-uri"), a.v.GetString(prefix+".mongo-db"))
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			a.logger.Warn("failed to close mongodb connection", zap.Error(err))
		}
	}()
	return fn(repo)
}

func (a *app) loadInventory(ctx context.Context) ([]models.InventoryItem, error) {
	if path := a.v.GetString("stats.file"); path != "" {
		var bundle export.Bundle
		if err := readJSON(path, &bundle); err != nil {
			return nil, err
		}
		if bundle.Inventory == nil {
			return nil, nil
		}
		return *bundle.Inventory, nil
	}
	if a.v.GetString("stats.mongo-uri") == "" {
		return nil, errNoSource
	}
	var items []models.InventoryItem
	err := a.withMongo(ctx, "stats", func(repo *mongodb.MongoDBRepository) error {
		var err error
		items, err = repo.ListInventory(ctx)
		return err
	})
	return items, err
}

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize inventory from an export bundle or the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.loadInventory(cmd.Context())
			if err != nil {
				return err
			}
			a.logger.Debug("inventory loaded", zap.Int("items", len(items)))

			stats := calc.AggregateInventory(items)
			perf := reporting.AnalyzePerformance(items, time.Now())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Items: %d in stock, %d listed, %d sold\n", stats.ItemsInStock, stats.ItemsListed, stats.ItemsSold)
			fmt.Fprintf(out, "Invested:        %s\n", calc.FormatCurrency(stats.TotalInvested))
			fmt.Fprintf(out, "Estimated value: %s\n", calc.FormatCurrency(stats.TotalEstimatedValue))
			fmt.Fprintf(out, "Sold:            %s\n", calc.FormatCurrency(stats.TotalSold))
			fmt.Fprintf(out, "Net profit:      %s\n", calc.FormatCurrency(stats.TotalProfit))
			fmt.Fprintf(out, "ROI:             %.1f%%\n", perf.Overview.ROI)
			fmt.Fprintf(out, "Sell-through:    %.1f%%\n", perf.Trends.SellThroughRate)
			for _, c := range perf.ByCategory {
				fmt.Fprintf(out, "  %-12s %d sold, %s profit\n", c.Category, c.ItemsSold, calc.FormatCurrency(c.Profit))
			}
			for _, s := range stats.Skipped {
				fmt.Fprintf(out, "Skipped %s: %s\n", s.ID, s.Reason)
			}
			return nil
		},
	}
	addSourceFlags(a, cmd, "stats", "export bundle produced by GET /api/export")
	return cmd
}

func (a *app) loadHistory(ctx context.Context) ([]models.LearningRecord, error) {
	if path := a.v.GetString("learn.file"); path != "" {
		var history []models.LearningRecord
		err := readJSON(path, &history)
		return history, err
	}
	if a.v.GetString("learn.mongo-uri") == "" {
		return nil, errNoSource
	}
	var history []models.LearningRecord
	err := a.withMongo(ctx, "learn", func(repo *mongodb.MongoDBRepository) error {
		var err error
		history, err = repo.ListLearning(ctx)
		return err
	})
	return history, err
}

func (a *app) learnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Analyze decision outcomes and suggest configuration changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := a.loadHistory(cmd.Context())
			if err != nil {
				return err
			}

			cfg := models.AgentConfig{
				TargetMargin: a.v.GetFloat64("learn.target-margin"),
				Strategy:     models.Strategy(a.v.GetString("learn.strategy")),
			}
			if !cfg.Strategy.Valid() {
				return fmt.Errorf("unknown strategy %q", cfg.Strategy)
			}

			analysis := learning.Analyze(history)
			adj := learning.RecommendAdjustments(analysis, cfg)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Decisions: %d (%d sold)\n", analysis.TotalDecisions, analysis.SoldCount)
			fmt.Fprintf(out, "Success rate: %.1f%%\n", analysis.SuccessRate)
			fmt.Fprintf(out, "Average ROI:  %.1f%%\n", analysis.AverageROI)
			if len(analysis.BestCategories) > 0 {
				fmt.Fprintf(out, "Best categories: %s\n", strings.Join(analysis.BestCategories, ", "))
			}
			for _, insight := range analysis.Insights {
				fmt.Fprintf(out, "- %s\n", insight)
			}
			if adj.TargetMargin != nil {
				fmt.Fprintf(out, "Suggested target margin: %g%%\n", *adj.TargetMargin)
			}
			if adj.Strategy != nil {
				fmt.Fprintf(out, "Suggested strategy: %s\n", *adj.Strategy)
			}
			for _, reason := range adj.Reasons {
				fmt.Fprintf(out, "  because %s\n", reason)
			}
			return nil
		},
	}
	addSourceFlags(a, cmd, "learn", "learning history produced by GET /api/learning/history")
	cmd.Flags().Float64("target-margin", 40, "current target margin percent")
	cmd.Flags().String("strategy", string(models.StrategyBalanced), "current strategy")
	_ = a.v.BindPFlag("learn.target-margin", cmd.Flags().Lookup("target-margin"))
	_ = a.v.BindPFlag("learn.strategy", cmd.Flags().Lookup("strategy"))
	return cmd
}
