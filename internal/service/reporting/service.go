package reporting

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/service/goals"
	"github.com/mamadbah2/resaledesk/internal/service/learning"
)

const (
	reportsDataRange = "Reports!A:I"
	reportPeriod     = 7 * 24 * time.Hour
	profitColumn     = 3
)

// Sheet is the spreadsheet surface used to archive weekly reports.
type Sheet interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// MetricsSource provides learning metrics over a trailing window.
type MetricsSource interface {
	Metrics(ctx context.Context, days int) (learning.Metrics, error)
}

// Dependencies wires the reporting service. Reports, Metrics, Market and
// Sheet are optional.
type Dependencies struct {
	Inventory repository.InventoryRepository
	Goals     repository.GoalRepository
	Reports   repository.ReportRepository
	Metrics   MetricsSource
	Market    MarketLookup
	Sheet     Sheet
	Logger    *zap.Logger
}

// Service exposes dashboards, analytics and the weekly summary.
type Service struct {
	deps   Dependencies
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{deps: deps, logger: logger, now: time.Now}
}

// Dashboard bundles the headline numbers of the business.
type Dashboard struct {
	Stats    calc.InventoryStats `json:"stats"`
	Goals    []goals.Progress    `json:"goals"`
	Learning *learning.Metrics   `json:"learning,omitempty"`
}

// Dashboard assembles inventory stats, goal progress and learning metrics.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	items, err := s.deps.Inventory.ListInventory(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load inventory: %w", err)
	}
	list, err := s.deps.Goals.ListGoals(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("load goals: %w", err)
	}

	dash := Dashboard{Stats: calc.AggregateInventory(items), Goals: goals.WithProgress(list)}
	if s.deps.Metrics != nil {
		metrics, err := s.deps.Metrics.Metrics(ctx, learning.DefaultMetricsWindow)
		if err != nil {
			return Dashboard{}, fmt.Errorf("load learning metrics: %w", err)
		}
		dash.Learning = &metrics
	}
	return dash, nil
}

// Performance runs sales analytics over the current inventory.
func (s *Service) Performance(ctx context.Context) (Performance, error) {
	items, err := s.deps.Inventory.ListInventory(ctx)
	if err != nil {
		return Performance{}, fmt.Errorf("load inventory: %w", err)
	}
	return AnalyzePerformance(items, s.now()), nil
}

// Optimizer recommends inventory actions.
func (s *Service) Optimizer(ctx context.Context) (OptimizerReport, error) {
	items, err := s.deps.Inventory.ListInventory(ctx)
	if err != nil {
		return OptimizerReport{}, fmt.Errorf("load inventory: %w", err)
	}
	return Optimize(ctx, items, s.deps.Market, s.now(), s.logger), nil
}

// WeeklyReport builds the weekly summary, archives it and appends a row to the
// spreadsheet when one is configured. Spreadsheet failures are logged only.
func (s *Service) WeeklyReport(ctx context.Context) (models.WeeklyReport, error) {
	items, err := s.deps.Inventory.ListInventory(ctx)
	if err != nil {
		return models.WeeklyReport{}, fmt.Errorf("load inventory: %w", err)
	}
	list, err := s.deps.Goals.ListGoals(ctx)
	if err != nil {
		return models.WeeklyReport{}, fmt.Errorf("load goals: %w", err)
	}

	end := s.now()
	report := BuildWeeklyReport(calc.AggregateInventory(items), list, end.Add(-reportPeriod), end)

	if prev, ok := s.previousProfit(ctx); ok {
		report.Text += fmt.Sprintf("\nProfit change vs last report: %s", calc.FormatCurrency(report.TotalProfit-prev))
	}

	if s.deps.Reports != nil {
		if err := s.deps.Reports.SaveWeeklyReport(ctx, report); err != nil {
			return models.WeeklyReport{}, fmt.Errorf("save weekly report: %w", err)
		}
	}

	if s.deps.Sheet != nil {
		row := []interface{}{
			report.PeriodEnd.Format(models.DateLayout),
			calc.Round2(report.TotalInvested),
			calc.Round2(report.TotalSold),
			calc.Round2(report.TotalProfit),
			report.ItemsInStock,
			report.ItemsListed,
			report.ItemsSold,
			calc.Round2(report.SuccessRate),
			fmt.Sprintf("%d/%d", report.GoalsOnTrack, report.GoalsTotal),
		}
		if err := s.deps.Sheet.AppendRows(ctx, reportsDataRange, [][]interface{}{row}); err != nil {
			s.logger.Warn("weekly report sheet append failed", zap.Error(err))
		}
	}

	s.logger.Info("weekly report generated",
		zap.Float64("total_profit", report.TotalProfit),
		zap.Int("items_sold", report.ItemsSold),
		zap.Int("skipped_records", report.SkippedRecords),
	)
	return report, nil
}

// previousProfit reads the profit column of the last archived spreadsheet row.
func (s *Service) previousProfit(ctx context.Context) (float64, bool) {
	if s.deps.Sheet == nil {
		return 0, false
	}
	rows, err := s.deps.Sheet.ReadRange(ctx, reportsDataRange)
	if err != nil {
		s.logger.Debug("previous report lookup failed", zap.Error(err))
		return 0, false
	}
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) <= profitColumn {
			continue
		}
		profit, err := parseFloat(row[profitColumn])
		if err != nil {
			continue
		}
		return profit, true
	}
	return 0, false
}

// BuildWeeklyReport renders the weekly snapshot. A goal counts as on track
// once it has reached its target.
func BuildWeeklyReport(stats calc.InventoryStats, list []models.Goal, start, end time.Time) models.WeeklyReport {
	report := models.WeeklyReport{
		GeneratedAt:    end,
		PeriodStart:    start,
		PeriodEnd:      end,
		TotalInvested:  stats.TotalInvested,
		TotalSold:      stats.TotalSold,
		TotalProfit:    stats.TotalProfit,
		ItemsInStock:   stats.ItemsInStock,
		ItemsListed:    stats.ItemsListed,
		ItemsSold:      stats.ItemsSold,
		GoalsTotal:     len(list),
		SkippedRecords: len(stats.Skipped),
	}
	if total := stats.ItemsInStock + stats.ItemsListed + stats.ItemsSold; total > 0 {
		report.SuccessRate = float64(stats.ItemsSold) / float64(total) * 100
	}
	for _, g := range list {
		if g.Target > 0 && g.Current >= g.Target {
			report.GoalsOnTrack++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weekly resale report (%s to %s)\n", start.Format(models.DateLayout), end.Format(models.DateLayout))
	fmt.Fprintf(&b, "Invested: %s\n", calc.FormatCurrency(report.TotalInvested))
	fmt.Fprintf(&b, "Sold: %s across %d items\n", calc.FormatCurrency(report.TotalSold), report.ItemsSold)
	fmt.Fprintf(&b, "Net profit: %s\n", calc.FormatCurrency(report.TotalProfit))
	fmt.Fprintf(&b, "In stock: %d | Listed: %d\n", report.ItemsInStock, report.ItemsListed)
	fmt.Fprintf(&b, "Sell-through: %.1f%%\n", report.SuccessRate)
	fmt.Fprintf(&b, "Goals reached: %d/%d", report.GoalsOnTrack, report.GoalsTotal)
	if report.SkippedRecords > 0 {
		fmt.Fprintf(&b, "\nSkipped %d malformed inventory records", report.SkippedRecords)
	}
	report.Text = b.String()
	return report
}

func parseFloat(value interface{}) (float64, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(str, 64)
}
