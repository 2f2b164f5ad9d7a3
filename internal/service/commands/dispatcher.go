package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/service/inventory"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// InventoryAdapter is the inventory surface the dispatcher needs.
type InventoryAdapter interface {
	Stats(ctx context.Context) (calc.InventoryStats, error)
	ChangeStatus(ctx context.Context, id string, change inventory.StatusChange) (models.InventoryItem, error)
}

// GoalsAdapter refreshes and returns goals.
type GoalsAdapter interface {
	Refresh(ctx context.Context) ([]models.Goal, error)
}

// LedgerAdapter records transactions.
type LedgerAdapter interface {
	Add(ctx context.Context, tx models.Transaction) (models.Transaction, error)
}

// Dispatcher executes parsed owner commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	inventory InventoryAdapter
	goals     GoalsAdapter
	ledger    LedgerAdapter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher. ledger may be nil, in which case
// /sold does not write a sale transaction.
func NewService(inventory InventoryAdapter, goals GoalsAdapter, ledger LedgerAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inventory: inventory, goals: goals, ledger: ledger, logger: logger}
}

// HandleCommand runs the command and returns the text reply.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandStats:
		return s.stats(ctx)
	case models.CommandGoals:
		return s.goalsSummary(ctx)
	case models.CommandFees:
		return fees(cmd.Args)
	case models.CommandSold:
		return s.sold(ctx, cmd.Args)
	case models.CommandLanded:
		return landed(cmd.Args)
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) stats(ctx context.Context) (string, error) {
	stats, err := s.inventory.Stats(ctx)
	if err != nil {
		return "", fmt.Errorf("load inventory stats: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inventory: %d in stock, %d listed, %d sold\n", stats.ItemsInStock, stats.ItemsListed, stats.ItemsSold)
	fmt.Fprintf(&b, "Invested: %s\n", calc.FormatCurrency(stats.TotalInvested))
	fmt.Fprintf(&b, "Estimated value: %s\n", calc.FormatCurrency(stats.TotalEstimatedValue))
	fmt.Fprintf(&b, "Sold: %s\n", calc.FormatCurrency(stats.TotalSold))
	fmt.Fprintf(&b, "Net profit: %s", calc.FormatCurrency(stats.TotalProfit))
	if len(stats.Skipped) > 0 {
		fmt.Fprintf(&b, "\n%d records skipped as malformed", len(stats.Skipped))
	}
	return b.String(), nil
}

func (s *Service) goalsSummary(ctx context.Context) (string, error) {
	goals, err := s.goals.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh goals: %w", err)
	}
	if len(goals) == 0 {
		return "No goals set yet.", nil
	}

	lines := make([]string, 0, len(goals)+1)
	lines = append(lines, "Goals:")
	for _, g := range goals {
		current, target := formatGoalValue(g.Type, g.Current), formatGoalValue(g.Type, g.Target)
		line := fmt.Sprintf("- %s: %s / %s (%.1f%%)", g.Title, current, target, g.Progress())
		if g.Deadline != "" {
			line += " by " + g.Deadline
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func formatGoalValue(t models.GoalType, v float64) string {
	switch t {
	case models.GoalRevenue, models.GoalProfit:
		return calc.FormatCurrency(v)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func fees(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrInvalidArguments
	}
	price, err := parseAmount(args[0])
	if err != nil {
		return "", err
	}

	if len(args) < 2 {
		f := calc.CalculateFees(price, models.CategoryOther)
		return fmt.Sprintf("Fees on %s: %s (final value %s, processing %s)",
			calc.FormatCurrency(price), calc.FormatCurrency(f.Total),
			calc.FormatCurrency(f.FinalValueFee), calc.FormatCurrency(f.PaymentProcessingFee)), nil
	}

	cost, err := parseAmount(args[1])
	if err != nil {
		return "", err
	}
	p := calc.CalculateItemProfit(cost, price, models.CategoryOther, 0, 0)
	message := fmt.Sprintf("Sell %s, cost %s: fees %s, net profit %s",
		calc.FormatCurrency(price), calc.FormatCurrency(cost), calc.FormatCurrency(p.Fees.Total), calc.FormatCurrency(p.NetProfit))
	if p.MarginDefined {
		message += fmt.Sprintf(", margin %.1f%%", p.ProfitMargin)
	}
	return message, nil
}

func (s *Service) sold(ctx context.Context, args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrInvalidArguments
	}
	price, err := parseAmount(args[1])
	if err != nil {
		return "", err
	}

	item, err := s.inventory.ChangeStatus(ctx, args[0], inventory.StatusChange{Status: models.StatusSold, ActualSellPrice: &price})
	if err != nil {
		return "", err
	}

	profit := calc.NetProfit(item.PurchasePrice, price, item.Category)
	if s.ledger != nil {
		_, err := s.ledger.Add(ctx, models.Transaction{
			Type:        models.TransactionSale,
			Date:        item.SoldDate,
			Amount:      price,
			ItemID:      item.ID,
			Description: "Sold " + item.Name,
			Category:    string(item.Category),
		})
		if err != nil {
			s.logger.Warn("sale transaction not recorded", zap.String("item_id", item.ID), zap.Error(err))
		}
	}

	return fmt.Sprintf("Marked %s sold for %s. Net profit: %s", item.Name, calc.FormatCurrency(price), calc.FormatCurrency(profit)), nil
}

func landed(args []string) (string, error) {
	if len(args) < 3 {
		return "", ErrInvalidArguments
	}
	unit, err := parseAmount(args[0])
	if err != nil {
		return "", err
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return "", ErrInvalidArguments
	}
	shipping, err := parseAmount(args[2])
	if err != nil {
		return "", err
	}

	lc, err := calc.CalculateLandedCost(unit, qty, shipping)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return fmt.Sprintf("Landed cost for %d units: %s total, %s per unit (duties %s)",
		qty, calc.FormatCurrency(lc.TotalCost), calc.FormatCurrency(lc.CostPerUnit), calc.FormatCurrency(lc.Duties)), nil
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
	if err != nil || !calc.Finite(v) || v < 0 {
		return 0, ErrInvalidArguments
	}
	return v, nil
}
