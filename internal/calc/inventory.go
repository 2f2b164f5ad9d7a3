package calc

import (
	"fmt"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// SkippedRecord identifies an inventory record left out of an aggregation.
type SkippedRecord struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// InventoryStats summarizes an inventory collection.
type InventoryStats struct {
	TotalInvested       float64         `json:"totalInvested"`
	TotalEstimatedValue float64         `json:"totalEstimatedValue"`
	TotalSold           float64         `json:"totalSold"`
	TotalProfit         float64         `json:"totalProfit"`
	ItemsInStock        int             `json:"itemsInStock"`
	ItemsListed         int             `json:"itemsListed"`
	ItemsSold           int             `json:"itemsSold"`
	Skipped             []SkippedRecord `json:"skipped,omitempty"`
}

// AggregateInventory folds items into summary statistics. Malformed records are
// skipped and reported in Skipped; the rest of the collection is still counted.
func AggregateInventory(items []models.InventoryItem) InventoryStats {
	var stats InventoryStats

	for _, item := range items {
		if err := CheckRecord(item); err != nil {
			stats.Skipped = append(stats.Skipped, SkippedRecord{ID: item.ID, Reason: err.Error()})
			continue
		}

		stats.TotalInvested += item.PurchasePrice

		switch item.Status {
		case models.StatusInStock:
			stats.ItemsInStock++
			stats.TotalEstimatedValue += item.EstimatedSellPrice
		case models.StatusListed:
			stats.ItemsListed++
			stats.TotalEstimatedValue += item.EstimatedSellPrice
		case models.StatusSold:
			stats.ItemsSold++
			stats.TotalSold += *item.ActualSellPrice
			stats.TotalProfit += NetProfit(item.PurchasePrice, *item.ActualSellPrice, item.Category)
		}
	}

	return stats
}

// CheckRecord reports whether an inventory record carries the fields the
// aggregator needs. Sell price and sold date must be present exactly when the
// item is sold. The returned error wraps ErrMalformedRecord.
func CheckRecord(item models.InventoryItem) error {
	if !Finite(item.PurchasePrice) || item.PurchasePrice < 0 {
		return fmt.Errorf("%w: purchase price must be a non-negative number", ErrMalformedRecord)
	}

	switch item.Status {
	case models.StatusInStock, models.StatusListed:
		if !Finite(item.EstimatedSellPrice) || item.EstimatedSellPrice < 0 {
			return fmt.Errorf("%w: estimated sell price must be a non-negative number", ErrMalformedRecord)
		}
		if item.ActualSellPrice != nil || item.SoldDate != "" {
			return fmt.Errorf("%w: unsold item with sale details", ErrMalformedRecord)
		}
	case models.StatusSold:
		if item.ActualSellPrice == nil {
			return fmt.Errorf("%w: sold item without actual sell price", ErrMalformedRecord)
		}
		if !Finite(*item.ActualSellPrice) || *item.ActualSellPrice < 0 {
			return fmt.Errorf("%w: actual sell price must be a non-negative number", ErrMalformedRecord)
		}
		if item.SoldDate == "" {
			return fmt.Errorf("%w: sold item without sold date", ErrMalformedRecord)
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrMalformedRecord, string(item.Status))
	}

	return nil
}
