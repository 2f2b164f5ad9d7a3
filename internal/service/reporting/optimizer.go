package reporting

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// RecommendationType names an inventory action.
type RecommendationType string

const (
	RecommendPriceAdjustment RecommendationType = "price_adjustment"
	RecommendRelist          RecommendationType = "relist"
	RecommendBundle          RecommendationType = "bundle"
)

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	overpricedFactor = 1.2
	quickSaleFactor  = 0.95
	idleStockLimit   = 5
	idleListCount    = 3
	bundleSize       = 3
	bundleDiscount   = 0.15
)

// MarketLookup returns marketplace statistics for a search term.
type MarketLookup interface {
	ResearchProduct(ctx context.Context, keywords string) (models.MarketSnapshot, error)
}

// Recommendation is one suggested inventory action.
type Recommendation struct {
	Type            RecommendationType `json:"type"`
	ItemID          string             `json:"itemId"`
	ItemName        string             `json:"itemName"`
	CurrentStatus   models.ItemStatus  `json:"currentStatus"`
	Reasoning       string             `json:"reasoning"`
	SuggestedAction string             `json:"suggestedAction"`
	Priority        Priority           `json:"priority"`
}

// OptimizerReport lists recommendations, high priority first.
type OptimizerReport struct {
	TotalValue      float64          `json:"totalValue"`
	Recommendations []Recommendation `json:"recommendations"`
	Insights        []string         `json:"insights"`
}

// Optimize inspects inventory for stale listings, idle stock and bundle
// opportunities. market may be nil; stale listings are then recommended for
// relisting. Lookup failures are logged and treated the same way.
func Optimize(ctx context.Context, items []models.InventoryItem, market MarketLookup, now time.Time, logger *zap.Logger) OptimizerReport {
	if logger == nil {
		logger = zap.NewNop()
	}
	report := OptimizerReport{Recommendations: []Recommendation{}, Insights: []string{}}

	var (
		stale    []models.InventoryItem
		inStock  []models.InventoryItem
		soldN    int
		catOrder []models.Category
		byCat    = map[models.Category][]models.InventoryItem{}
	)
	for _, item := range items {
		if calc.CheckRecord(item) != nil {
			continue
		}
		switch item.Status {
		case models.StatusSold:
			soldN++
			report.TotalValue += *item.ActualSellPrice
		case models.StatusListed:
			report.TotalValue += item.EstimatedSellPrice
			if days, ok := daysSince(item.PurchaseDate, now); ok && days > staleAfterDays {
				stale = append(stale, item)
			}
		case models.StatusInStock:
			report.TotalValue += item.EstimatedSellPrice
			inStock = append(inStock, item)
			if _, ok := byCat[item.Category]; !ok {
				catOrder = append(catOrder, item.Category)
			}
			byCat[item.Category] = append(byCat[item.Category], item)
		}
	}

	for _, item := range stale {
		report.Recommendations = append(report.Recommendations, staleRecommendation(ctx, item, market, logger))
	}

	if len(inStock) > idleStockLimit {
		for _, item := range inStock[:idleListCount] {
			report.Recommendations = append(report.Recommendations, Recommendation{
				Type:            RecommendRelist,
				ItemID:          item.ID,
				ItemName:        item.Name,
				CurrentStatus:   item.Status,
				Reasoning:       "Inventory sitting idle - not generating revenue",
				SuggestedAction: "List immediately to start selling",
				Priority:        PriorityHigh,
			})
		}
	}

	for _, category := range catOrder {
		group := byCat[category]
		if len(group) < bundleSize {
			continue
		}
		var value float64
		for _, item := range group[:bundleSize] {
			value += item.EstimatedSellPrice
		}
		report.Recommendations = append(report.Recommendations, Recommendation{
			Type:          RecommendBundle,
			ItemID:        group[0].ID,
			ItemName:      fmt.Sprintf("%s Bundle (%d items)", category, bundleSize),
			CurrentStatus: models.StatusInStock,
			Reasoning:     fmt.Sprintf("%d %s items could be bundled for higher value", len(group), category),
			SuggestedAction: fmt.Sprintf("Create bundle listing at %s (15%% bundle discount) instead of individual %s",
				calc.FormatCurrency(value*(1-bundleDiscount)), calc.FormatCurrency(value)),
			Priority: PriorityMedium,
		})
	}

	sort.SliceStable(report.Recommendations, func(i, j int) bool {
		return report.Recommendations[i].Priority == PriorityHigh && report.Recommendations[j].Priority != PriorityHigh
	})

	report.Insights = append(report.Insights,
		"Total inventory value: "+calc.FormatCurrency(report.TotalValue),
		fmt.Sprintf("%d listings over %d days old", len(stale), staleAfterDays),
		fmt.Sprintf("%d items not yet listed", len(inStock)),
		fmt.Sprintf("%d items sold successfully", soldN),
	)
	if len(stale) > 0 {
		report.Insights = append(report.Insights, fmt.Sprintf("Priority: address %d stale listings to improve turnover", len(stale)))
	}
	return report
}

func staleRecommendation(ctx context.Context, item models.InventoryItem, market MarketLookup, logger *zap.Logger) Recommendation {
	rec := Recommendation{
		Type:            RecommendRelist,
		ItemID:          item.ID,
		ItemName:        item.Name,
		CurrentStatus:   item.Status,
		Reasoning:       "Price is competitive but the listing hasn't gained traction",
		SuggestedAction: "End and relist with new photos and an optimized description",
		Priority:        PriorityMedium,
	}
	if market == nil {
		return rec
	}

	snap, err := market.ResearchProduct(ctx, item.Name)
	if err != nil {
		logger.Warn("market lookup failed", zap.String("item_id", item.ID), zap.Error(err))
		return rec
	}
	if snap.AverageSoldPrice <= 0 || item.EstimatedSellPrice <= snap.AverageSoldPrice*overpricedFactor {
		return rec
	}

	above := math.Round((item.EstimatedSellPrice/snap.AverageSoldPrice - 1) * 100)
	rec.Type = RecommendPriceAdjustment
	rec.Reasoning = fmt.Sprintf("Current price %s is %.0f%% above market average of %s",
		calc.FormatCurrency(item.EstimatedSellPrice), above, calc.FormatCurrency(snap.AverageSoldPrice))
	rec.SuggestedAction = fmt.Sprintf("Lower price to %s for a quick sale", calc.FormatCurrency(snap.AverageSoldPrice*quickSaleFactor))
	rec.Priority = PriorityHigh
	return rec
}
