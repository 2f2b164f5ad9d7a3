package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

const (
	staleAfterDays   = 30
	velocityWeeks    = 4
	maxTopPerformers = 5
	maxUnderperforms = 5
)

// Overview is the money picture over sold items.
type Overview struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalCost    float64 `json:"totalCost"`
	TotalProfit  float64 `json:"totalProfit"`
	ROI          float64 `json:"roi"`
	ProfitMargin float64 `json:"profitMargin"`
}

// CategoryBreakdown aggregates sold items of one category.
type CategoryBreakdown struct {
	Category      models.Category `json:"category"`
	Revenue       float64         `json:"revenue"`
	Profit        float64         `json:"profit"`
	ItemsSold     int             `json:"itemsSold"`
	AverageMargin float64         `json:"avgMargin"`
}

// Performer is a sold item ranked by profit.
type Performer struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Profit     float64 `json:"profit"`
	Margin     float64 `json:"margin"`
	DaysToSell *int    `json:"daysToSell,omitempty"`
}

// Underperformer is a listing that has not sold in a long time.
type Underperformer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DaysListed     int    `json:"daysListed"`
	Reason         string `json:"reason"`
	Recommendation string `json:"recommendation"`
}

// Trends captures turnover figures.
type Trends struct {
	SalesVelocity     float64 `json:"salesVelocity"`
	AverageDaysToSell float64 `json:"avgSellingTime"`
	SellThroughRate   float64 `json:"successRate"`
}

// Performance is the full analytics payload.
type Performance struct {
	Overview        Overview            `json:"overview"`
	ByCategory      []CategoryBreakdown `json:"byCategory"`
	TopPerformers   []Performer         `json:"topPerformers"`
	Underperformers []Underperformer    `json:"underperformers"`
	Trends          Trends              `json:"trends"`
	Skipped         int                 `json:"skipped"`
}

// AnalyzePerformance computes sales analytics. Malformed records are counted
// in Skipped and otherwise ignored.
func AnalyzePerformance(items []models.InventoryItem, now time.Time) Performance {
	perf := Performance{
		ByCategory:      []CategoryBreakdown{},
		TopPerformers:   []Performer{},
		Underperformers: []Underperformer{},
	}

	byCategory := map[models.Category]*CategoryBreakdown{}
	var (
		order      []models.Category
		counted    int
		sold       int
		daysTotal  int
		daysCounts int
		performers []Performer
	)

	for _, item := range items {
		if err := calc.CheckRecord(item); err != nil {
			perf.Skipped++
			continue
		}
		counted++

		switch item.Status {
		case models.StatusSold:
			sold++
			price := *item.ActualSellPrice
			profit := calc.NetProfit(item.PurchasePrice, price, item.Category)

			perf.Overview.TotalRevenue += price
			perf.Overview.TotalCost += item.PurchasePrice
			perf.Overview.TotalProfit += profit

			cat, ok := byCategory[item.Category]
			if !ok {
				cat = &CategoryBreakdown{Category: item.Category}
				byCategory[item.Category] = cat
				order = append(order, item.Category)
			}
			cat.Revenue += price
			cat.Profit += profit
			cat.ItemsSold++

			p := Performer{ID: item.ID, Name: item.Name, Profit: profit}
			if margin, err := calc.ProfitMargin(profit, price); err == nil {
				p.Margin = margin
			}
			if item.SoldDate != "" {
				if days, err := calc.DaysBetween(item.PurchaseDate, item.SoldDate); err == nil {
					p.DaysToSell = &days
					daysTotal += days
					daysCounts++
				}
			}
			performers = append(performers, p)

		case models.StatusListed:
			days, ok := daysSince(item.PurchaseDate, now)
			if !ok || days <= staleAfterDays || len(perf.Underperformers) >= maxUnderperforms {
				continue
			}
			perf.Underperformers = append(perf.Underperformers, Underperformer{
				ID:             item.ID,
				Name:           item.Name,
				DaysListed:     days,
				Reason:         fmt.Sprintf("Listed for %d days without selling", days),
				Recommendation: "Consider a price reduction or relisting with better photos and description",
			})
		}
	}

	if perf.Overview.TotalCost > 0 {
		perf.Overview.ROI = perf.Overview.TotalProfit / perf.Overview.TotalCost * 100
	}
	if margin, err := calc.ProfitMargin(perf.Overview.TotalProfit, perf.Overview.TotalRevenue); err == nil {
		perf.Overview.ProfitMargin = margin
	}

	for _, category := range order {
		cat := byCategory[category]
		if margin, err := calc.ProfitMargin(cat.Profit, cat.Revenue); err == nil {
			cat.AverageMargin = margin
		}
		perf.ByCategory = append(perf.ByCategory, *cat)
	}

	sort.SliceStable(performers, func(i, j int) bool { return performers[i].Profit > performers[j].Profit })
	if len(performers) > maxTopPerformers {
		performers = performers[:maxTopPerformers]
	}
	perf.TopPerformers = append(perf.TopPerformers, performers...)

	perf.Trends.SalesVelocity = float64(sold) / velocityWeeks
	if daysCounts > 0 {
		perf.Trends.AverageDaysToSell = float64(daysTotal) / float64(daysCounts)
	}
	if counted > 0 {
		perf.Trends.SellThroughRate = float64(sold) / float64(counted) * 100
	}

	return perf
}

// daysSince returns whole days elapsed since a calendar date.
func daysSince(date string, now time.Time) (int, bool) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return 0, false
	}
	return int(now.Sub(t).Hours() / 24), true
}
