package calc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

func price(v float64) *float64 { return &v }

func sampleInventory() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "a", Category: models.CategoryClothing, PurchasePrice: 10, EstimatedSellPrice: 30, ActualSellPrice: price(30), SoldDate: "2025-03-01", Status: models.StatusSold},
		{ID: "b", Category: models.CategoryShoes, PurchasePrice: 5, EstimatedSellPrice: 15, Status: models.StatusInStock},
	}
}

func TestAggregateInventory_Example(t *testing.T) {
	stats := AggregateInventory(sampleInventory())

	assert.InDelta(t, 15.0, stats.TotalInvested, 1e-9)
	assert.InDelta(t, 30.0, stats.TotalSold, 1e-9)
	assert.InDelta(t, 15.0, stats.TotalEstimatedValue, 1e-9)
	assert.Equal(t, 1, stats.ItemsSold)
	assert.Equal(t, 1, stats.ItemsInStock)
	assert.Zero(t, stats.ItemsListed)
	assert.InDelta(t, NetProfit(10, 30, models.CategoryClothing), stats.TotalProfit, 1e-9)
	assert.Empty(t, stats.Skipped)
}

func TestAggregateInventory_Idempotent(t *testing.T) {
	items := append(sampleInventory(), models.InventoryItem{ID: "c", PurchasePrice: 8, EstimatedSellPrice: 20, Status: models.StatusListed})

	first := AggregateInventory(items)
	second := AggregateInventory(items)

	assert.Equal(t, first, second)
}

func TestAggregateInventory_OrderIndependent(t *testing.T) {
	items := append(sampleInventory(), models.InventoryItem{ID: "c", PurchasePrice: 8, EstimatedSellPrice: 20, Status: models.StatusListed})
	reversed := []models.InventoryItem{items[2], items[1], items[0]}

	a := AggregateInventory(items)
	b := AggregateInventory(reversed)

	assert.InDelta(t, a.TotalInvested, b.TotalInvested, 1e-9)
	assert.InDelta(t, a.TotalEstimatedValue, b.TotalEstimatedValue, 1e-9)
	assert.InDelta(t, a.TotalSold, b.TotalSold, 1e-9)
	assert.InDelta(t, a.TotalProfit, b.TotalProfit, 1e-9)
	assert.Equal(t, a.ItemsListed, b.ItemsListed)
}

func TestAggregateInventory_SkipsMalformedRecords(t *testing.T) {
	items := append(sampleInventory(),
		models.InventoryItem{ID: "missing-price", PurchasePrice: 12, Status: models.StatusSold},
		models.InventoryItem{ID: "bad-status", PurchasePrice: 3, Status: models.ItemStatus("returned")},
	)

	stats := AggregateInventory(items)

	assert.InDelta(t, 15.0, stats.TotalInvested, 1e-9)
	assert.Equal(t, 1, stats.ItemsSold)
	require.Len(t, stats.Skipped, 2)
	assert.Equal(t, "missing-price", stats.Skipped[0].ID)
	assert.Equal(t, "bad-status", stats.Skipped[1].ID)
}

func TestAggregateInventory_Empty(t *testing.T) {
	assert.Equal(t, InventoryStats{}, AggregateInventory(nil))
}

func TestCheckRecord(t *testing.T) {
	err := CheckRecord(models.InventoryItem{Status: models.StatusSold})
	require.ErrorIs(t, err, ErrMalformedRecord)

	err = CheckRecord(models.InventoryItem{Status: models.StatusListed, PurchasePrice: -1})
	require.ErrorIs(t, err, ErrMalformedRecord)

	require.NoError(t, CheckRecord(models.InventoryItem{Status: models.StatusSold, ActualSellPrice: price(0), SoldDate: "2025-03-01"}))
}

func TestCheckRecord_SaleDetailsMatchStatus(t *testing.T) {
	cases := map[string]models.InventoryItem{
		"sold without date":     {Status: models.StatusSold, ActualSellPrice: price(20)},
		"listed with price":     {Status: models.StatusListed, ActualSellPrice: price(20)},
		"in stock with date":    {Status: models.StatusInStock, SoldDate: "2025-03-01"},
		"nan purchase price":    {Status: models.StatusInStock, PurchasePrice: math.NaN()},
		"inf estimated price":   {Status: models.StatusListed, EstimatedSellPrice: math.Inf(1)},
		"nan actual sell price": {Status: models.StatusSold, ActualSellPrice: price(math.NaN()), SoldDate: "2025-03-01"},
	}

	for name, item := range cases {
		assert.ErrorIs(t, CheckRecord(item), ErrMalformedRecord, name)
	}
}

func TestAggregateInventory_SkipsNonFiniteAmounts(t *testing.T) {
	items := append(sampleInventory(),
		models.InventoryItem{ID: "nan-sale", PurchasePrice: 4, ActualSellPrice: price(math.NaN()), SoldDate: "2025-03-02", Status: models.StatusSold},
		models.InventoryItem{ID: "inf-cost", PurchasePrice: math.Inf(1), EstimatedSellPrice: 9, Status: models.StatusInStock},
	)

	stats := AggregateInventory(items)

	assert.InDelta(t, 15.0, stats.TotalInvested, 1e-9)
	assert.InDelta(t, 30.0, stats.TotalSold, 1e-9)
	assert.False(t, math.IsNaN(stats.TotalProfit))
	require.Len(t, stats.Skipped, 2)

	_, err := json.Marshal(stats)
	assert.NoError(t, err)
}
