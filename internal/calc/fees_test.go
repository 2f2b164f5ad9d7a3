package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

func TestCalculateFees(t *testing.T) {
	prices := []float64{0, 1, 9.99, 25, 100, 1234.56}

	for _, price := range prices {
		fees := CalculateFees(price, models.CategoryClothing)

		assert.Zero(t, fees.InsertionFee)
		assert.InDelta(t, price*0.129, fees.FinalValueFee, 1e-9)
		assert.InDelta(t, price*0.0235+0.30, fees.PaymentProcessingFee, 1e-9)
		assert.InDelta(t, price*0.129+price*0.0235+0.30, fees.Total, 1e-9, "price %v", price)
	}
}

func TestCalculateFees_ZeroPriceKeepsFixedSurcharge(t *testing.T) {
	fees := CalculateFees(0, models.CategoryOther)
	assert.InDelta(t, 0.30, fees.Total, 1e-12)
}

func TestCalculateFees_SameRateForEveryCategory(t *testing.T) {
	base := CalculateFees(80, models.CategoryClothing)
	for _, cat := range []models.Category{models.CategoryShoes, models.CategoryAccessories, models.CategoryOther, models.Category("vintage")} {
		assert.Equal(t, base, CalculateFees(80, cat), "category %s", cat)
	}
}

func TestCalculateItemProfit(t *testing.T) {
	result := CalculateItemProfit(10, 50, models.CategoryShoes, 5, 2)

	fees := CalculateFees(50, models.CategoryShoes)
	wantNet := 50 - 10 - fees.Total - 5 - 2

	assert.Equal(t, 50.0, result.Revenue)
	assert.Equal(t, 10.0, result.CostOfGoods)
	assert.Equal(t, 5.0, result.Shipping)
	assert.Equal(t, 2.0, result.OtherExpenses)
	assert.InDelta(t, wantNet, result.NetProfit, 1e-9)
	assert.True(t, result.MarginDefined)
	assert.InDelta(t, wantNet/50*100, result.ProfitMargin, 1e-9)
}

func TestCalculateItemProfit_ZeroSalePriceGuardsMargin(t *testing.T) {
	result := CalculateItemProfit(10, 0, models.CategoryClothing, 0, 0)

	assert.False(t, result.MarginDefined)
	assert.Zero(t, result.ProfitMargin)
	assert.InDelta(t, -10.30, result.NetProfit, 1e-9)
}

func TestProfitMargin_DivisionGuard(t *testing.T) {
	_, err := ProfitMargin(5, 0)
	require.ErrorIs(t, err, ErrDivisionByZero)

	margin, err := ProfitMargin(5, 20)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, margin, 1e-12)
}

func TestFeeRate(t *testing.T) {
	for _, cat := range []models.Category{models.CategoryClothing, models.CategoryShoes, models.CategoryAccessories, models.CategoryOther} {
		rate, err := FeeRate(cat)
		require.NoError(t, err)
		assert.Equal(t, FinalValueFeeRate, rate)
	}

	_, err := FeeRate(models.Category("vintage"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
