// Package calc holds the pure resale arithmetic: marketplace fees, item profit,
// landed cost and inventory aggregation. Nothing in this package performs I/O.
package calc

import (
	"errors"
	"fmt"
	"math"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// Fee schedule applied to every sale.
const (
	FinalValueFeeRate      = 0.129
	PaymentProcessingRate  = 0.0235
	PaymentProcessingFixed = 0.30
	InsertionFee           = 0.0
	DefaultDutyRate        = 0.0625
	percent                = 100.0
)

var (
	// ErrDivisionByZero is returned when a ratio's denominator is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrInvalidQuantity is returned by landed cost for quantities <= 0.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrMalformedRecord marks a record the aggregator could not use.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnknownCategory is returned for categories outside the fee schedule.
	ErrUnknownCategory = errors.New("unknown category")
)

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Fees is the marketplace fee breakdown for one sale.
type Fees struct {
	InsertionFee         float64 `json:"insertionFee"`
	FinalValueFee        float64 `json:"finalValueFee"`
	PaymentProcessingFee float64 `json:"paymentProcessingFee"`
	Total                float64 `json:"total"`
}

// ProfitCalculation is the full profit picture for a single item.
type ProfitCalculation struct {
	Revenue       float64 `json:"revenue"`
	CostOfGoods   float64 `json:"costOfGoods"`
	Fees          Fees    `json:"ebayFees"`
	Shipping      float64 `json:"shipping"`
	OtherExpenses float64 `json:"otherExpenses"`
	NetProfit     float64 `json:"netProfit"`
	ProfitMargin  float64 `json:"profitMargin"`
	MarginDefined bool    `json:"marginDefined"`
}

// CalculateFees computes marketplace fees for a sale price. The fixed payment
// surcharge applies even to a zero price. Categories outside the schedule are
// charged as CategoryOther; validate input with FeeRate first.
func CalculateFees(salePrice float64, category models.Category) Fees {
	rate, err := FeeRate(category)
	if err != nil {
		rate, _ = FeeRate(models.CategoryOther)
	}
	finalValue := salePrice * rate
	processing := salePrice*PaymentProcessingRate + PaymentProcessingFixed

	return Fees{
		InsertionFee:         InsertionFee,
		FinalValueFee:        finalValue,
		PaymentProcessingFee: processing,
		Total:                InsertionFee + finalValue + processing,
	}
}

// FeeRate returns the final-value fee rate for a category. Every category
// carries the same rate today.
func FeeRate(category models.Category) (float64, error) {
	switch category {
	case models.CategoryClothing, models.CategoryShoes, models.CategoryAccessories, models.CategoryOther:
		return FinalValueFeeRate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, string(category))
}

// ProfitMargin returns net profit as a percentage of the sale price.
func ProfitMargin(netProfit, salePrice float64) (float64, error) {
	if salePrice == 0 {
		return 0, ErrDivisionByZero
	}
	return netProfit / salePrice * percent, nil
}

// CalculateItemProfit computes net profit and margin for one sale. When the sale
// price is zero the margin is reported as 0 with MarginDefined=false.
func CalculateItemProfit(purchasePrice, sellPrice float64, category models.Category, shipping, otherExpenses float64) ProfitCalculation {
	fees := CalculateFees(sellPrice, category)
	net := sellPrice - purchasePrice - fees.Total - shipping - otherExpenses

	result := ProfitCalculation{
		Revenue:       sellPrice,
		CostOfGoods:   purchasePrice,
		Fees:          fees,
		Shipping:      shipping,
		OtherExpenses: otherExpenses,
		NetProfit:     net,
	}

	if margin, err := ProfitMargin(net, sellPrice); err == nil {
		result.ProfitMargin = margin
		result.MarginDefined = true
	}

	return result
}

// NetProfit is shorthand for the net profit of a sale without extra costs.
func NetProfit(purchasePrice, sellPrice float64, category models.Category) float64 {
	return CalculateItemProfit(purchasePrice, sellPrice, category, 0, 0).NetProfit
}
