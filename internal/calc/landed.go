package calc

import "fmt"

// LandedCost is the per-order and per-unit cost of goods once delivered.
type LandedCost struct {
	Subtotal    float64 `json:"subtotal"`
	Shipping    float64 `json:"shipping"`
	Duties      float64 `json:"duties"`
	OtherFees   float64 `json:"otherFees"`
	TotalCost   float64 `json:"totalCost"`
	CostPerUnit float64 `json:"costPerUnit"`
}

type landedOptions struct {
	dutyRate  float64
	otherFees float64
}

// LandedOption customizes a landed cost calculation.
type LandedOption func(*landedOptions)

// WithDutyRate overrides the default import duty rate (fraction, e.g. 0.0625).
func WithDutyRate(rate float64) LandedOption {
	return func(o *landedOptions) { o.dutyRate = rate }
}

// WithOtherFees adds flat fees to the order total.
func WithOtherFees(fees float64) LandedOption {
	return func(o *landedOptions) { o.otherFees = fees }
}

// CalculateLandedCost computes the landed cost of quantity units. Quantity must
// be positive.
func CalculateLandedCost(unitPrice float64, quantity int, shippingCost float64, opts ...LandedOption) (LandedCost, error) {
	if quantity <= 0 {
		return LandedCost{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	o := landedOptions{dutyRate: DefaultDutyRate}
	for _, opt := range opts {
		opt(&o)
	}

	subtotal := unitPrice * float64(quantity)
	duties := subtotal * o.dutyRate
	total := subtotal + shippingCost + duties + o.otherFees

	return LandedCost{
		Subtotal:    subtotal,
		Shipping:    shippingCost,
		Duties:      duties,
		OtherFees:   o.otherFees,
		TotalCost:   total,
		CostPerUnit: total / float64(quantity),
	}, nil
}
