package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// CalcHandler exposes the stateless fee, profit and landed cost calculators.
type CalcHandler struct {
	logger *zap.Logger
}

// NewCalcHandler constructs the calculator handler.
func NewCalcHandler(logger *zap.Logger) *CalcHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalcHandler{logger: logger}
}

type feesRequest struct {
	SalePrice float64         `json:"salePrice"`
	Category  models.Category `json:"category"`
}

// Fees returns the fee breakdown for a sale price.
func (h *CalcHandler) Fees(c *gin.Context) {
	var req feesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	category, err := feeCategory(req.Category)
	if err != nil {
		respondError(c, h.logger, "invalid category", err)
		return
	}
	c.JSON(http.StatusOK, calc.CalculateFees(req.SalePrice, category))
}

// feeCategory defaults an empty category to other and rejects unknown ones.
func feeCategory(category models.Category) (models.Category, error) {
	if category == "" {
		return models.CategoryOther, nil
	}
	if _, err := calc.FeeRate(category); err != nil {
		return "", err
	}
	return category, nil
}

type profitRequest struct {
	PurchasePrice float64         `json:"purchasePrice"`
	SellPrice     float64         `json:"sellPrice"`
	Category      models.Category `json:"category"`
	Shipping      float64         `json:"shipping"`
	OtherExpenses float64         `json:"otherExpenses"`
}

// Profit returns the full profit breakdown for one item.
func (h *CalcHandler) Profit(c *gin.Context) {
	var req profitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	category, err := feeCategory(req.Category)
	if err != nil {
		respondError(c, h.logger, "invalid category", err)
		return
	}
	c.JSON(http.StatusOK, calc.CalculateItemProfit(req.PurchasePrice, req.SellPrice, category, req.Shipping, req.OtherExpenses))
}

type landedRequest struct {
	UnitPrice    float64  `json:"unitPrice"`
	Quantity     int      `json:"quantity"`
	ShippingCost float64  `json:"shippingCost"`
	DutyRate     *float64 `json:"dutyRate"`
	OtherFees    float64  `json:"otherFees"`
}

func (r landedRequest) options() []calc.LandedOption {
	opts := []calc.LandedOption{calc.WithOtherFees(r.OtherFees)}
	if r.DutyRate != nil {
		opts = append(opts, calc.WithDutyRate(*r.DutyRate))
	}
	return opts
}

// LandedCost returns the landed cost of an order.
func (h *CalcHandler) LandedCost(c *gin.Context) {
	var req landedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	lc, err := calc.CalculateLandedCost(req.UnitPrice, req.Quantity, req.ShippingCost, req.options()...)
	if err != nil {
		respondError(c, h.logger, "failed to calculate landed cost", err)
		return
	}
	c.JSON(http.StatusOK, lc)
}
