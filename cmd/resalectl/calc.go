package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

func (a *app) feesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fees",
		Short: "Show marketplace fees and profit for a sale price",
		RunE: func(cmd *cobra.Command, _ []string) error {
			price := a.v.GetFloat64("fees.price")
			if !calc.Finite(price) || price <= 0 {
				return fmt.Errorf("--price must be positive")
			}
			category := models.Category(a.v.GetString("fees.category"))
			if _, err := calc.FeeRate(category); err != nil {
				return fmt.Errorf("--category: %w", err)
			}
			p := calc.CalculateItemProfit(a.v.GetFloat64("fees.cost"), price, category, a.v.GetFloat64("fees.shipping"), a.v.GetFloat64("fees.other"))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sale price:          %s\n", calc.FormatCurrency(p.Revenue))
			fmt.Fprintf(out, "Final value fee:     %s\n", calc.FormatCurrency(p.Fees.FinalValueFee))
			fmt.Fprintf(out, "Payment processing:  %s\n", calc.FormatCurrency(p.Fees.PaymentProcessingFee))
			fmt.Fprintf(out, "Total fees:          %s\n", calc.FormatCurrency(p.Fees.Total))
			fmt.Fprintf(out, "Net profit:          %s\n", calc.FormatCurrency(p.NetProfit))
			if p.MarginDefined {
				fmt.Fprintf(out, "Margin:              %.1f%%\n", p.ProfitMargin)
			}
			return nil
		},
	}
	cmd.Flags().Float64("price", 0, "sale price")
	cmd.Flags().Float64("cost", 0, "purchase cost")
	cmd.Flags().Float64("shipping", 0, "shipping paid by the seller")
	cmd.Flags().Float64("other", 0, "other expenses")
	cmd.Flags().String("category", string(models.CategoryClothing), "item category")
	for _, name := range []string{"price", "cost", "shipping", "other", "category"} {
		_ = a.v.BindPFlag("fees."+name, cmd.Flags().Lookup(name))
	}
	return cmd
}

func (a *app) landedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "landed",
		Short: "Compute the landed cost of a bulk order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lc, err := calc.CalculateLandedCost(
				a.v.GetFloat64("landed.unit"),
				a.v.GetInt("landed.qty"),
				a.v.GetFloat64("landed.shipping"),
				calc.WithDutyRate(a.v.GetFloat64("landed.duty")),
				calc.WithOtherFees(a.v.GetFloat64("landed.fees")),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Subtotal:   %s\n", calc.FormatCurrency(lc.Subtotal))
			fmt.Fprintf(out, "Shipping:   %s\n", calc.FormatCurrency(lc.Shipping))
			fmt.Fprintf(out, "Duties:     %s\n", calc.FormatCurrency(lc.Duties))
			fmt.Fprintf(out, "Other fees: %s\n", calc.FormatCurrency(lc.OtherFees))
			fmt.Fprintf(out, "Total:      %s\n", calc.FormatCurrency(lc.TotalCost))
			fmt.Fprintf(out, "Per unit:   %s\n", calc.FormatCurrency(lc.CostPerUnit))
			return nil
		},
	}
	cmd.Flags().Float64("unit", 0, "unit price")
	cmd.Flags().Int("qty", 0, "quantity ordered")
	cmd.Flags().Float64("shipping", 0, "freight for the whole order")
	cmd.Flags().Float64("duty", calc.DefaultDutyRate, "import duty rate as a fraction")
	cmd.Flags().Float64("fees", 0, "other flat fees")
	for _, name := range []string{"unit", "qty", "shipping", "duty", "fees"} {
		_ = a.v.BindPFlag("landed."+name, cmd.Flags().Lookup(name))
	}
	return cmd
}
