package fees

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/fee-service/internal/domain"
)

const maxSolverIterations = 10

var (
	solverTolerance = decimal.RequireFromString("0.1")
	solverStepUp    = decimal.RequireFromString("1.05")
	solverStepDown  = decimal.RequireFromString("0.98")
	solverStart     = decimal.NewFromInt(2)

	// competitor prices within this many percent count as in line
	competitorBand = decimal.NewFromInt(10)
)

// ProfitOptions add seller costs to FeeOptions
type ProfitOptions struct {
	FeeOptions
	ShippingCost decimal.Decimal
}

// PricingOptions add an optional competitor price to ProfitOptions
type PricingOptions struct {
	ProfitOptions
	CompetitorPrice decimal.Decimal // zero: no comparison
}

// Profitability computes profit and margin for selling an item bought at
// costPrice for salePrice. Margin is zero for a zero sale price.
func (c *Calculator) Profitability(salePrice, costPrice decimal.Decimal, opts ProfitOptions) domain.ProfitabilityResult {
	fees := c.AllFees(salePrice, opts.FeeOptions)

	totalCosts := costPrice.Add(fees.TotalFees).Add(opts.ShippingCost)
	netProfit := salePrice.Sub(totalCosts)

	return domain.ProfitabilityResult{
		Revenue: salePrice,
		Costs: domain.ProfitCosts{
			ItemCost:     costPrice,
			TotalFees:    fees.TotalFees,
			ShippingCost: opts.ShippingCost,
			TotalCosts:   totalCosts,
		},
		Profit: domain.ProfitFigures{
			GrossProfit:  salePrice.Sub(costPrice),
			NetProfit:    netProfit,
			ProfitMargin: percentOf(netProfit, salePrice),
		},
		FeeCalculation: fees,
	}
}

// SuggestOptimalPrice searches for a sale price whose profit margin is within
// 0.1 points of targetMargin. The search starts at twice the cost and steps
// the price up 5% or down 2% per iteration, for at most ten iterations. When
// it does not converge the last price tried is returned with Converged false.
// Only SuggestedPrice is rounded to cents; ProfitAnalysis is exact at the
// unrounded price.
func (c *Calculator) SuggestOptimalPrice(costPrice, targetMargin decimal.Decimal, opts PricingOptions) domain.PriceSuggestion {
	profitOpts := opts.ProfitOptions
	// every iteration must see the same promotions
	profitOpts.At = c.instant(profitOpts.At)

	price := costPrice.Mul(solverStart)
	iterations := 0
	converged := false
	var analysis domain.ProfitabilityResult

	for iterations < maxSolverIterations {
		analysis = c.Profitability(price, costPrice, profitOpts)
		margin := analysis.Profit.ProfitMargin

		if margin.Sub(targetMargin).Abs().LessThan(solverTolerance) {
			converged = true
			break
		}
		if margin.LessThan(targetMargin) {
			price = price.Mul(solverStepUp)
		} else {
			price = price.Mul(solverStepDown)
		}
		iterations++
	}
	if !converged {
		analysis = c.Profitability(price, costPrice, profitOpts)
	}

	suggested := price.Round(2)
	suggestion := domain.PriceSuggestion{
		SuggestedPrice: suggested,
		TargetMargin:   targetMargin,
		ProfitAnalysis: analysis,
		Iterations:     iterations,
		Converged:      converged,
	}
	if opts.CompetitorPrice.IsPositive() {
		cmp := compareToCompetitor(suggested, opts.CompetitorPrice)
		suggestion.CompetitorComparison = &cmp
	}
	return suggestion
}

func compareToCompetitor(price, competitor decimal.Decimal) domain.CompetitorComparison {
	diff := price.Sub(competitor)
	pct := percentOf(diff, competitor)

	cmp := domain.CompetitorComparison{
		CompetitorPrice:           competitor,
		PriceDifference:           diff,
		PriceDifferencePercentage: pct,
	}
	switch {
	case pct.GreaterThan(competitorBand):
		cmp.Position = domain.PricePositionHigh
		cmp.Recommendation = fmt.Sprintf("Price is %s%% above the competitor, consider adjusting down", pct.Round(1).String())
	case pct.LessThan(competitorBand.Neg()):
		cmp.Position = domain.PricePositionLow
		cmp.Recommendation = fmt.Sprintf("Price is %s%% below the competitor, there is room to raise it", pct.Abs().Round(1).String())
	default:
		cmp.Position = domain.PricePositionInLine
		cmp.Recommendation = "Price is in line with the competitor"
	}
	return cmp
}
