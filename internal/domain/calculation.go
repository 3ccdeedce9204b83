package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinalValueFeeResult is the outcome of a final value fee computation
type FinalValueFeeResult struct {
	Fee                decimal.Decimal `json:"fee"`
	OriginalFee        decimal.Decimal `json:"original_fee"`
	Discount           decimal.Decimal `json:"discount"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Rate               decimal.Decimal `json:"rate"`
}

// PromotedListingsFeeResult is the outcome of a promoted listings fee computation
type PromotedListingsFeeResult struct {
	Fee         decimal.Decimal `json:"fee"`
	OriginalFee decimal.Decimal `json:"original_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Promotion   *Promotion      `json:"promotion,omitempty"`
}

// ListingFeeResult is the outcome of a listing fee computation.
// SubtitleFee and ListingUpgradeFee are nil when the upgrade was not purchased.
type ListingFeeResult struct {
	InsertionFee          decimal.Decimal  `json:"insertion_fee"`
	SubtitleFee           *decimal.Decimal `json:"subtitle_fee,omitempty"`
	ListingUpgradeFee     *decimal.Decimal `json:"listing_upgrade_fee,omitempty"`
	TotalListingFees      decimal.Decimal  `json:"total_listing_fees"`
	FreeListingsRemaining int              `json:"free_listings_remaining"`
	PaidListings          int              `json:"paid_listings"`
}

// FeeCalculationResult is the itemized fee breakdown for one sale
type FeeCalculationResult struct {
	ItemPrice             decimal.Decimal `json:"item_price"`
	Currency              string          `json:"currency"`
	Fees                  []FeeLineItem   `json:"fees"`
	TotalFees             decimal.Decimal `json:"total_fees"`
	NetAmount             decimal.Decimal `json:"net_amount"`
	FeePercentage         decimal.Decimal `json:"fee_percentage"`
	SavingsFromPromotions decimal.Decimal `json:"savings_from_promotions"`
	StoreTier             StoreTier       `json:"store_tier"`
	PromotionsApplied     []string        `json:"promotions_applied"`
}

// FeeOf returns the summed amount of all lines of the given type
func (r *FeeCalculationResult) FeeOf(feeType FeeType) decimal.Decimal {
	total := decimal.Zero
	for _, f := range r.Fees {
		if f.FeeType == feeType {
			total = total.Add(f.Amount)
		}
	}
	return total
}

// SaleTransaction is a completed sale with the fee lines it was charged
type SaleTransaction struct {
	SalePrice  decimal.Decimal `json:"sale_price"`
	CategoryID string          `json:"category_id,omitempty"`
	Fees       []FeeLineItem   `json:"fees"`
	Date       time.Time       `json:"date"`
}

// MonthlyFeeSummary aggregates fees over a set of sales in one period
type MonthlyFeeSummary struct {
	TotalSales           decimal.Decimal             `json:"total_sales"`
	TotalFees            decimal.Decimal             `json:"total_fees"`
	FeeBreakdown         map[FeeType]decimal.Decimal `json:"fee_breakdown"`
	StoreSubscriptionFee decimal.Decimal             `json:"store_subscription_fee"`
	TotalSavings         decimal.Decimal             `json:"total_savings"`
	TransactionCount     int                         `json:"transaction_count"`
}

// ProfitCosts itemizes what a sale cost the seller
type ProfitCosts struct {
	ItemCost     decimal.Decimal `json:"item_cost"`
	TotalFees    decimal.Decimal `json:"total_fees"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	TotalCosts   decimal.Decimal `json:"total_costs"`
}

// ProfitFigures holds profit and margin for a sale
type ProfitFigures struct {
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"` // percent of revenue
}

// ProfitabilityResult combines a fee breakdown with cost inputs
type ProfitabilityResult struct {
	Revenue        decimal.Decimal      `json:"revenue"`
	Costs          ProfitCosts          `json:"costs"`
	Profit         ProfitFigures        `json:"profit"`
	FeeCalculation FeeCalculationResult `json:"fee_calculation"`
}

// PricePosition classifies a price against a competitor's
type PricePosition string

const (
	PricePositionHigh   PricePosition = "high"
	PricePositionLow    PricePosition = "low"
	PricePositionInLine PricePosition = "in_line"
)

// CompetitorComparison compares a suggested price to a competitor's price
type CompetitorComparison struct {
	CompetitorPrice           decimal.Decimal `json:"competitor_price"`
	PriceDifference           decimal.Decimal `json:"price_difference"`
	PriceDifferencePercentage decimal.Decimal `json:"price_difference_percentage"`
	Position                  PricePosition   `json:"position"`
	Recommendation            string          `json:"recommendation"`
}

// PriceSuggestion is the result of the target-margin price search
type PriceSuggestion struct {
	SuggestedPrice       decimal.Decimal       `json:"suggested_price"`
	TargetMargin         decimal.Decimal       `json:"target_margin"`
	ProfitAnalysis       ProfitabilityResult   `json:"profit_analysis"`
	CompetitorComparison *CompetitorComparison `json:"competitor_comparison,omitempty"`
	Iterations           int                   `json:"iterations"`
	Converged            bool                  `json:"converged"`
}
