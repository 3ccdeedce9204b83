package fees

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/fee-service/internal/domain"
	feesvc "github.com/kevin07696/fee-service/internal/services/fees"
)

// Decimal fields accept JSON numbers or strings; responses always use strings.

// SaleOptions are the fee inputs shared by every sale-level request
type SaleOptions struct {
	CategoryID             string          `json:"category_id,omitempty"`
	StoreTier              string          `json:"store_tier,omitempty"`
	IsInternational        bool            `json:"is_international,omitempty"`
	PromotedListingsAdRate decimal.Decimal `json:"promoted_listings_ad_rate"`
	Marketplace            string          `json:"marketplace,omitempty"`
	SaleDate               *time.Time      `json:"sale_date,omitempty"` // RFC 3339; promotions are evaluated at this instant
}

func (o SaleOptions) toFeeOptions() feesvc.FeeOptions {
	opts := feesvc.FeeOptions{
		CategoryID:             strings.TrimSpace(o.CategoryID),
		StoreTier:              parseTier(o.StoreTier),
		IsInternational:        o.IsInternational,
		PromotedListingsAdRate: o.PromotedListingsAdRate,
		Marketplace:            domain.Marketplace(strings.ToUpper(strings.TrimSpace(o.Marketplace))),
	}
	if o.SaleDate != nil {
		opts.At = o.SaleDate.UTC()
	}
	return opts
}

// FinalValueFeeRequest is the body of POST /fees/final-value
type FinalValueFeeRequest struct {
	SalePrice  *decimal.Decimal `json:"sale_price"`
	CategoryID string           `json:"category_id,omitempty"`
	StoreTier  string           `json:"store_tier,omitempty"`
}

// CalculateFeesRequest is the body of POST /fees/calculate
type CalculateFeesRequest struct {
	SalePrice *decimal.Decimal `json:"sale_price"`
	SaleOptions
}

// ListingFeesRequest is the body of POST /fees/listing
type ListingFeesRequest struct {
	ListingCount      int    `json:"listing_count"`
	HasSubtitle       bool   `json:"has_subtitle,omitempty"`
	HasListingUpgrade bool   `json:"has_listing_upgrade,omitempty"`
	StoreTier         string `json:"store_tier,omitempty"`
}

// FeeLineRequest is one recorded fee on a past sale
type FeeLineRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency,omitempty"`
	Jurisdiction string          `json:"fee_jurisdiction,omitempty"`
	FeeType      string          `json:"fee_type"`
	Memo         string          `json:"fee_memo,omitempty"`
}

// TransactionRequest is one past sale in a monthly summary
type TransactionRequest struct {
	SalePrice  decimal.Decimal  `json:"sale_price"`
	CategoryID string           `json:"category_id,omitempty"`
	Date       time.Time        `json:"date"`
	Fees       []FeeLineRequest `json:"fees"`
}

// MonthlySummaryRequest is the body of POST /fees/monthly-summary
type MonthlySummaryRequest struct {
	StoreTier    string               `json:"store_tier,omitempty"`
	Transactions []TransactionRequest `json:"transactions"`
}

func (r MonthlySummaryRequest) toTransactions() []domain.SaleTransaction {
	out := make([]domain.SaleTransaction, 0, len(r.Transactions))
	for _, tx := range r.Transactions {
		fees := make([]domain.FeeLineItem, 0, len(tx.Fees))
		for _, f := range tx.Fees {
			fees = append(fees, domain.FeeLineItem{
				Amount:       f.Amount,
				Currency:     f.Currency,
				Jurisdiction: f.Jurisdiction,
				FeeType:      domain.ParseFeeType(f.FeeType),
				Memo:         f.Memo,
			})
		}
		out = append(out, domain.SaleTransaction{
			SalePrice:  tx.SalePrice,
			CategoryID: tx.CategoryID,
			Fees:       fees,
			Date:       tx.Date.UTC(),
		})
	}
	return out
}

// ProfitabilityRequest is the body of POST /profitability
type ProfitabilityRequest struct {
	SalePrice    *decimal.Decimal `json:"sale_price"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	ShippingCost decimal.Decimal  `json:"shipping_cost"`
	SaleOptions
}

// SuggestPriceRequest is the body of POST /pricing/suggest
type SuggestPriceRequest struct {
	CostPrice       *decimal.Decimal `json:"cost_price"`
	TargetMargin    *decimal.Decimal `json:"target_margin"` // percent
	ShippingCost    decimal.Decimal  `json:"shipping_cost"`
	CompetitorPrice decimal.Decimal  `json:"competitor_price"`
	SaleOptions
}

func parseTier(s string) domain.StoreTier {
	return domain.StoreTier(strings.ToUpper(strings.TrimSpace(s)))
}
