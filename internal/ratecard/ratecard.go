// Package ratecard holds the marketplace's fee schedule: base rates, category
// overrides, store subscription tiers and promotional campaigns.
//
// A RateCard is immutable once built. Lookups never fail; unknown tiers fall
// back to NONE and unknown categories to the default final value fee rate.
package ratecard

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/fee-service/internal/domain"
)

// Rates are the base fee parameters that do not depend on tier or category
type Rates struct {
	FinalValueFeeRate        decimal.Decimal `json:"final_value_fee_rate"`
	PaymentProcessingRate    decimal.Decimal `json:"payment_processing_rate"`
	PaymentProcessingFixed   decimal.Decimal `json:"payment_processing_fixed"`
	InternationalFeeRate     decimal.Decimal `json:"international_fee_rate"`
	PromotedListingsBaseRate decimal.Decimal `json:"promoted_listings_base_rate"`
	InsertionFee             decimal.Decimal `json:"insertion_fee"`
	SubtitleFee              decimal.Decimal `json:"subtitle_fee"`
	ListingUpgradeFee        decimal.Decimal `json:"listing_upgrade_fee"`
	DiscountCapBasis         decimal.Decimal `json:"discount_cap_basis"` // sale price eligible for tier discount
}

// RateCard is a complete, validated fee schedule
type RateCard struct {
	Version       string
	Rates         Rates
	CategoryRates map[string]decimal.Decimal
	StoreTiers    map[domain.StoreTier]domain.StoreTierInfo
	Promotions    []domain.Promotion
}

// Tier returns the benefits for t, or the NONE tier when t is unknown
func (c *RateCard) Tier(t domain.StoreTier) domain.StoreTierInfo {
	if info, ok := c.StoreTiers[t]; ok {
		return info
	}
	if info, ok := c.StoreTiers[domain.StoreTierNone]; ok {
		return info
	}
	return domain.StoreTierInfo{Tier: domain.StoreTierNone, PerListingFee: c.Rates.InsertionFee}
}

// LookupTier returns the benefits for t and whether the tier exists on this card
func (c *RateCard) LookupTier(t domain.StoreTier) (domain.StoreTierInfo, bool) {
	info, ok := c.StoreTiers[t]
	return info, ok
}

// Tiers returns all tiers ordered from lowest to highest subscription level
func (c *RateCard) Tiers() []domain.StoreTierInfo {
	out := make([]domain.StoreTierInfo, 0, len(c.StoreTiers))
	for _, t := range domain.AllStoreTiers() {
		if info, ok := c.StoreTiers[t]; ok {
			out = append(out, info)
		}
	}
	return out
}

// CategoryRate returns the final value fee rate for a category.
// Empty or unlisted categories use the default rate.
func (c *RateCard) CategoryRate(categoryID string) decimal.Decimal {
	if categoryID == "" {
		return c.Rates.FinalValueFeeRate
	}
	if rate, ok := c.CategoryRates[categoryID]; ok {
		return rate
	}
	return c.Rates.FinalValueFeeRate
}

// ActivePromotions returns the promotions running at the given instant
func (c *RateCard) ActivePromotions(at time.Time) []domain.Promotion {
	var out []domain.Promotion
	for _, p := range c.Promotions {
		if p.IsActiveAt(at) {
			out = append(out, p)
		}
	}
	return out
}

// BestPromotionFor returns the active promotion with the largest discount for
// feeType, or nil if none is running. Ties go to the earlier card entry.
func (c *RateCard) BestPromotionFor(feeType domain.FeeType, at time.Time) *domain.Promotion {
	var best *domain.Promotion
	for i := range c.Promotions {
		p := &c.Promotions[i]
		if !p.AppliesTo(feeType) || !p.IsActiveAt(at) {
			continue
		}
		if best == nil || p.DiscountPercentage.GreaterThan(best.DiscountPercentage) {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	promo := *best
	return &promo
}

// Validate checks the card's internal consistency
func (c *RateCard) Validate() error {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	rates := map[string]decimal.Decimal{
		"final_value_fee_rate":        c.Rates.FinalValueFeeRate,
		"payment_processing_rate":     c.Rates.PaymentProcessingRate,
		"payment_processing_fixed":    c.Rates.PaymentProcessingFixed,
		"international_fee_rate":      c.Rates.InternationalFeeRate,
		"promoted_listings_base_rate": c.Rates.PromotedListingsBaseRate,
		"insertion_fee":               c.Rates.InsertionFee,
		"subtitle_fee":                c.Rates.SubtitleFee,
		"listing_upgrade_fee":         c.Rates.ListingUpgradeFee,
	}
	names := make([]string, 0, len(rates))
	for name := range rates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if rates[name].IsNegative() {
			return invalid("rate must not be negative").WithDetail("field", name)
		}
	}
	if c.Rates.FinalValueFeeRate.GreaterThan(one) {
		return invalid("final value fee rate must be at most 1")
	}
	if !c.Rates.DiscountCapBasis.IsPositive() {
		return invalid("discount cap basis must be positive")
	}

	for id, rate := range c.CategoryRates {
		if rate.IsNegative() || rate.GreaterThan(one) {
			return invalid("category rate must be within [0, 1]").WithDetail("category_id", id)
		}
	}

	if _, ok := c.StoreTiers[domain.StoreTierNone]; !ok {
		return invalid("rate card must define the NONE store tier")
	}
	undiscounted := 0
	for tier, info := range c.StoreTiers {
		if !tier.IsValid() || info.Tier != tier {
			return invalid("unknown or mismatched store tier").WithDetail("tier", string(tier))
		}
		if info.FinalValueFeeDiscountRate.IsNegative() || info.FinalValueFeeDiscountRate.GreaterThan(one) {
			return invalid("final value fee discount rate must be within [0, 1]").WithDetail("tier", string(tier))
		}
		if info.MonthlyFee.IsNegative() || info.PerListingFee.IsNegative() || info.FreeListingQuota < 0 {
			return invalid("store tier fees and quotas must not be negative").WithDetail("tier", string(tier))
		}
		if info.FinalValueFeeDiscountRate.IsZero() {
			undiscounted++
			if tier != domain.StoreTierNone {
				return invalid("only the NONE tier may have no final value fee discount").WithDetail("tier", string(tier))
			}
		}
	}
	if undiscounted != 1 {
		return invalid("exactly one store tier must have no final value fee discount")
	}

	seen := make(map[string]struct{}, len(c.Promotions))
	for _, p := range c.Promotions {
		if p.ID == "" {
			return invalid("promotion id is required")
		}
		if _, dup := seen[p.ID]; dup {
			return invalid("duplicate promotion id").WithDetail("promotion_id", p.ID)
		}
		seen[p.ID] = struct{}{}
		if p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(hundred) {
			return invalid("promotion discount percentage must be within [0, 100]").WithDetail("promotion_id", p.ID)
		}
		if p.EndDate.Before(p.StartDate) {
			return invalid("promotion ends before it starts").WithDetail("promotion_id", p.ID)
		}
		if len(p.ApplicableFeeTypes) == 0 {
			return invalid("promotion must name at least one fee type").WithDetail("promotion_id", p.ID)
		}
		for _, ft := range p.ApplicableFeeTypes {
			if !ft.IsKnown() {
				return invalid(fmt.Sprintf("unknown fee type %q", ft)).WithDetail("promotion_id", p.ID)
			}
		}
	}

	return nil
}

func invalid(msg string) *domain.DomainError {
	return domain.NewDomainError(domain.ErrorCodeRateCardInvalid, msg)
}
