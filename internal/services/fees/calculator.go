// Package fees computes marketplace selling fees, profitability and
// target-margin prices against a rate card.
//
// Calculator methods are pure: they read an immutable rate card and the
// arguments they are given, so a Calculator is safe for concurrent use.
// Money never goes through float64.
package fees

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/fee-service/internal/domain"
	"github.com/kevin07696/fee-service/internal/ratecard"
	"github.com/kevin07696/fee-service/pkg/timeutil"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// FeeOptions describe the sale being priced
type FeeOptions struct {
	CategoryID             string
	StoreTier              domain.StoreTier   // empty: calculator default
	IsInternational        bool
	PromotedListingsAdRate decimal.Decimal    // zero: not promoted
	Marketplace            domain.Marketplace // empty: EBAY_US
	At                     time.Time          // promotion evaluation instant; zero: now
}

// Calculator computes fees from a single rate card
type Calculator struct {
	card        *ratecard.RateCard
	defaultTier domain.StoreTier
	clock       timeutil.Clock
}

// Option configures a Calculator
type Option func(*Calculator)

// WithDefaultStoreTier sets the tier used when a request names none
func WithDefaultStoreTier(tier domain.StoreTier) Option {
	return func(c *Calculator) {
		c.defaultTier = tier
	}
}

// WithClock sets the clock used to decide which promotions are running
func WithClock(clock timeutil.Clock) Option {
	return func(c *Calculator) {
		c.clock = clock
	}
}

// NewCalculator creates a calculator for card. Without options the default
// tier is BASIC and promotions are evaluated against the wall clock.
func NewCalculator(card *ratecard.RateCard, opts ...Option) *Calculator {
	c := &Calculator{
		card:        card,
		defaultTier: domain.StoreTierBasic,
		clock:       timeutil.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RateCard returns the card this calculator prices against
func (c *Calculator) RateCard() *ratecard.RateCard {
	return c.card
}

// FinalValueFee computes the commission on a sale. The store tier discount
// only applies to the first DiscountCapBasis of the sale price; the rest is
// charged at the full category rate.
func (c *Calculator) FinalValueFee(salePrice decimal.Decimal, categoryID string, tier domain.StoreTier) domain.FinalValueFeeResult {
	info := c.tierInfo(tier)
	rate := c.card.CategoryRate(categoryID)
	discountRate := info.FinalValueFeeDiscountRate

	result := domain.FinalValueFeeResult{
		Fee:                decimal.Zero,
		OriginalFee:        decimal.Zero,
		Discount:           decimal.Zero,
		DiscountPercentage: discountRate.Mul(hundred),
		Rate:               rate,
	}
	if !salePrice.IsPositive() {
		return result
	}

	capBasis := c.card.Rates.DiscountCapBasis
	discountable := decimal.Min(salePrice, capBasis)
	undiscountable := decimal.Max(salePrice.Sub(capBasis), decimal.Zero)

	result.OriginalFee = salePrice.Mul(rate)
	result.Fee = discountable.Mul(rate).Mul(one.Sub(discountRate)).
		Add(undiscountable.Mul(rate))
	result.Discount = result.OriginalFee.Sub(result.Fee)
	return result
}

// PaymentProcessingFee is the percentage-plus-fixed charge for taking payment.
// Nothing is charged on a zero or negative price.
func (c *Calculator) PaymentProcessingFee(salePrice decimal.Decimal) decimal.Decimal {
	if !salePrice.IsPositive() {
		return decimal.Zero
	}
	return salePrice.Mul(c.card.Rates.PaymentProcessingRate).Add(c.card.Rates.PaymentProcessingFixed)
}

// PromotedListingsFee computes the ad fee for a promoted sale. The best
// running promotion covering promoted listings (largest discount) is applied.
// A non-positive adRate uses the base promoted listings rate.
func (c *Calculator) PromotedListingsFee(salePrice, adRate decimal.Decimal, at time.Time) domain.PromotedListingsFeeResult {
	result := domain.PromotedListingsFeeResult{
		Fee:         decimal.Zero,
		OriginalFee: decimal.Zero,
		Discount:    decimal.Zero,
	}
	if !salePrice.IsPositive() {
		return result
	}
	if !adRate.IsPositive() {
		adRate = c.card.Rates.PromotedListingsBaseRate
	}

	result.OriginalFee = salePrice.Mul(adRate)
	if promo := c.card.BestPromotionFor(domain.FeeTypePromotedListings, c.instant(at)); promo != nil {
		result.Discount = result.OriginalFee.Mul(promo.DiscountPercentage).Div(hundred)
		result.Promotion = promo
	}
	result.Fee = result.OriginalFee.Sub(result.Discount)
	return result
}

// InternationalFee is charged on cross-border sales only
func (c *Calculator) InternationalFee(salePrice decimal.Decimal, isInternational bool) decimal.Decimal {
	if !isInternational || !salePrice.IsPositive() {
		return decimal.Zero
	}
	return salePrice.Mul(c.card.Rates.InternationalFeeRate)
}

// ListingFees computes insertion and upgrade fees for a batch of listings.
// Listings within the tier's free quota cost nothing.
func (c *Calculator) ListingFees(listingCount int, hasSubtitle, hasListingUpgrade bool, tier domain.StoreTier) domain.ListingFeeResult {
	info := c.tierInfo(tier)
	if listingCount < 0 {
		listingCount = 0
	}

	paid := max(listingCount-info.FreeListingQuota, 0)
	result := domain.ListingFeeResult{
		InsertionFee:          decimal.NewFromInt(int64(paid)).Mul(info.PerListingFee),
		FreeListingsRemaining: max(info.FreeListingQuota-listingCount, 0),
		PaidListings:          paid,
	}
	result.TotalListingFees = result.InsertionFee

	if hasSubtitle {
		fee := c.card.Rates.SubtitleFee
		result.SubtitleFee = &fee
		result.TotalListingFees = result.TotalListingFees.Add(fee)
	}
	if hasListingUpgrade {
		fee := c.card.Rates.ListingUpgradeFee
		result.ListingUpgradeFee = &fee
		result.TotalListingFees = result.TotalListingFees.Add(fee)
	}
	return result
}

// AllFees itemizes every fee charged on a completed sale
func (c *Calculator) AllFees(salePrice decimal.Decimal, opts FeeOptions) domain.FeeCalculationResult {
	info := c.tierInfo(opts.StoreTier)
	marketplace := opts.Marketplace
	if marketplace == "" {
		marketplace = domain.MarketplaceUS
	}
	currency := marketplace.Currency()
	jurisdiction := marketplace.Jurisdiction()
	at := c.instant(opts.At)

	line := func(feeType domain.FeeType, amount decimal.Decimal, memo string) domain.FeeLineItem {
		return domain.FeeLineItem{
			Amount:       amount,
			Currency:     currency,
			Jurisdiction: jurisdiction,
			FeeType:      feeType,
			Memo:         memo,
		}
	}

	fees := make([]domain.FeeLineItem, 0, 4)
	applied := []string{}
	savings := decimal.Zero

	fvf := c.FinalValueFee(salePrice, opts.CategoryID, info.Tier)
	memo := domain.FeeTypeFinalValue.Label()
	if fvf.Discount.IsPositive() {
		memo = fmt.Sprintf("%s (%s%% discount applied)", memo, fvf.DiscountPercentage.String())
		savings = savings.Add(fvf.Discount)
		applied = append(applied, tierDiscountLabel(info, fvf.DiscountPercentage))
	}
	fees = append(fees, line(domain.FeeTypeFinalValue, fvf.Fee, memo))

	fees = append(fees, line(domain.FeeTypePaymentProcessing, c.PaymentProcessingFee(salePrice), domain.FeeTypePaymentProcessing.Label()))

	if opts.PromotedListingsAdRate.IsPositive() {
		promoted := c.PromotedListingsFee(salePrice, opts.PromotedListingsAdRate, at)
		memo := domain.FeeTypePromotedListings.Label()
		if promoted.Discount.IsPositive() && promoted.Promotion != nil {
			memo = fmt.Sprintf("%s (%s%% discount applied)", memo, promoted.Promotion.DiscountPercentage.String())
			savings = savings.Add(promoted.Discount)
			applied = append(applied, promoted.Promotion.Name)
		}
		fees = append(fees, line(domain.FeeTypePromotedListings, promoted.Fee, memo))
	}

	if opts.IsInternational {
		fees = append(fees, line(domain.FeeTypeInternational, c.InternationalFee(salePrice, true), domain.FeeTypeInternational.Label()))
	}

	total := decimal.Zero
	for _, f := range fees {
		total = total.Add(f.Amount.Abs())
	}

	return domain.FeeCalculationResult{
		ItemPrice:             salePrice,
		Currency:              currency,
		Fees:                  fees,
		TotalFees:             total,
		NetAmount:             salePrice.Sub(total),
		FeePercentage:         percentOf(total, salePrice),
		SavingsFromPromotions: savings,
		StoreTier:             info.Tier,
		PromotionsApplied:     applied,
	}
}

// MonthlySummary aggregates a period's sales for a seller on tier. Savings
// are recomputed against the NONE tier rather than read from the recorded
// fee lines, so they track the current rate card.
func (c *Calculator) MonthlySummary(transactions []domain.SaleTransaction, tier domain.StoreTier) domain.MonthlyFeeSummary {
	info := c.tierInfo(tier)

	breakdown := make(map[domain.FeeType]decimal.Decimal, len(domain.AllFeeTypes()))
	for _, ft := range domain.AllFeeTypes() {
		breakdown[ft] = decimal.Zero
	}

	totalSales := decimal.Zero
	totalFees := decimal.Zero
	savings := decimal.Zero

	for _, tx := range transactions {
		totalSales = totalSales.Add(tx.SalePrice)

		for _, f := range tx.Fees {
			feeType := f.FeeType
			if !feeType.IsKnown() {
				feeType = domain.FeeTypeOther
			}
			breakdown[feeType] = breakdown[feeType].Add(f.Amount)
			totalFees = totalFees.Add(f.Amount)
		}

		baseline := c.AllFees(tx.SalePrice, FeeOptions{CategoryID: tx.CategoryID, StoreTier: domain.StoreTierNone, At: tx.Date})
		actual := c.AllFees(tx.SalePrice, FeeOptions{CategoryID: tx.CategoryID, StoreTier: info.Tier, At: tx.Date})
		savings = savings.Add(baseline.TotalFees.Sub(actual.TotalFees))
	}

	subscription := info.MonthlyFee
	breakdown[domain.FeeTypeStoreSubscription] = breakdown[domain.FeeTypeStoreSubscription].Add(subscription)

	return domain.MonthlyFeeSummary{
		TotalSales:           totalSales,
		TotalFees:            totalFees.Add(subscription),
		FeeBreakdown:         breakdown,
		StoreSubscriptionFee: subscription,
		TotalSavings:         savings,
		TransactionCount:     len(transactions),
	}
}

func (c *Calculator) tierInfo(tier domain.StoreTier) domain.StoreTierInfo {
	if tier == "" {
		tier = c.defaultTier
	}
	return c.card.Tier(tier)
}

func (c *Calculator) instant(at time.Time) time.Time {
	if at.IsZero() {
		return c.clock()
	}
	return at
}

// percentOf returns part/whole*100, or zero when whole is zero
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func tierDiscountLabel(info domain.StoreTierInfo, pct decimal.Decimal) string {
	name := info.DisplayName
	if name == "" {
		name = string(info.Tier)
	}
	return fmt.Sprintf("%s: %s%% final value fee discount", name, pct.String())
}
