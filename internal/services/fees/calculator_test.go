package fees

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/fee-service/internal/domain"
	"github.com/kevin07696/fee-service/internal/ratecard"
	"github.com/kevin07696/fee-service/pkg/timeutil"
)

var (
	// inside the Promoted Offsite window
	duringOffsitePromo = time.Date(2025, time.February, 15, 12, 0, 0, 0, time.UTC)
	// after every 2025 promotion ends
	afterPromotions = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func newTestCalculator(at time.Time) *Calculator {
	return NewCalculator(ratecard.Default(), WithClock(timeutil.Fixed(at)))
}

func TestFinalValueFee(t *testing.T) {
	calc := newTestCalculator(afterPromotions)

	tests := []struct {
		name         string
		price        string
		categoryID   string
		tier         domain.StoreTier
		wantFee      string
		wantOriginal string
		wantDiscount string
		wantRate     string
		wantPct      string
	}{
		{
			name:         "basic_store_halves_fee",
			price:        "100",
			tier:         domain.StoreTierBasic,
			wantFee:      "6.175",
			wantOriginal: "12.35",
			wantDiscount: "6.175",
			wantRate:     "0.1235",
			wantPct:      "50",
		},
		{
			name:         "no_store_pays_full_rate",
			price:        "100",
			tier:         domain.StoreTierNone,
			wantFee:      "12.35",
			wantOriginal: "12.35",
			wantDiscount: "0",
			wantRate:     "0.1235",
			wantPct:      "0",
		},
		{
			name:         "discount_capped_at_2500",
			price:        "5000",
			tier:         domain.StoreTierBasic,
			wantFee:      "463.125",
			wantOriginal: "617.5",
			wantDiscount: "154.375",
			wantRate:     "0.1235",
			wantPct:      "50",
		},
		{
			name:         "price_exactly_at_cap",
			price:        "2500",
			tier:         domain.StoreTierPremium,
			wantFee:      "154.375",
			wantOriginal: "308.75",
			wantDiscount: "154.375",
			wantRate:     "0.1235",
			wantPct:      "50",
		},
		{
			name:         "category_override",
			price:        "100",
			categoryID:   "550",
			tier:         domain.StoreTierNone,
			wantFee:      "8",
			wantOriginal: "8",
			wantDiscount: "0",
			wantRate:     "0.08",
			wantPct:      "0",
		},
		{
			name:         "unknown_category_uses_default_rate",
			price:        "100",
			categoryID:   "does-not-exist",
			tier:         domain.StoreTierNone,
			wantFee:      "12.35",
			wantOriginal: "12.35",
			wantDiscount: "0",
			wantRate:     "0.1235",
			wantPct:      "0",
		},
		{
			name:         "unknown_tier_falls_back_to_none",
			price:        "100",
			tier:         domain.StoreTier("PLATINUM"),
			wantFee:      "12.35",
			wantOriginal: "12.35",
			wantDiscount: "0",
			wantRate:     "0.1235",
			wantPct:      "0",
		},
		{
			name:         "empty_tier_uses_default_basic",
			price:        "100",
			wantFee:      "6.175",
			wantOriginal: "12.35",
			wantDiscount: "6.175",
			wantRate:     "0.1235",
			wantPct:      "50",
		},
		{
			name:         "zero_price",
			price:        "0",
			tier:         domain.StoreTierBasic,
			wantFee:      "0",
			wantOriginal: "0",
			wantDiscount: "0",
			wantRate:     "0.1235",
			wantPct:      "50",
		},
		{
			name:         "negative_price",
			price:        "-25",
			tier:         domain.StoreTierNone,
			wantFee:      "0",
			wantOriginal: "0",
			wantDiscount: "0",
			wantRate:     "0.1235",
			wantPct:      "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.FinalValueFee(dec(tt.price), tt.categoryID, tt.tier)

			assertDecimal(t, tt.wantFee, got.Fee, "fee")
			assertDecimal(t, tt.wantOriginal, got.OriginalFee, "original")
			assertDecimal(t, tt.wantDiscount, got.Discount, "discount")
			assertDecimal(t, tt.wantRate, got.Rate, "rate")
			assertDecimal(t, tt.wantPct, got.DiscountPercentage, "discount percentage")
		})
	}
}

func TestPaymentProcessingFee(t *testing.T) {
	calc := newTestCalculator(afterPromotions)

	assertDecimal(t, "3.2", calc.PaymentProcessingFee(dec("100")))
	assertDecimal(t, "0.59", calc.PaymentProcessingFee(dec("10")))
	assertDecimal(t, "0", calc.PaymentProcessingFee(decimal.Zero))
	assertDecimal(t, "0", calc.PaymentProcessingFee(dec("-5")))
}

func TestPromotedListingsFee(t *testing.T) {
	t.Run("discounted_inside_window", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.PromotedListingsFee(dec("100"), dec("0.05"), duringOffsitePromo)

		assertDecimal(t, "5", got.OriginalFee)
		assertDecimal(t, "2.5", got.Discount)
		assertDecimal(t, "2.5", got.Fee)
		require.NotNil(t, got.Promotion)
		assert.Equal(t, "promoted_offsite_discount_2025", got.Promotion.ID)
	})

	t.Run("full_price_outside_window", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.PromotedListingsFee(dec("100"), dec("0.05"), afterPromotions)

		assertDecimal(t, "5", got.Fee)
		assertDecimal(t, "0", got.Discount)
		assert.Nil(t, got.Promotion)
	})

	t.Run("window_end_is_inclusive", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		lastSecond := time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)
		got := calc.PromotedListingsFee(dec("100"), dec("0.05"), lastSecond)

		assertDecimal(t, "2.5", got.Fee)
	})

	t.Run("zero_instant_uses_clock", func(t *testing.T) {
		calc := newTestCalculator(duringOffsitePromo)
		got := calc.PromotedListingsFee(dec("100"), dec("0.05"), time.Time{})

		assertDecimal(t, "2.5", got.Fee)
	})

	t.Run("zero_ad_rate_uses_base_rate", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.PromotedListingsFee(dec("100"), decimal.Zero, afterPromotions)

		assertDecimal(t, "2", got.Fee)
	})

	t.Run("best_promotion_wins", func(t *testing.T) {
		card := ratecard.Default()
		card.Promotions = append(card.Promotions, domain.Promotion{
			ID:                 "deeper_offsite_cut",
			Name:               "Deeper cut",
			StartDate:          time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
			EndDate:            time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
			DiscountPercentage: dec("75"),
			ApplicableFeeTypes: []domain.FeeType{domain.FeeTypePromotedListings},
		})
		calc := NewCalculator(card)
		got := calc.PromotedListingsFee(dec("100"), dec("0.04"), duringOffsitePromo)

		assertDecimal(t, "1", got.Fee)
		require.NotNil(t, got.Promotion)
		assert.Equal(t, "deeper_offsite_cut", got.Promotion.ID)
	})
}

func TestInternationalFee(t *testing.T) {
	calc := newTestCalculator(afterPromotions)

	assertDecimal(t, "1.5", calc.InternationalFee(dec("100"), true))
	assertDecimal(t, "0", calc.InternationalFee(dec("100"), false))
	assertDecimal(t, "0", calc.InternationalFee(decimal.Zero, true))
}

func TestListingFees(t *testing.T) {
	calc := newTestCalculator(afterPromotions)

	tests := []struct {
		name          string
		count         int
		subtitle      bool
		upgrade       bool
		tier          domain.StoreTier
		wantInsertion string
		wantTotal     string
		wantRemaining int
		wantPaid      int
	}{
		{
			name:          "within_free_quota",
			count:         10,
			tier:          domain.StoreTierBasic,
			wantInsertion: "0",
			wantTotal:     "0",
			wantRemaining: 990,
			wantPaid:      0,
		},
		{
			name:          "over_quota_basic",
			count:         1200,
			tier:          domain.StoreTierBasic,
			wantInsertion: "60",
			wantTotal:     "60",
			wantRemaining: 0,
			wantPaid:      200,
		},
		{
			name:          "over_quota_no_store",
			count:         300,
			tier:          domain.StoreTierNone,
			wantInsertion: "17.5",
			wantTotal:     "17.5",
			wantRemaining: 0,
			wantPaid:      50,
		},
		{
			name:          "upgrades_added_once",
			count:         10,
			subtitle:      true,
			upgrade:       true,
			tier:          domain.StoreTierBasic,
			wantInsertion: "0",
			wantTotal:     "1.5",
			wantRemaining: 990,
			wantPaid:      0,
		},
		{
			name:          "exactly_at_quota",
			count:         250,
			tier:          domain.StoreTierNone,
			wantInsertion: "0",
			wantTotal:     "0",
			wantRemaining: 0,
			wantPaid:      0,
		},
		{
			name:          "negative_count_treated_as_zero",
			count:         -5,
			tier:          domain.StoreTierNone,
			wantInsertion: "0",
			wantTotal:     "0",
			wantRemaining: 250,
			wantPaid:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.ListingFees(tt.count, tt.subtitle, tt.upgrade, tt.tier)

			assertDecimal(t, tt.wantInsertion, got.InsertionFee, "insertion")
			assertDecimal(t, tt.wantTotal, got.TotalListingFees, "total")
			assert.Equal(t, tt.wantRemaining, got.FreeListingsRemaining)
			assert.Equal(t, tt.wantPaid, got.PaidListings)
			assert.Equal(t, tt.subtitle, got.SubtitleFee != nil)
			assert.Equal(t, tt.upgrade, got.ListingUpgradeFee != nil)
		})
	}
}

func TestAllFees(t *testing.T) {
	t.Run("basic_store_domestic_sale", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.AllFees(dec("100"), FeeOptions{StoreTier: domain.StoreTierBasic})

		require.Len(t, got.Fees, 2)
		assert.Equal(t, domain.FeeTypeFinalValue, got.Fees[0].FeeType)
		assert.Equal(t, "Final value fee (50% discount applied)", got.Fees[0].Memo)
		assert.Equal(t, domain.FeeTypePaymentProcessing, got.Fees[1].FeeType)
		assert.Equal(t, "Payment processing fee", got.Fees[1].Memo)

		assertDecimal(t, "6.175", got.FeeOf(domain.FeeTypeFinalValue))
		assertDecimal(t, "3.2", got.FeeOf(domain.FeeTypePaymentProcessing))
		assertDecimal(t, "9.375", got.TotalFees)
		assertDecimal(t, "90.625", got.NetAmount)
		assertDecimal(t, "9.375", got.FeePercentage)
		assertDecimal(t, "6.175", got.SavingsFromPromotions)
		assert.Equal(t, "USD", got.Currency)
		assert.Equal(t, "US", got.Fees[0].Jurisdiction)
		assert.Equal(t, domain.StoreTierBasic, got.StoreTier)
		assert.Equal(t, []string{"Basic store: 50% final value fee discount"}, got.PromotionsApplied)
	})

	t.Run("no_store_has_no_savings", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.AllFees(dec("100"), FeeOptions{StoreTier: domain.StoreTierNone})

		assertDecimal(t, "15.55", got.TotalFees)
		assertDecimal(t, "0", got.SavingsFromPromotions)
		assert.Equal(t, "Final value fee", got.Fees[0].Memo)
		assert.Empty(t, got.PromotionsApplied)
		assert.NotNil(t, got.PromotionsApplied)
	})

	t.Run("promoted_and_international_during_promotion", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.AllFees(dec("100"), FeeOptions{
			StoreTier:              domain.StoreTierBasic,
			IsInternational:        true,
			PromotedListingsAdRate: dec("0.05"),
			At:                     duringOffsitePromo,
		})

		require.Len(t, got.Fees, 4)
		assert.Equal(t, domain.FeeTypePromotedListings, got.Fees[2].FeeType)
		assert.Equal(t, "Promoted listings fee (50% discount applied)", got.Fees[2].Memo)
		assert.Equal(t, domain.FeeTypeInternational, got.Fees[3].FeeType)

		assertDecimal(t, "2.5", got.FeeOf(domain.FeeTypePromotedListings))
		assertDecimal(t, "1.5", got.FeeOf(domain.FeeTypeInternational))
		assertDecimal(t, "13.375", got.TotalFees)
		assertDecimal(t, "8.675", got.SavingsFromPromotions)
		assert.Equal(t, []string{
			"Basic store: 50% final value fee discount",
			"Promoted Offsite: 50% off ad fees",
		}, got.PromotionsApplied)
	})

	t.Run("promoted_outside_promotion", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.AllFees(dec("100"), FeeOptions{
			StoreTier:              domain.StoreTierBasic,
			PromotedListingsAdRate: dec("0.05"),
		})

		assertDecimal(t, "5", got.FeeOf(domain.FeeTypePromotedListings))
		assert.Equal(t, "Promoted listings fee", got.Fees[2].Memo)
		assert.Len(t, got.PromotionsApplied, 1)
	})

	t.Run("marketplace_sets_currency_and_jurisdiction", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)

		uk := calc.AllFees(dec("100"), FeeOptions{Marketplace: domain.MarketplaceUK})
		assert.Equal(t, "GBP", uk.Currency)
		for _, f := range uk.Fees {
			assert.Equal(t, "GBP", f.Currency)
			assert.Equal(t, "UK", f.Jurisdiction)
		}

		de := calc.AllFees(dec("100"), FeeOptions{Marketplace: domain.MarketplaceDE})
		assert.Equal(t, "EUR", de.Currency)

		au := calc.AllFees(dec("100"), FeeOptions{Marketplace: domain.MarketplaceAU})
		assert.Equal(t, "USD", au.Currency)
		assert.Equal(t, "AU", au.Fees[0].Jurisdiction)
	})

	t.Run("zero_price", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.AllFees(decimal.Zero, FeeOptions{})

		assertDecimal(t, "0", got.TotalFees)
		assertDecimal(t, "0", got.NetAmount)
		assertDecimal(t, "0", got.FeePercentage)
		assertDecimal(t, "0", got.SavingsFromPromotions)
	})

	t.Run("large_price_applies_cap", func(t *testing.T) {
		calc := newTestCalculator(afterPromotions)
		got := calc.AllFees(dec("5000"), FeeOptions{StoreTier: domain.StoreTierBasic})

		assertDecimal(t, "463.125", got.FeeOf(domain.FeeTypeFinalValue))
		assertDecimal(t, "145.3", got.FeeOf(domain.FeeTypePaymentProcessing))
		assertDecimal(t, "608.425", got.TotalFees)
	})
}

func TestMonthlySummary(t *testing.T) {
	calc := newTestCalculator(afterPromotions)

	line := func(ft domain.FeeType, amount string) domain.FeeLineItem {
		return domain.FeeLineItem{Amount: dec(amount), Currency: "USD", FeeType: ft}
	}

	t.Run("two_sales_basic_store", func(t *testing.T) {
		txs := []domain.SaleTransaction{
			{
				SalePrice: dec("100"),
				Date:      afterPromotions,
				Fees: []domain.FeeLineItem{
					line(domain.FeeTypeFinalValue, "6.175"),
					line(domain.FeeTypePaymentProcessing, "3.2"),
				},
			},
			{
				SalePrice: dec("200"),
				Date:      afterPromotions,
				Fees: []domain.FeeLineItem{
					line(domain.FeeTypeFinalValue, "12.35"),
					line(domain.FeeTypePaymentProcessing, "6.1"),
				},
			},
		}

		got := calc.MonthlySummary(txs, domain.StoreTierBasic)

		assertDecimal(t, "300", got.TotalSales)
		assertDecimal(t, "27.95", got.StoreSubscriptionFee)
		assertDecimal(t, "55.775", got.TotalFees)
		assertDecimal(t, "18.525", got.TotalSavings)
		assert.Equal(t, 2, got.TransactionCount)

		assert.Len(t, got.FeeBreakdown, len(domain.AllFeeTypes()))
		assertDecimal(t, "18.525", got.FeeBreakdown[domain.FeeTypeFinalValue])
		assertDecimal(t, "9.3", got.FeeBreakdown[domain.FeeTypePaymentProcessing])
		assertDecimal(t, "27.95", got.FeeBreakdown[domain.FeeTypeStoreSubscription])
		assertDecimal(t, "0", got.FeeBreakdown[domain.FeeTypeInternational])
	})

	t.Run("no_transactions", func(t *testing.T) {
		got := calc.MonthlySummary(nil, domain.StoreTierBasic)

		assertDecimal(t, "0", got.TotalSales)
		assertDecimal(t, "27.95", got.TotalFees)
		assertDecimal(t, "0", got.TotalSavings)
		assert.Equal(t, 0, got.TransactionCount)
		assert.Len(t, got.FeeBreakdown, len(domain.AllFeeTypes()))
	})

	t.Run("no_store_has_no_subscription_or_savings", func(t *testing.T) {
		txs := []domain.SaleTransaction{{
			SalePrice: dec("100"),
			Fees:      []domain.FeeLineItem{line(domain.FeeTypeFinalValue, "12.35")},
		}}

		got := calc.MonthlySummary(txs, domain.StoreTierNone)

		assertDecimal(t, "0", got.StoreSubscriptionFee)
		assertDecimal(t, "12.35", got.TotalFees)
		assertDecimal(t, "0", got.TotalSavings)
	})

	t.Run("credits_and_unknown_types", func(t *testing.T) {
		txs := []domain.SaleTransaction{{
			SalePrice: dec("50"),
			Fees: []domain.FeeLineItem{
				line(domain.FeeTypeFinalValue, "6.175"),
				line(domain.FeeTypeFinalValue, "-2"),
				line(domain.FeeType("MYSTERY_FEE"), "1"),
			},
		}}

		got := calc.MonthlySummary(txs, domain.StoreTierNone)

		assertDecimal(t, "4.175", got.FeeBreakdown[domain.FeeTypeFinalValue])
		assertDecimal(t, "1", got.FeeBreakdown[domain.FeeTypeOther])
		assertDecimal(t, "5.175", got.TotalFees)
		assert.NotContains(t, got.FeeBreakdown, domain.FeeType("MYSTERY_FEE"))
	})

	t.Run("savings_use_transaction_category", func(t *testing.T) {
		txs := []domain.SaleTransaction{{SalePrice: dec("100"), CategoryID: "550"}}

		got := calc.MonthlySummary(txs, domain.StoreTierBasic)

		// art is 8%, half of which is waived on the basic store
		assertDecimal(t, "4", got.TotalSavings)
	})
}

func TestProfitability(t *testing.T) {
	calc := newTestCalculator(afterPromotions)

	t.Run("with_shipping", func(t *testing.T) {
		got := calc.Profitability(dec("100"), dec("40"), ProfitOptions{
			FeeOptions:   FeeOptions{StoreTier: domain.StoreTierBasic},
			ShippingCost: dec("10"),
		})

		assertDecimal(t, "100", got.Revenue)
		assertDecimal(t, "40", got.Costs.ItemCost)
		assertDecimal(t, "9.375", got.Costs.TotalFees)
		assertDecimal(t, "10", got.Costs.ShippingCost)
		assertDecimal(t, "59.375", got.Costs.TotalCosts)
		assertDecimal(t, "60", got.Profit.GrossProfit)
		assertDecimal(t, "40.625", got.Profit.NetProfit)
		assertDecimal(t, "40.625", got.Profit.ProfitMargin)
		assertDecimal(t, "9.375", got.FeeCalculation.TotalFees)
	})

	t.Run("loss_gives_negative_margin", func(t *testing.T) {
		got := calc.Profitability(dec("10"), dec("20"), ProfitOptions{FeeOptions: FeeOptions{StoreTier: domain.StoreTierNone}})

		assert.True(t, got.Profit.NetProfit.IsNegative())
		assert.True(t, got.Profit.ProfitMargin.IsNegative())
	})

	t.Run("zero_price_margin_is_zero", func(t *testing.T) {
		got := calc.Profitability(decimal.Zero, dec("5"), ProfitOptions{})

		assertDecimal(t, "-5", got.Profit.NetProfit)
		assertDecimal(t, "0", got.Profit.ProfitMargin)
	})
}

func TestSuggestOptimalPrice(t *testing.T) {
	calc := newTestCalculator(afterPromotions)
	basic := PricingOptions{ProfitOptions: ProfitOptions{FeeOptions: FeeOptions{StoreTier: domain.StoreTierBasic}}}

	tests := []struct {
		name           string
		target         string
		wantPrice      string
		wantIterations int
		wantConverged  bool
	}{
		{
			name:           "starting_price_already_within_tolerance",
			target:         "39.4",
			wantPrice:      "20",
			wantIterations: 0,
			wantConverged:  true,
		},
		{
			name:           "steps_up_and_down_to_converge",
			target:         "50",
			wantPrice:      "25.23",
			wantIterations: 9,
			wantConverged:  true,
		},
		{
			name:           "stops_after_ten_iterations",
			target:         "25",
			wantPrice:      "16.34",
			wantIterations: 10,
			wantConverged:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.SuggestOptimalPrice(dec("10"), dec(tt.target), basic)

			assertDecimal(t, tt.wantPrice, got.SuggestedPrice)
			assert.Equal(t, tt.wantIterations, got.Iterations)
			assert.Equal(t, tt.wantConverged, got.Converged)
			assertDecimal(t, tt.target, got.TargetMargin)
			assert.Nil(t, got.CompetitorComparison)

			margin := got.ProfitAnalysis.Profit.ProfitMargin
			if tt.wantConverged {
				assert.True(t, margin.Sub(dec(tt.target)).Abs().LessThan(dec("0.1")), "margin %s", margin)
			}
		})
	}

	t.Run("analysis_matches_last_price_when_not_converged", func(t *testing.T) {
		got := calc.SuggestOptimalPrice(dec("10"), dec("25"), basic)

		margin := got.ProfitAnalysis.Profit.ProfitMargin
		assert.True(t, margin.GreaterThan(dec("27.89")) && margin.LessThan(dec("27.90")), "margin %s", margin)
		assert.Equal(t, "16.34", got.ProfitAnalysis.Revenue.StringFixed(2))
	})

	t.Run("zero_cost_does_not_loop_forever", func(t *testing.T) {
		got := calc.SuggestOptimalPrice(decimal.Zero, dec("30"), basic)

		assertDecimal(t, "0", got.SuggestedPrice)
		assert.Equal(t, maxSolverIterations, got.Iterations)
		assert.False(t, got.Converged)
	})
}

func TestSuggestOptimalPrice_CompetitorComparison(t *testing.T) {
	calc := newTestCalculator(afterPromotions)

	tests := []struct {
		name         string
		competitor   string
		wantPosition domain.PricePosition
		wantDiff     string
	}{
		{name: "priced_high", competitor: "15", wantPosition: domain.PricePositionHigh, wantDiff: "5"},
		{name: "priced_low", competitor: "25", wantPosition: domain.PricePositionLow, wantDiff: "-5"},
		{name: "in_line", competitor: "19", wantPosition: domain.PricePositionInLine, wantDiff: "1"},
		{name: "just_over_upper_band", competitor: "18.18", wantPosition: domain.PricePositionHigh, wantDiff: "1.82"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := PricingOptions{
				ProfitOptions:   ProfitOptions{FeeOptions: FeeOptions{StoreTier: domain.StoreTierBasic}},
				CompetitorPrice: dec(tt.competitor),
			}
			// converges immediately at 20.00
			got := calc.SuggestOptimalPrice(dec("10"), dec("39.4"), opts)

			require.NotNil(t, got.CompetitorComparison)
			assert.Equal(t, tt.wantPosition, got.CompetitorComparison.Position)
			assertDecimal(t, tt.wantDiff, got.CompetitorComparison.PriceDifference)
			assertDecimal(t, tt.competitor, got.CompetitorComparison.CompetitorPrice)
			assert.NotEmpty(t, got.CompetitorComparison.Recommendation)
		})
	}

	t.Run("just_inside_lower_band", func(t *testing.T) {
		opts := PricingOptions{
			ProfitOptions:   ProfitOptions{FeeOptions: FeeOptions{StoreTier: domain.StoreTierBasic}},
			CompetitorPrice: dec("22.22222222"),
		}
		got := calc.SuggestOptimalPrice(dec("10"), dec("39.4"), opts)

		require.NotNil(t, got.CompetitorComparison)
		assert.Equal(t, domain.PricePositionInLine, got.CompetitorComparison.Position)
	})
}
