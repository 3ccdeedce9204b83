package ratecard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/fee-service/internal/domain"
	"github.com/kevin07696/fee-service/pkg/timeutil"
)

// DefaultVersion identifies the built-in fee schedule
const DefaultVersion = "2025.1-builtin"

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultRates returns the 2025 base fee parameters
func DefaultRates() Rates {
	return Rates{
		FinalValueFeeRate:        d("0.1235"),
		PaymentProcessingRate:    d("0.029"),
		PaymentProcessingFixed:   d("0.30"),
		InternationalFeeRate:     d("0.015"),
		PromotedListingsBaseRate: d("0.02"),
		InsertionFee:             d("0.35"),
		SubtitleFee:              d("0.50"),
		ListingUpgradeFee:        d("1.00"),
		DiscountCapBasis:         d("2500"),
	}
}

// Default returns the built-in rate card
func Default() *RateCard {
	rates := DefaultRates()
	half := d("0.5")

	return &RateCard{
		Version: DefaultVersion,
		Rates:   rates,
		CategoryRates: map[string]decimal.Decimal{
			"9355":  d("0.1235"), // cell phones & accessories
			"15709": d("0.1235"), // clothing, shoes & accessories
			"43576": d("0.1235"), // consumer electronics
			"11450": d("0.1000"), // auto parts & accessories
			"550":   d("0.0800"), // art
			"267":   d("0.1500"), // books
		},
		StoreTiers: map[domain.StoreTier]domain.StoreTierInfo{
			domain.StoreTierNone: {
				Tier:                      domain.StoreTierNone,
				DisplayName:               "Standard seller",
				MonthlyFee:                decimal.Zero,
				FreeListingQuota:          250,
				PerListingFee:             rates.InsertionFee,
				FinalValueFeeDiscountRate: decimal.Zero,
				Benefits:                  []string{"250 free listings per month", "Basic seller tools"},
			},
			domain.StoreTierBasic: {
				Tier:                      domain.StoreTierBasic,
				DisplayName:               "Basic store",
				MonthlyFee:                d("27.95"),
				FreeListingQuota:          1000,
				PerListingFee:             d("0.30"),
				FinalValueFeeDiscountRate: half,
				Benefits:                  []string{"1,000 free listings per month", "50% final value fee discount", "Advanced marketing tools"},
			},
			domain.StoreTierPremium: {
				Tier:                      domain.StoreTierPremium,
				DisplayName:               "Premium store",
				MonthlyFee:                d("74.95"),
				FreeListingQuota:          10000,
				PerListingFee:             d("0.25"),
				FinalValueFeeDiscountRate: half,
				Benefits:                  []string{"10,000 free listings per month", "50% final value fee discount", "Premium marketing tools", "Priority customer support"},
			},
			domain.StoreTierAnchor: {
				Tier:                      domain.StoreTierAnchor,
				DisplayName:               "Anchor store",
				MonthlyFee:                d("349.95"),
				FreeListingQuota:          25000,
				PerListingFee:             d("0.20"),
				FinalValueFeeDiscountRate: half,
				Benefits:                  []string{"25,000 free listings per month", "50% final value fee discount", "Advanced analytics", "Dedicated account manager"},
			},
			domain.StoreTierEnterprise: {
				Tier:                      domain.StoreTierEnterprise,
				DisplayName:               "Enterprise store",
				MonthlyFee:                d("2999.95"),
				FreeListingQuota:          100000,
				PerListingFee:             d("0.15"),
				FinalValueFeeDiscountRate: half,
				Benefits:                  []string{"100,000 free listings per month", "50% final value fee discount", "Enterprise API access", "24/7 dedicated support"},
			},
		},
		Promotions: []domain.Promotion{
			{
				ID:                 "basic_store_discount_2025",
				Name:               "Basic store and above: 50% off final value fees",
				Description:        "50% off the 12.35% final value fee on the first $2,500 of each sale",
				StartDate:          day(2025, time.January, 1),
				EndDate:            timeutil.EndOfDay(day(2025, time.December, 31)),
				DiscountPercentage: d("50"),
				ApplicableFeeTypes: []domain.FeeType{domain.FeeTypeFinalValue},
				EligibilityNotes:   []string{"Basic store subscription or higher", "Applies to the first $2,500 of the sale price"},
				Marketplaces:       []domain.Marketplace{domain.MarketplaceUS, domain.MarketplaceUK, domain.MarketplaceDE, domain.MarketplaceAU},
			},
			{
				ID:                 "promoted_offsite_discount_2025",
				Name:               "Promoted Offsite: 50% off ad fees",
				Description:        "50% off ad fees for campaigns set up between January 20 and March 31, 2025",
				StartDate:          day(2025, time.January, 20),
				EndDate:            timeutil.EndOfDay(day(2025, time.March, 31)),
				DiscountPercentage: d("50"),
				ApplicableFeeTypes: []domain.FeeType{domain.FeeTypePromotedListings},
				EligibilityNotes:   []string{"Promoted Offsite campaign created within the promotion window"},
				Marketplaces:       []domain.Marketplace{domain.MarketplaceUS, domain.MarketplaceUK, domain.MarketplaceDE, domain.MarketplaceAU},
			},
		},
	}
}

func day(year int, month time.Month, dd int) time.Time {
	return time.Date(year, month, dd, 0, 0, 0, 0, time.UTC)
}
