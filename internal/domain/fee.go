package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FeeType identifies a marketplace charge or credit, using the Finances API names
type FeeType string

const (
	// Core transaction fees
	FeeTypeFinalValue         FeeType = "FINAL_VALUE_FEE"
	FeeTypeFinalValueFixed    FeeType = "FINAL_VALUE_FEE_FIXED_PER_ORDER"
	FeeTypeFinalValueShipping FeeType = "FINAL_VALUE_SHIPPING_FEE"
	FeeTypePaymentProcessing  FeeType = "PAYMENT_PROCESSING_FEE"
	FeeTypeInternational      FeeType = "INTERNATIONAL_FEE"

	// Listing fees
	FeeTypeInsertion       FeeType = "INSERTION_FEE"
	FeeTypeBold            FeeType = "BOLD_FEE"
	FeeTypeGallery         FeeType = "GALLERY_FEE"
	FeeTypeFeaturedGallery FeeType = "FEATURED_GALLERY_FEE"
	FeeTypeSubtitle        FeeType = "SUBTITLE_FEE"
	FeeTypeListingUpgrade  FeeType = "LISTING_UPGRADE_FEE"

	// Seller performance penalties
	FeeTypeBelowStandard                  FeeType = "BELOW_STANDARD_FEE"
	FeeTypeBelowStandardShipping          FeeType = "BELOW_STANDARD_SHIPPING_FEE"
	FeeTypeHighItemNotAsDescribed         FeeType = "HIGH_ITEM_NOT_AS_DESCRIBED_FEE"
	FeeTypeHighItemNotAsDescribedShipping FeeType = "HIGH_ITEM_NOT_AS_DESCRIBED_SHIPPING_FEE"

	// Advertising
	FeeTypeAd               FeeType = "AD_FEE"
	FeeTypePromotedListings FeeType = "PROMOTED_LISTINGS_FEE"

	// Operations and payouts
	FeeTypeStoreSubscription   FeeType = "STORE_SUBSCRIPTION_FEE"
	FeeTypeExpressPayout       FeeType = "EXPRESS_PAYOUT_FEE"
	FeeTypeBankPayout          FeeType = "BANK_PAYOUT_FEE"
	FeeTypeRegulatoryOperating FeeType = "REGULATORY_OPERATING_FEE"

	// Tax withholding
	FeeTypeTaxDeductionAtSource FeeType = "TAX_DEDUCTION_AT_SOURCE"
	FeeTypeIncomeTaxWithholding FeeType = "INCOME_TAX_WITHHOLDING"
	FeeTypeVATWithholding       FeeType = "VAT_WITHHOLDING"

	// Disputes and everything else
	FeeTypePaymentDispute  FeeType = "PAYMENT_DISPUTE_FEE"
	FeeTypeFinance         FeeType = "FINANCE_FEE"
	FeeTypeCharityDonation FeeType = "CHARITY_DONATION"
	FeeTypeOther           FeeType = "OTHER_FEES"
)

var allFeeTypes = []FeeType{
	FeeTypeFinalValue,
	FeeTypeFinalValueFixed,
	FeeTypeFinalValueShipping,
	FeeTypePaymentProcessing,
	FeeTypeInternational,
	FeeTypeInsertion,
	FeeTypeBold,
	FeeTypeGallery,
	FeeTypeFeaturedGallery,
	FeeTypeSubtitle,
	FeeTypeListingUpgrade,
	FeeTypeBelowStandard,
	FeeTypeBelowStandardShipping,
	FeeTypeHighItemNotAsDescribed,
	FeeTypeHighItemNotAsDescribedShipping,
	FeeTypeAd,
	FeeTypePromotedListings,
	FeeTypeStoreSubscription,
	FeeTypeExpressPayout,
	FeeTypeBankPayout,
	FeeTypeRegulatoryOperating,
	FeeTypeTaxDeductionAtSource,
	FeeTypeIncomeTaxWithholding,
	FeeTypeVATWithholding,
	FeeTypePaymentDispute,
	FeeTypeFinance,
	FeeTypeCharityDonation,
	FeeTypeOther,
}

// AllFeeTypes returns every known fee type in a stable order
func AllFeeTypes() []FeeType {
	out := make([]FeeType, len(allFeeTypes))
	copy(out, allFeeTypes)
	return out
}

// Label returns a human-readable name for the fee type.
// New fee types must get a case here; TestFeeType_LabelCoversAllTypes enforces it.
func (f FeeType) Label() string {
	switch f {
	case FeeTypeFinalValue:
		return "Final value fee"
	case FeeTypeFinalValueFixed:
		return "Final value fee (fixed per order)"
	case FeeTypeFinalValueShipping:
		return "Final value fee on shipping"
	case FeeTypePaymentProcessing:
		return "Payment processing fee"
	case FeeTypeInternational:
		return "International fee"
	case FeeTypeInsertion:
		return "Insertion fee"
	case FeeTypeBold:
		return "Bold upgrade fee"
	case FeeTypeGallery:
		return "Gallery fee"
	case FeeTypeFeaturedGallery:
		return "Featured gallery fee"
	case FeeTypeSubtitle:
		return "Subtitle fee"
	case FeeTypeListingUpgrade:
		return "Listing upgrade fee"
	case FeeTypeBelowStandard:
		return "Below standard performance fee"
	case FeeTypeBelowStandardShipping:
		return "Below standard performance fee on shipping"
	case FeeTypeHighItemNotAsDescribed:
		return "High item-not-as-described fee"
	case FeeTypeHighItemNotAsDescribedShipping:
		return "High item-not-as-described fee on shipping"
	case FeeTypeAd:
		return "Ad fee"
	case FeeTypePromotedListings:
		return "Promoted listings fee"
	case FeeTypeStoreSubscription:
		return "Store subscription fee"
	case FeeTypeExpressPayout:
		return "Express payout fee"
	case FeeTypeBankPayout:
		return "Bank payout fee"
	case FeeTypeRegulatoryOperating:
		return "Regulatory operating fee"
	case FeeTypeTaxDeductionAtSource:
		return "Tax deducted at source"
	case FeeTypeIncomeTaxWithholding:
		return "Income tax withholding"
	case FeeTypeVATWithholding:
		return "VAT withholding"
	case FeeTypePaymentDispute:
		return "Payment dispute fee"
	case FeeTypeFinance:
		return "Finance charge"
	case FeeTypeCharityDonation:
		return "Charity donation"
	case FeeTypeOther:
		return "Other fees"
	}
	return ""
}

// IsKnown reports whether f is one of the enumerated fee types
func (f FeeType) IsKnown() bool {
	return f.Label() != ""
}

// ParseFeeType normalizes s into a FeeType. Unknown values map to FeeTypeOther.
func ParseFeeType(s string) FeeType {
	f := FeeType(strings.ToUpper(strings.TrimSpace(s)))
	if f.IsKnown() {
		return f
	}
	return FeeTypeOther
}

// FeeLineItem is a single charged (positive) or credited (negative) amount
type FeeLineItem struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Jurisdiction string          `json:"fee_jurisdiction,omitempty"`
	FeeType      FeeType         `json:"fee_type"`
	Memo         string          `json:"memo"`
}

// Marketplace identifies a regional marketplace site
type Marketplace string

const (
	MarketplaceUS Marketplace = "EBAY_US"
	MarketplaceUK Marketplace = "EBAY_UK"
	MarketplaceDE Marketplace = "EBAY_DE"
	MarketplaceAU Marketplace = "EBAY_AU"
	MarketplaceCA Marketplace = "EBAY_CA"
)

// IsValid reports whether m is a supported marketplace
func (m Marketplace) IsValid() bool {
	switch m {
	case MarketplaceUS, MarketplaceUK, MarketplaceDE, MarketplaceAU, MarketplaceCA:
		return true
	}
	return false
}

// Currency returns the settlement currency for the marketplace, USD when unrecognized
func (m Marketplace) Currency() string {
	switch m {
	case MarketplaceUK:
		return "GBP"
	case MarketplaceDE:
		return "EUR"
	default:
		return "USD"
	}
}

// Jurisdiction returns the country part of the marketplace id (EBAY_US -> US)
func (m Marketplace) Jurisdiction() string {
	if _, after, ok := strings.Cut(string(m), "_"); ok {
		return after
	}
	return ""
}
