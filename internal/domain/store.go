package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StoreTier is a seller's store subscription level
type StoreTier string

const (
	StoreTierNone       StoreTier = "NONE"
	StoreTierBasic      StoreTier = "BASIC"
	StoreTierPremium    StoreTier = "PREMIUM"
	StoreTierAnchor     StoreTier = "ANCHOR"
	StoreTierEnterprise StoreTier = "ENTERPRISE"
)

// AllStoreTiers returns the subscription levels from lowest to highest
func AllStoreTiers() []StoreTier {
	return []StoreTier{StoreTierNone, StoreTierBasic, StoreTierPremium, StoreTierAnchor, StoreTierEnterprise}
}

// IsValid reports whether t is a known tier
func (t StoreTier) IsValid() bool {
	switch t {
	case StoreTierNone, StoreTierBasic, StoreTierPremium, StoreTierAnchor, StoreTierEnterprise:
		return true
	}
	return false
}

// ParseStoreTier normalizes s. ok is false for unknown tiers.
func ParseStoreTier(s string) (StoreTier, bool) {
	t := StoreTier(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// StoreTierInfo describes the benefits of a subscription level
type StoreTierInfo struct {
	Tier                      StoreTier       `json:"tier"`
	DisplayName               string          `json:"display_name"`
	MonthlyFee                decimal.Decimal `json:"monthly_fee"`
	FreeListingQuota          int             `json:"free_listing_quota"`
	PerListingFee             decimal.Decimal `json:"per_listing_fee"`
	FinalValueFeeDiscountRate decimal.Decimal `json:"final_value_fee_discount_rate"` // 0..1
	Benefits                  []string        `json:"benefits"`
}

// HasFinalValueDiscount returns true if the tier discounts the final value fee
func (s StoreTierInfo) HasFinalValueDiscount() bool {
	return s.FinalValueFeeDiscountRate.IsPositive()
}

// Promotion is a time-bounded campaign discounting one or more fee types.
// Eligibility notes are informational; only the date window is enforced.
type Promotion struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"` // 0..100
	ApplicableFeeTypes []FeeType       `json:"applicable_fee_types"`
	EligibilityNotes   []string        `json:"eligibility_notes,omitempty"`
	Marketplaces       []Marketplace   `json:"marketplaces,omitempty"`
}

// IsActiveAt returns true if t falls inside [StartDate, EndDate]
func (p Promotion) IsActiveAt(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// AppliesTo returns true if the promotion discounts the given fee type
func (p Promotion) AppliesTo(feeType FeeType) bool {
	for _, ft := range p.ApplicableFeeTypes {
		if ft == feeType {
			return true
		}
	}
	return false
}
