package ratecard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/kevin07696/fee-service/internal/domain"
	"github.com/kevin07696/fee-service/pkg/timeutil"
)

// fileSchema is the on-disk YAML layout. Money and rates are strings so they
// are parsed straight into decimals without a float round trip.
type fileSchema struct {
	Version       string            `yaml:"version"`
	Rates         ratesSchema       `yaml:"rates"`
	CategoryRates map[string]string `yaml:"category_rates"`
	StoreTiers    []tierSchema      `yaml:"store_tiers"`
	Promotions    []promotionSchema `yaml:"promotions"`
}

type ratesSchema struct {
	FinalValueFeeRate        string `yaml:"final_value_fee_rate"`
	PaymentProcessingRate    string `yaml:"payment_processing_rate"`
	PaymentProcessingFixed   string `yaml:"payment_processing_fixed"`
	InternationalFeeRate     string `yaml:"international_fee_rate"`
	PromotedListingsBaseRate string `yaml:"promoted_listings_base_rate"`
	InsertionFee             string `yaml:"insertion_fee"`
	SubtitleFee              string `yaml:"subtitle_fee"`
	ListingUpgradeFee        string `yaml:"listing_upgrade_fee"`
	DiscountCapBasis         string `yaml:"discount_cap_basis"`
}

type tierSchema struct {
	Tier                      string   `yaml:"tier"`
	DisplayName               string   `yaml:"display_name"`
	MonthlyFee                string   `yaml:"monthly_fee"`
	FreeListingQuota          int      `yaml:"free_listing_quota"`
	PerListingFee             string   `yaml:"per_listing_fee"`
	FinalValueFeeDiscountRate string   `yaml:"final_value_fee_discount_rate"`
	Benefits                  []string `yaml:"benefits"`
}

type promotionSchema struct {
	ID                 string   `yaml:"id"`
	Name               string   `yaml:"name"`
	Description        string   `yaml:"description"`
	StartDate          string   `yaml:"start_date"`
	EndDate            string   `yaml:"end_date"`
	DiscountPercentage string   `yaml:"discount_percentage"`
	ApplicableFeeTypes []string `yaml:"applicable_fee_types"`
	EligibilityNotes   []string `yaml:"eligibility_notes"`
	Marketplaces       []string `yaml:"marketplaces"`
}

// LoadFile reads and validates a YAML rate card from path
func LoadFile(path string) (*RateCard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeRateCardUnavailable, "open rate card", err).
			WithDetail("path", path)
	}
	defer f.Close()

	card, err := Load(f)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Load decodes and validates a YAML rate card
func Load(r io.Reader) (*RateCard, error) {
	var raw fileSchema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeRateCardInvalid, "decode rate card", err)
	}

	card, err := raw.toRateCard()
	if err != nil {
		return nil, err
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *fileSchema) toRateCard() (*RateCard, error) {
	p := &parser{}

	card := &RateCard{
		Version: s.Version,
		Rates: Rates{
			FinalValueFeeRate:        p.decimal("rates.final_value_fee_rate", s.Rates.FinalValueFeeRate),
			PaymentProcessingRate:    p.decimal("rates.payment_processing_rate", s.Rates.PaymentProcessingRate),
			PaymentProcessingFixed:   p.decimal("rates.payment_processing_fixed", s.Rates.PaymentProcessingFixed),
			InternationalFeeRate:     p.decimal("rates.international_fee_rate", s.Rates.InternationalFeeRate),
			PromotedListingsBaseRate: p.decimal("rates.promoted_listings_base_rate", s.Rates.PromotedListingsBaseRate),
			InsertionFee:             p.decimal("rates.insertion_fee", s.Rates.InsertionFee),
			SubtitleFee:              p.decimal("rates.subtitle_fee", s.Rates.SubtitleFee),
			ListingUpgradeFee:        p.decimal("rates.listing_upgrade_fee", s.Rates.ListingUpgradeFee),
			DiscountCapBasis:         p.decimal("rates.discount_cap_basis", s.Rates.DiscountCapBasis),
		},
		CategoryRates: make(map[string]decimal.Decimal, len(s.CategoryRates)),
		StoreTiers:    make(map[domain.StoreTier]domain.StoreTierInfo, len(s.StoreTiers)),
	}
	if card.Version == "" {
		card.Version = "unversioned"
	}

	for id, rate := range s.CategoryRates {
		card.CategoryRates[id] = p.decimal("category_rates."+id, rate)
	}

	for _, t := range s.StoreTiers {
		tier, ok := domain.ParseStoreTier(t.Tier)
		if !ok {
			return nil, invalid(fmt.Sprintf("unknown store tier %q", t.Tier))
		}
		if _, dup := card.StoreTiers[tier]; dup {
			return nil, invalid("duplicate store tier").WithDetail("tier", string(tier))
		}
		field := "store_tiers." + string(tier)
		card.StoreTiers[tier] = domain.StoreTierInfo{
			Tier:                      tier,
			DisplayName:               t.DisplayName,
			MonthlyFee:                p.decimal(field+".monthly_fee", t.MonthlyFee),
			FreeListingQuota:          t.FreeListingQuota,
			PerListingFee:             p.decimal(field+".per_listing_fee", t.PerListingFee),
			FinalValueFeeDiscountRate: p.decimal(field+".final_value_fee_discount_rate", t.FinalValueFeeDiscountRate),
			Benefits:                  t.Benefits,
		}
	}

	for _, ps := range s.Promotions {
		start, end, err := timeutil.ParseDateRange(ps.StartDate, ps.EndDate)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorCodeRateCardInvalid, "invalid promotion window", err).
				WithDetail("promotion_id", ps.ID)
		}
		promo := domain.Promotion{
			ID:                 ps.ID,
			Name:               ps.Name,
			Description:        ps.Description,
			StartDate:          start,
			EndDate:            end,
			DiscountPercentage: p.decimal("promotions."+ps.ID+".discount_percentage", ps.DiscountPercentage),
			EligibilityNotes:   ps.EligibilityNotes,
		}
		for _, ft := range ps.ApplicableFeeTypes {
			// Kept verbatim so Validate can reject types this build does not know.
			promo.ApplicableFeeTypes = append(promo.ApplicableFeeTypes, domain.FeeType(strings.ToUpper(strings.TrimSpace(ft))))
		}
		for _, m := range ps.Marketplaces {
			promo.Marketplaces = append(promo.Marketplaces, domain.Marketplace(strings.ToUpper(strings.TrimSpace(m))))
		}
		card.Promotions = append(card.Promotions, promo)
	}

	if p.err != nil {
		return nil, p.err
	}
	return card, nil
}

// parser collects the first decimal parse failure so field conversion reads linearly
type parser struct {
	err error
}

func (p *parser) decimal(field, value string) decimal.Decimal {
	if p.err != nil {
		return decimal.Zero
	}
	value = strings.TrimSpace(value)
	if value == "" {
		p.err = invalid("missing value").WithDetail("field", field)
		return decimal.Zero
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		p.err = domain.WrapError(domain.ErrorCodeRateCardInvalid, "invalid decimal", err).WithDetail("field", field)
		return decimal.Zero
	}
	return v
}
