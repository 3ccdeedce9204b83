package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/fee-service/internal/domain"
	"github.com/kevin07696/fee-service/internal/ratecard"
	"github.com/kevin07696/fee-service/internal/services/fees"
	"github.com/kevin07696/fee-service/pkg/timeutil"
)

func main() {
	var (
		action      = flag.String("action", "", "Action to perform: fees, profit, suggest, tiers")
		rateCard    = flag.String("ratecard", "", "YAML rate card file (default: built-in)")
		price       = flag.String("price", "", "Sale price")
		cost        = flag.String("cost", "0", "Item cost")
		shipping    = flag.String("shipping", "0", "Shipping cost")
		margin      = flag.String("margin", "", "Target profit margin in percent (suggest)")
		competitor  = flag.String("competitor", "0", "Competitor price (suggest)")
		category    = flag.String("category", "", "Category ID")
		tier        = flag.String("tier", string(domain.StoreTierBasic), "Store tier: NONE, BASIC, PREMIUM, ANCHOR, ENTERPRISE")
		marketplace = flag.String("marketplace", string(domain.MarketplaceUS), "Marketplace ID, e.g. EBAY_US")
		adRate      = flag.String("ad-rate", "0", "Promoted listings ad rate, e.g. 0.05")
		intl        = flag.Bool("international", false, "Sale ships internationally")
		date        = flag.String("date", "", "Sale date YYYY-MM-DD for promotion windows (default: today)")
	)
	flag.Parse()

	if *action == "" {
		fmt.Println("Usage: feecalc -action=<action> [options]")
		fmt.Println("Actions:")
		fmt.Println("  fees    - Itemized fees for a sale (-price)")
		fmt.Println("  profit  - Profit and margin for a sale (-price, -cost)")
		fmt.Println("  suggest - Price reaching a target margin (-cost, -margin)")
		fmt.Println("  tiers   - Store subscription tiers on the rate card")
		os.Exit(1)
	}

	card := ratecard.Default()
	if *rateCard != "" {
		loaded, err := ratecard.LoadFile(*rateCard)
		if err != nil {
			fail("load rate card: %v", err)
		}
		card = loaded
	}

	storeTier, ok := domain.ParseStoreTier(*tier)
	if !ok {
		fail("unknown store tier %q", *tier)
	}
	mkt := domain.Marketplace(strings.ToUpper(*marketplace))
	if !mkt.IsValid() {
		fail("unknown marketplace %q", *marketplace)
	}

	clock := timeutil.Now
	if *date != "" {
		d, err := timeutil.ParseDate(timeutil.DateLayout, *date)
		if err != nil {
			fail("invalid -date: %v", err)
		}
		clock = timeutil.Fixed(d.Add(12 * time.Hour))
	}

	calc := fees.NewCalculator(card, fees.WithDefaultStoreTier(storeTier), fees.WithClock(clock))
	feeOpts := fees.FeeOptions{
		CategoryID:             *category,
		StoreTier:              storeTier,
		IsInternational:        *intl,
		PromotedListingsAdRate: mustDecimal("ad-rate", *adRate),
		Marketplace:            mkt,
	}
	profitOpts := fees.ProfitOptions{FeeOptions: feeOpts, ShippingCost: mustDecimal("shipping", *shipping)}

	var out interface{}
	switch *action {
	case "fees":
		out = calc.AllFees(mustDecimal("price", *price), feeOpts)
	case "profit":
		out = calc.Profitability(mustDecimal("price", *price), mustDecimal("cost", *cost), profitOpts)
	case "suggest":
		out = calc.SuggestOptimalPrice(mustDecimal("cost", *cost), mustDecimal("margin", *margin), fees.PricingOptions{
			ProfitOptions:   profitOpts,
			CompetitorPrice: mustDecimal("competitor", *competitor),
		})
	case "tiers":
		out = card.Tiers()
	default:
		fail("unknown action %q", *action)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fail("encode output: %v", err)
	}
}

func mustDecimal(name, value string) decimal.Decimal {
	if value == "" {
		fail("-%s is required", name)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		fail("invalid -%s %q: %v", name, value, err)
	}
	return d
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "feecalc: "+format+"\n", args...)
	os.Exit(1)
}
