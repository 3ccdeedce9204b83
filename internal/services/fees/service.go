package fees

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kevin07696/fee-service/internal/domain"
	"github.com/kevin07696/fee-service/internal/ratecard"
	pkgerrors "github.com/kevin07696/fee-service/pkg/errors"
	"github.com/kevin07696/fee-service/pkg/observability"
	"github.com/kevin07696/fee-service/pkg/timeutil"
)

// RateCardSource supplies the rate card in effect for a request
type RateCardSource interface {
	Current() *ratecard.RateCard
}

// ServiceConfig holds request defaults
type ServiceConfig struct {
	DefaultStoreTier   domain.StoreTier
	DefaultMarketplace domain.Marketplace
	Clock              timeutil.Clock // nil: timeutil.Now
}

// Service validates requests and runs them against the active rate card.
// Each call snapshots the card once so a concurrent reload never mixes rates.
type Service struct {
	rates              RateCardSource
	defaultTier        domain.StoreTier
	defaultMarketplace domain.Marketplace
	clock              timeutil.Clock
	logger             *zap.Logger
}

// NewService creates a new fee service
func NewService(rates RateCardSource, cfg ServiceConfig, logger *zap.Logger) *Service {
	s := &Service{
		rates:              rates,
		defaultTier:        cfg.DefaultStoreTier,
		defaultMarketplace: cfg.DefaultMarketplace,
		clock:              cfg.Clock,
		logger:             logger,
	}
	if s.defaultTier == "" {
		s.defaultTier = domain.StoreTierBasic
	}
	if s.defaultMarketplace == "" {
		s.defaultMarketplace = domain.MarketplaceUS
	}
	if s.clock == nil {
		s.clock = timeutil.Now
	}
	return s
}

// FinalValueFee computes the final value fee for one sale
func (s *Service) FinalValueFee(ctx context.Context, salePrice decimal.Decimal, categoryID string, tier domain.StoreTier) (*domain.FinalValueFeeResult, error) {
	if err := nonNegative("sale_price", salePrice); err != nil {
		return nil, err
	}
	tier, err := s.resolveTier(tier)
	if err != nil {
		return nil, err
	}
	calc, err := s.calculator()
	if err != nil {
		return nil, err
	}

	result := calc.FinalValueFee(salePrice, categoryID, tier)
	observability.RecordFeeCalculation("final_value", string(tier))
	return &result, nil
}

// CalculateFees itemizes every fee charged on a sale
func (s *Service) CalculateFees(ctx context.Context, salePrice decimal.Decimal, opts FeeOptions) (*domain.FeeCalculationResult, error) {
	if err := nonNegative("sale_price", salePrice); err != nil {
		return nil, err
	}
	opts, err := s.resolveFeeOptions(opts)
	if err != nil {
		return nil, err
	}
	calc, err := s.calculator()
	if err != nil {
		return nil, err
	}

	result := calc.AllFees(salePrice, opts)
	s.recordFees("all_fees", &result)

	s.logger.Debug("Calculated fees",
		zap.String("sale_price", salePrice.String()),
		zap.String("store_tier", string(result.StoreTier)),
		zap.String("total_fees", result.TotalFees.String()),
		zap.Strings("promotions_applied", result.PromotionsApplied),
	)
	return &result, nil
}

// ListingFees computes insertion and upgrade fees for a batch of listings
func (s *Service) ListingFees(ctx context.Context, listingCount int, hasSubtitle, hasListingUpgrade bool, tier domain.StoreTier) (*domain.ListingFeeResult, error) {
	if listingCount < 0 {
		return nil, pkgerrors.NewValidationError("listing_count", "must not be negative")
	}
	tier, err := s.resolveTier(tier)
	if err != nil {
		return nil, err
	}
	calc, err := s.calculator()
	if err != nil {
		return nil, err
	}

	result := calc.ListingFees(listingCount, hasSubtitle, hasListingUpgrade, tier)
	observability.RecordFeeCalculation("listing", string(tier))
	return &result, nil
}

// MonthlySummary aggregates a period's transactions
func (s *Service) MonthlySummary(ctx context.Context, transactions []domain.SaleTransaction, tier domain.StoreTier) (*domain.MonthlyFeeSummary, error) {
	for i, tx := range transactions {
		if err := nonNegative(fmt.Sprintf("transactions[%d].sale_price", i), tx.SalePrice); err != nil {
			return nil, err
		}
	}
	tier, err := s.resolveTier(tier)
	if err != nil {
		return nil, err
	}
	calc, err := s.calculator()
	if err != nil {
		return nil, err
	}

	summary := calc.MonthlySummary(transactions, tier)
	observability.RecordFeeCalculation("monthly_summary", string(tier))

	s.logger.Debug("Calculated monthly fee summary",
		zap.Int("transaction_count", summary.TransactionCount),
		zap.String("store_tier", string(tier)),
		zap.String("total_fees", summary.TotalFees.String()),
		zap.String("total_savings", summary.TotalSavings.String()),
	)
	return &summary, nil
}

// Profitability computes profit and margin for one sale
func (s *Service) Profitability(ctx context.Context, salePrice, costPrice decimal.Decimal, opts ProfitOptions) (*domain.ProfitabilityResult, error) {
	if err := firstError(
		nonNegative("sale_price", salePrice),
		nonNegative("cost_price", costPrice),
		nonNegative("shipping_cost", opts.ShippingCost),
	); err != nil {
		return nil, err
	}
	feeOpts, err := s.resolveFeeOptions(opts.FeeOptions)
	if err != nil {
		return nil, err
	}
	opts.FeeOptions = feeOpts
	calc, err := s.calculator()
	if err != nil {
		return nil, err
	}

	result := calc.Profitability(salePrice, costPrice, opts)
	s.recordFees("profitability", &result.FeeCalculation)
	return &result, nil
}

// SuggestPrice searches for a sale price that reaches targetMargin percent
func (s *Service) SuggestPrice(ctx context.Context, costPrice, targetMargin decimal.Decimal, opts PricingOptions) (*domain.PriceSuggestion, error) {
	if err := firstError(
		nonNegative("cost_price", costPrice),
		nonNegative("shipping_cost", opts.ShippingCost),
		nonNegative("competitor_price", opts.CompetitorPrice),
	); err != nil {
		return nil, err
	}
	if targetMargin.GreaterThanOrEqual(hundred) {
		return nil, pkgerrors.NewValidationError("target_margin", "must be below 100")
	}
	feeOpts, err := s.resolveFeeOptions(opts.FeeOptions)
	if err != nil {
		return nil, err
	}
	opts.FeeOptions = feeOpts
	calc, err := s.calculator()
	if err != nil {
		return nil, err
	}

	suggestion := calc.SuggestOptimalPrice(costPrice, targetMargin, opts)
	observability.RecordFeeCalculation("suggest_price", string(suggestion.ProfitAnalysis.FeeCalculation.StoreTier))
	observability.RecordPriceSolver(suggestion.Iterations, suggestion.Converged)

	if !suggestion.Converged {
		s.logger.Info("Price search stopped before reaching target margin",
			zap.String("cost_price", costPrice.String()),
			zap.String("target_margin", targetMargin.String()),
			zap.String("suggested_price", suggestion.SuggestedPrice.String()),
			zap.String("achieved_margin", suggestion.ProfitAnalysis.Profit.ProfitMargin.StringFixed(2)),
		)
	}
	return &suggestion, nil
}

// StoreTiers lists the subscription tiers on the active card
func (s *Service) StoreTiers(ctx context.Context) ([]domain.StoreTierInfo, error) {
	card, err := s.card()
	if err != nil {
		return nil, err
	}
	return card.Tiers(), nil
}

// StoreTier returns one subscription tier
func (s *Service) StoreTier(ctx context.Context, name string) (*domain.StoreTierInfo, error) {
	tier, ok := domain.ParseStoreTier(name)
	if !ok {
		return nil, domain.NewDomainError(domain.ErrorCodeStoreTierNotFound, "store tier not found").
			WithDetail("tier", name)
	}
	card, err := s.card()
	if err != nil {
		return nil, err
	}
	info, ok := card.LookupTier(tier)
	if !ok {
		return nil, domain.NewDomainError(domain.ErrorCodeStoreTierNotFound, "store tier not offered by rate card").
			WithDetail("tier", name)
	}
	return &info, nil
}

// Promotions lists promotions on the active card, optionally only those running now
func (s *Service) Promotions(ctx context.Context, activeOnly bool) ([]domain.Promotion, error) {
	card, err := s.card()
	if err != nil {
		return nil, err
	}
	if activeOnly {
		return card.ActivePromotions(s.clock()), nil
	}
	out := make([]domain.Promotion, len(card.Promotions))
	copy(out, card.Promotions)
	return out, nil
}

func (s *Service) card() (*ratecard.RateCard, error) {
	card := s.rates.Current()
	if card == nil {
		s.logger.Warn("Fee request received with no rate card loaded")
		return nil, domain.ErrRateCardUnavailable
	}
	return card, nil
}

func (s *Service) calculator() (*Calculator, error) {
	card, err := s.card()
	if err != nil {
		return nil, err
	}
	return NewCalculator(card, WithDefaultStoreTier(s.defaultTier), WithClock(s.clock)), nil
}

func (s *Service) resolveTier(tier domain.StoreTier) (domain.StoreTier, error) {
	if tier == "" {
		return s.defaultTier, nil
	}
	if !tier.IsValid() {
		return "", pkgerrors.NewValidationError("store_tier", fmt.Sprintf("unknown store tier %q", tier))
	}
	return tier, nil
}

func (s *Service) resolveFeeOptions(opts FeeOptions) (FeeOptions, error) {
	tier, err := s.resolveTier(opts.StoreTier)
	if err != nil {
		return opts, err
	}
	opts.StoreTier = tier

	if opts.Marketplace == "" {
		opts.Marketplace = s.defaultMarketplace
	} else if !opts.Marketplace.IsValid() {
		return opts, pkgerrors.NewValidationError("marketplace", fmt.Sprintf("unknown marketplace %q", opts.Marketplace))
	}

	if opts.PromotedListingsAdRate.IsNegative() || opts.PromotedListingsAdRate.GreaterThan(one) {
		return opts, pkgerrors.NewValidationError("promoted_listings_ad_rate", "must be within [0, 1]")
	}
	return opts, nil
}

func (s *Service) recordFees(operation string, result *domain.FeeCalculationResult) {
	observability.RecordFeeCalculation(operation, string(result.StoreTier))
	for _, f := range result.Fees {
		observability.RecordFeeAmount(string(f.FeeType), f.Currency, f.Amount)
	}
	observability.RecordPromotionSavings(result.Currency, result.SavingsFromPromotions)
}

func nonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return pkgerrors.NewValidationError(field, "must not be negative")
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
