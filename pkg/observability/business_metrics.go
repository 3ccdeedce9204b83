package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	// Fee calculation metrics
	feeCalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fee_calculations_total",
		Help: "Total number of fee calculations served",
	}, []string{
		"operation",  // final_value, all_fees, listing, monthly_summary, profitability, suggest_price
		"store_tier", // NONE, BASIC, PREMIUM, ANCHOR, ENTERPRISE
	})

	feeAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fee_amount_total",
		Help: "Sum of computed fee amounts (for fee mix tracking)",
	}, []string{
		"fee_type",
		"currency",
	})

	promotionSavingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promotion_savings_total",
		Help: "Sum of fee discounts from store tiers and promotions",
	}, []string{
		"currency",
	})

	// Price solver metrics
	priceSolverIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "price_solver_iterations",
		Help:    "Iterations used by the target-margin price search",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
	}, []string{
		"converged", // true, false
	})

	// Rate card metrics
	rateCardReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_card_reloads_total",
		Help: "Total rate card load attempts",
	}, []string{
		"status", // success, failed
	})

	rateCardInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rate_card_info",
		Help: "Active rate card version (value is always 1)",
	}, []string{
		"version",
	})
)

// RecordFeeCalculation records a served calculation
func RecordFeeCalculation(operation, storeTier string) {
	feeCalculationsTotal.WithLabelValues(operation, storeTier).Inc()
}

// RecordFeeAmount adds a computed fee to the running total for its type
func RecordFeeAmount(feeType, currency string, amount decimal.Decimal) {
	feeAmountTotal.WithLabelValues(feeType, currency).Add(amount.Abs().InexactFloat64())
}

// RecordPromotionSavings records discounts granted on a calculation
func RecordPromotionSavings(currency string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	promotionSavingsTotal.WithLabelValues(currency).Add(amount.InexactFloat64())
}

// RecordPriceSolver records how a price search ended
func RecordPriceSolver(iterations int, converged bool) {
	label := "false"
	if converged {
		label = "true"
	}
	priceSolverIterations.WithLabelValues(label).Observe(float64(iterations))
}

// RecordRateCardReload records a rate card load attempt
func RecordRateCardReload(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	rateCardReloadsTotal.WithLabelValues(status).Inc()
}

// SetRateCardInfo marks version as the active rate card
func SetRateCardInfo(version string) {
	rateCardInfo.Reset()
	rateCardInfo.WithLabelValues(version).Set(1)
}
