// Package fees exposes the fee calculator over HTTP JSON.
package fees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kevin07696/fee-service/internal/domain"
	feesvc "github.com/kevin07696/fee-service/internal/services/fees"
	"github.com/kevin07696/fee-service/pkg/encoding"
	pkgerrors "github.com/kevin07696/fee-service/pkg/errors"
)

const maxBodyBytes = 1 << 20

// FeeService is the application service the handlers call
type FeeService interface {
	FinalValueFee(ctx context.Context, salePrice decimal.Decimal, categoryID string, tier domain.StoreTier) (*domain.FinalValueFeeResult, error)
	CalculateFees(ctx context.Context, salePrice decimal.Decimal, opts feesvc.FeeOptions) (*domain.FeeCalculationResult, error)
	ListingFees(ctx context.Context, listingCount int, hasSubtitle, hasListingUpgrade bool, tier domain.StoreTier) (*domain.ListingFeeResult, error)
	MonthlySummary(ctx context.Context, transactions []domain.SaleTransaction, tier domain.StoreTier) (*domain.MonthlyFeeSummary, error)
	Profitability(ctx context.Context, salePrice, costPrice decimal.Decimal, opts feesvc.ProfitOptions) (*domain.ProfitabilityResult, error)
	SuggestPrice(ctx context.Context, costPrice, targetMargin decimal.Decimal, opts feesvc.PricingOptions) (*domain.PriceSuggestion, error)
	StoreTiers(ctx context.Context) ([]domain.StoreTierInfo, error)
	StoreTier(ctx context.Context, name string) (*domain.StoreTierInfo, error)
	Promotions(ctx context.Context, activeOnly bool) ([]domain.Promotion, error)
}

// Handler serves the fee API
type Handler struct {
	service FeeService
	logger  *zap.Logger
}

// NewHandler creates a new fee handler
func NewHandler(service FeeService, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// FinalValueFee handles POST /api/v1/fees/final-value
func (h *Handler) FinalValueFee(w http.ResponseWriter, r *http.Request) {
	var req FinalValueFeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.SalePrice == nil {
		h.respondError(w, r, http.StatusBadRequest, "sale_price is required", "sale_price")
		return
	}

	result, err := h.service.FinalValueFee(r.Context(), *req.SalePrice, req.CategoryID, parseTier(req.StoreTier))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// CalculateFees handles POST /api/v1/fees/calculate
func (h *Handler) CalculateFees(w http.ResponseWriter, r *http.Request) {
	var req CalculateFeesRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.SalePrice == nil {
		h.respondError(w, r, http.StatusBadRequest, "sale_price is required", "sale_price")
		return
	}

	result, err := h.service.CalculateFees(r.Context(), *req.SalePrice, req.toFeeOptions())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// ListingFees handles POST /api/v1/fees/listing
func (h *Handler) ListingFees(w http.ResponseWriter, r *http.Request) {
	var req ListingFeesRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.ListingFees(r.Context(), req.ListingCount, req.HasSubtitle, req.HasListingUpgrade, parseTier(req.StoreTier))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// MonthlySummary handles POST /api/v1/fees/monthly-summary
func (h *Handler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	var req MonthlySummaryRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.MonthlySummary(r.Context(), req.toTransactions(), parseTier(req.StoreTier))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// Profitability handles POST /api/v1/profitability
func (h *Handler) Profitability(w http.ResponseWriter, r *http.Request) {
	var req ProfitabilityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.SalePrice == nil {
		h.respondError(w, r, http.StatusBadRequest, "sale_price is required", "sale_price")
		return
	}
	if req.CostPrice == nil {
		h.respondError(w, r, http.StatusBadRequest, "cost_price is required", "cost_price")
		return
	}

	opts := feesvc.ProfitOptions{
		FeeOptions:   req.toFeeOptions(),
		ShippingCost: req.ShippingCost,
	}
	result, err := h.service.Profitability(r.Context(), *req.SalePrice, *req.CostPrice, opts)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// SuggestPrice handles POST /api/v1/pricing/suggest
func (h *Handler) SuggestPrice(w http.ResponseWriter, r *http.Request) {
	var req SuggestPriceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.CostPrice == nil {
		h.respondError(w, r, http.StatusBadRequest, "cost_price is required", "cost_price")
		return
	}
	if req.TargetMargin == nil {
		h.respondError(w, r, http.StatusBadRequest, "target_margin is required", "target_margin")
		return
	}

	opts := feesvc.PricingOptions{
		ProfitOptions: feesvc.ProfitOptions{
			FeeOptions:   req.toFeeOptions(),
			ShippingCost: req.ShippingCost,
		},
		CompetitorPrice: req.CompetitorPrice,
	}
	result, err := h.service.SuggestPrice(r.Context(), *req.CostPrice, *req.TargetMargin, opts)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// ListStoreTiers handles GET /api/v1/store-tiers
func (h *Handler) ListStoreTiers(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.service.StoreTiers(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, tiers)
}

// GetStoreTier handles GET /api/v1/store-tiers/{tier}
func (h *Handler) GetStoreTier(w http.ResponseWriter, r *http.Request) {
	tier, err := h.service.StoreTier(r.Context(), chi.URLParam(r, "tier"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, tier)
}

// ListPromotions handles GET /api/v1/promotions?active=true
func (h *Handler) ListPromotions(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "active must be true or false", "active")
			return
		}
		activeOnly = parsed
	}

	promotions, err := h.service.Promotions(r.Context(), activeOnly)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if promotions == nil {
		promotions = []domain.Promotion{}
	}
	h.respondJSON(w, http.StatusOK, promotions)
}

// decode reads a JSON body into dst, answering 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		msg := "invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		} else {
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		h.respondError(w, r, http.StatusBadRequest, msg, "")
		return false
	}
	return true
}

// handleError maps service errors to HTTP status codes
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := pkgerrors.AsValidationError(err); ok {
		h.respondError(w, r, http.StatusBadRequest, ve.Message, ve.Field)
		return
	}

	switch {
	case domain.IsNotFoundError(err):
		h.respondError(w, r, http.StatusNotFound, err.Error(), "")
	case domain.IsValidationError(err):
		h.respondError(w, r, http.StatusBadRequest, err.Error(), "")
	case domain.IsRateCardError(err):
		h.logger.Error("Rate card unavailable",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		h.respondError(w, r, http.StatusServiceUnavailable, "fee schedule unavailable", "")
	default:
		h.logger.Error("Unhandled fee service error",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		h.respondError(w, r, http.StatusInternalServerError, "internal server error", "")
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	resp := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	if err := encoding.WriteJSON(w, statusCode, resp); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"error":"internal server error"}`+"\n")
	}
}

// respondError sends an error response; field names the offending input when known
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, statusCode int, message, field string) {
	resp := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if field != "" {
		resp["field"] = field
	}
	if id := chimw.GetReqID(r.Context()); id != "" {
		resp["request_id"] = id
	}

	if err := encoding.WriteJSON(w, statusCode, resp); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}
