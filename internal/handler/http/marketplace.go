package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gigvault/escrowd/internal/repository"
	"github.com/gigvault/escrowd/internal/service"
	"github.com/gigvault/escrowd/pkg/httputil"
	"github.com/gigvault/escrowd/pkg/middleware"
	"github.com/gigvault/escrowd/pkg/pagination"
	"github.com/gigvault/escrowd/pkg/validator"
)

// MarketplaceHandler handles HTTP requests for marketplace endpoints.
type MarketplaceHandler struct {
	service *service.MarketplaceService
	logger  *slog.Logger
}

// NewMarketplaceHandler creates a new marketplace HTTP handler.
func NewMarketplaceHandler(svc *service.MarketplaceService, logger *slog.Logger) *MarketplaceHandler {
	return &MarketplaceHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// OfferServiceRequest is the JSON request body for offering a service.
type OfferServiceRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=255"`
	Description  string `json:"description" validate:"required,max=4000"`
	Price        int64  `json:"price" validate:"required,gt=0"`
	DurationDays int    `json:"duration_days" validate:"required,gt=0"`
}

// HireServiceRequest is the JSON request body for hiring a service. The
// amount must equal the service price exactly; the price check lives in the
// service layer so a mismatch reports both values.
type HireServiceRequest struct {
	Amount int64 `json:"amount" validate:"required"`
}

// RateServiceRequest is the JSON request body for rating a settled service.
type RateServiceRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// --- Response DTOs ---

// CountResponse is the JSON response for the service count endpoint.
type CountResponse struct {
	Count int64 `json:"count"`
}

// EscrowBalanceResponse is the JSON response for the escrow balance endpoint.
type EscrowBalanceResponse struct {
	ServiceID int64 `json:"service_id"`
	Balance   int64 `json:"balance"`
}

// --- Handlers ---

// OfferService handles POST /api/v1/services
func (h *MarketplaceHandler) OfferService(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req OfferServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.OfferInput{
		FreelancerID: middleware.CallerIDFromContext(r.Context()),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	}

	svc, err := h.service.Offer(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: svc})
}

// ListServices handles GET /api/v1/services
func (h *MarketplaceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	filter := repository.ServiceFilter{
		FreelancerID: r.URL.Query().Get("freelancer"),
		ClientID:     r.URL.Query().Get("client"),
		Status:       r.URL.Query().Get("status"),
		Page:         params.Page,
		PerPage:      params.PerPage,
	}

	services, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(services, total, params.Page, params.PerPage))
}

// CountServices handles GET /api/v1/services/count
func (h *MarketplaceHandler) CountServices(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CountResponse{Count: count}})
}

// GetService handles GET /api/v1/services/{id}
func (h *MarketplaceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	svc, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: svc})
}

// HireService handles POST /api/v1/services/{id}/hire
func (h *MarketplaceHandler) HireService(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req HireServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	svc, err := h.service.Hire(r.Context(), id, middleware.CallerIDFromContext(r.Context()), req.Amount)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: svc})
}

// ReleasePayment handles POST /api/v1/services/{id}/release
func (h *MarketplaceHandler) ReleasePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	svc, err := h.service.ReleasePayment(r.Context(), id, middleware.CallerIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: svc})
}

// RefundClient handles POST /api/v1/services/{id}/refund
func (h *MarketplaceHandler) RefundClient(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	svc, err := h.service.RefundClient(r.Context(), id, middleware.CallerIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: svc})
}

// RateService handles POST /api/v1/services/{id}/rating
func (h *MarketplaceHandler) RateService(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req RateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	svc, err := h.service.Rate(r.Context(), id, middleware.CallerIDFromContext(r.Context()), req.Rating)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: svc})
}

// GetEscrowBalance handles GET /api/v1/services/{id}/escrow
func (h *MarketplaceHandler) GetEscrowBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	balance, err := h.service.EscrowBalance(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: EscrowBalanceResponse{ServiceID: id, Balance: balance}})
}

// GetRatingSummary handles GET /api/v1/freelancers/{id}/rating
func (h *MarketplaceHandler) GetRatingSummary(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "id")
	if freelancerID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "freelancer id is required"},
		})
		return
	}

	summary, err := h.service.RatingSummary(r.Context(), freelancerID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}
