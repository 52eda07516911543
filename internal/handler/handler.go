// Package handler implements the HTTP layer: JSON endpoints returning the
// uniform {success, message, data, errors} envelope.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/shakehq/milkshake-api/internal/domain/audit"
	"github.com/shakehq/milkshake-api/internal/domain/auth"
	"github.com/shakehq/milkshake-api/internal/domain/catalog"
	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/discount"
	"github.com/shakehq/milkshake-api/internal/domain/order"
	"github.com/shakehq/milkshake-api/internal/domain/payment"
	"github.com/shakehq/milkshake-api/internal/domain/report"
	"github.com/shakehq/milkshake-api/internal/domain/restaurant"
	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

// Handler carries the domain services behind the HTTP endpoints.
type Handler struct {
	auth         *auth.Service
	catalog      *catalog.Service
	restaurants  *restaurant.Service
	availability *restaurant.Availability
	orders       *order.Service
	discounts    *discount.Service
	engine       *discount.Engine
	payments     *payment.Service
	reports      *report.Service
	configs      *runtimeconfig.Service
	audits       audit.Repository
}

// New creates a Handler over the given services.
func New(
	authSvc *auth.Service,
	catalogSvc *catalog.Service,
	restaurantSvc *restaurant.Service,
	availability *restaurant.Availability,
	orderSvc *order.Service,
	discountSvc *discount.Service,
	engine *discount.Engine,
	paymentSvc *payment.Service,
	reportSvc *report.Service,
	configSvc *runtimeconfig.Service,
	audits audit.Repository,
) *Handler {
	return &Handler{
		auth:         authSvc,
		catalog:      catalogSvc,
		restaurants:  restaurantSvc,
		availability: availability,
		orders:       orderSvc,
		discounts:    discountSvc,
		engine:       engine,
		payments:     paymentSvc,
		reports:      reportSvc,
		configs:      configSvc,
		audits:       audits,
	}
}

// envelope is the uniform response body for every endpoint.
type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handler) ok(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func (h *Handler) created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message, Errors: []string{message}})
}

// failErr maps a domain error onto an HTTP status and envelope. Unexpected
// errors are logged and hidden behind a generic message.
func (h *Handler) failErr(w http.ResponseWriter, r *http.Request, err error) {
	if status, ok := statusFor(err); ok {
		h.fail(w, status, err.Error())
		return
	}
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	h.fail(w, http.StatusInternalServerError, "an unexpected error occurred")
}

// statusFor classifies known domain errors. Unknown errors report !ok and are
// treated as internal.
func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, restaurant.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, discount.ErrTierNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, runtimeconfig.ErrNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrBadToken):
		return http.StatusUnauthorized, true

	case errors.Is(err, order.ErrSlotFull):
		return http.StatusConflict, true

	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, catalog.ErrDuplicateName),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, restaurant.ErrInvalidHours),
		errors.Is(err, restaurant.ErrBadClock),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, order.ErrTooManyDrinks),
		errors.Is(err, order.ErrPastPickup),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, discount.ErrNegativeTierValue),
		errors.Is(err, runtimeconfig.ErrInvalidValue):
		return http.StatusBadRequest, true
	}
	return 0, false
}

// decode parses the JSON request body into dst, reporting a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.fail(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} path segment, reporting a 400 on failure.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		h.fail(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
