package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/customer"
)

type processPaymentRequest struct {
	OrderID int64           `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
}

type processPaymentResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	RedirectURL   string `json:"redirectUrl"`
}

func (h *Handler) processPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.OrderID <= 0 {
		h.fail(w, http.StatusBadRequest, "orderId is required")
		return
	}

	identity, _ := identityFrom(r.Context())
	detail, err := h.orders.Get(r.Context(), req.OrderID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	if identity.Role != customer.RoleAdmin && identity.UserID != detail.CustomerID {
		h.fail(w, http.StatusForbidden, "not your order")
		return
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = detail.TotalCost
	}

	result, err := h.payments.Process(r.Context(), req.OrderID, amount)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.created(w, "payment processed", processPaymentResponse{
		TransactionID: result.TransactionID,
		Status:        result.Status,
		RedirectURL:   result.RedirectURL,
	})
}

type verifyPaymentResponse struct {
	TransactionID string `json:"transactionId"`
	Completed     bool   `json:"completed"`
}

func (h *Handler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	txn := r.PathValue("txn")
	if txn == "" {
		h.fail(w, http.StatusBadRequest, "transaction id is required")
		return
	}

	completed, err := h.payments.Verify(r.Context(), txn)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "payment status retrieved", verifyPaymentResponse{
		TransactionID: txn,
		Completed:     completed,
	})
}
