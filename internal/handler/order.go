package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/order"
	"github.com/shakehq/milkshake-api/internal/domain/pricing"
)

type orderItemResponse struct {
	FlavourID        int64           `json:"flavourId"`
	FlavourName      string          `json:"flavourName"`
	FlavourPrice     decimal.Decimal `json:"flavourPrice"`
	ToppingID        int64           `json:"toppingId"`
	ToppingName      string          `json:"toppingName"`
	ToppingPrice     decimal.Decimal `json:"toppingPrice"`
	ConsistencyID    int64           `json:"consistencyId"`
	ConsistencyName  string          `json:"consistencyName"`
	ConsistencyPrice decimal.Decimal `json:"consistencyPrice"`
	ItemTotal        decimal.Decimal `json:"itemTotal"`
}

type orderResponse struct {
	ID                  int64               `json:"id"`
	CustomerID          int64               `json:"customerId"`
	CustomerName        string              `json:"customerName"`
	CustomerEmail       string              `json:"customerEmail"`
	RestaurantID        int64               `json:"restaurantId"`
	RestaurantName      string              `json:"restaurantName"`
	RestaurantAddress   string              `json:"restaurantAddress"`
	OrderDate           time.Time           `json:"orderDate"`
	PickupTime          time.Time           `json:"pickupTime"`
	NumberOfDrinks      int                 `json:"numberOfDrinks"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	VATPercentage       decimal.Decimal     `json:"vatPercentage"`
	VAT                 decimal.Decimal     `json:"vat"`
	DiscountTierApplied int                 `json:"discountTierApplied"`
	DiscountTierName    string              `json:"discountTierName"`
	DiscountAmount      decimal.Decimal     `json:"discountAmount"`
	TotalCost           decimal.Decimal     `json:"totalCost"`
	PaymentStatus       string              `json:"paymentStatus"`
	OrderStatus         string              `json:"orderStatus"`
	CompletedAt         *time.Time          `json:"completedAt,omitempty"`
	CancelledAt         *time.Time          `json:"cancelledAt,omitempty"`
	Items               []orderItemResponse `json:"items"`
}

func toOrderResponse(d *order.Detail) orderResponse {
	items := make([]orderItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, orderItemResponse{
			FlavourID:        it.FlavourID,
			FlavourName:      it.FlavourName,
			FlavourPrice:     it.FlavourPrice,
			ToppingID:        it.ToppingID,
			ToppingName:      it.ToppingName,
			ToppingPrice:     it.ToppingPrice,
			ConsistencyID:    it.ConsistencyID,
			ConsistencyName:  it.ConsistencyName,
			ConsistencyPrice: it.ConsistencyPrice,
			ItemTotal:        it.ItemTotal,
		})
	}
	return orderResponse{
		ID:                  d.ID,
		CustomerID:          d.CustomerID,
		CustomerName:        d.CustomerName,
		CustomerEmail:       d.CustomerEmail,
		RestaurantID:        d.RestaurantID,
		RestaurantName:      d.RestaurantName,
		RestaurantAddress:   d.RestaurantAddress,
		OrderDate:           d.OrderDate,
		PickupTime:          d.PickupTime,
		NumberOfDrinks:      d.NumberOfDrinks,
		Subtotal:            d.Subtotal,
		VATPercentage:       d.VATPercentage,
		VAT:                 d.VAT,
		DiscountTierApplied: d.DiscountTierApplied,
		DiscountTierName:    d.DiscountTierName,
		DiscountAmount:      d.DiscountAmount,
		TotalCost:           d.TotalCost,
		PaymentStatus:       string(d.PaymentStatus),
		OrderStatus:         string(d.OrderStatus),
		CompletedAt:         d.CompletedAt,
		CancelledAt:         d.CancelledAt,
		Items:               items,
	}
}

type placeOrderItem struct {
	FlavourID     int64 `json:"flavourId"`
	ToppingID     int64 `json:"toppingId"`
	ConsistencyID int64 `json:"consistencyId"`
}

type placeOrderRequest struct {
	RestaurantID int64            `json:"restaurantId"`
	PickupTime   time.Time        `json:"pickupTime"`
	Items        []placeOrderItem `json:"items"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	identity, _ := identityFrom(r.Context())

	items := make([]pricing.DrinkSelection, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, pricing.DrinkSelection{
			FlavourID:     it.FlavourID,
			ToppingID:     it.ToppingID,
			ConsistencyID: it.ConsistencyID,
		})
	}

	detail, err := h.orders.Place(r.Context(), order.PlaceOrderRequest{
		CustomerID:   identity.UserID,
		RestaurantID: req.RestaurantID,
		PickupTime:   req.PickupTime,
		Items:        items,
	})
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.created(w, "order placed", toOrderResponse(detail))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	identity, _ := identityFrom(r.Context())
	if identity.Role != customer.RoleAdmin && identity.UserID != detail.CustomerID {
		h.fail(w, http.StatusForbidden, "not your order")
		return
	}
	h.ok(w, "order retrieved", toOrderResponse(detail))
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	details, err := h.orders.ListByCustomer(r.Context(), identity.UserID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "orders retrieved", toOrderResponses(details))
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	details, err := h.orders.ListAll(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "orders retrieved", toOrderResponses(details))
}

func toOrderResponses(details []order.Detail) []orderResponse {
	out := make([]orderResponse, 0, len(details))
	for i := range details {
		out = append(out, toOrderResponse(&details[i]))
	}
	return out
}

type updateOrderStatusRequest struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.orders.UpdateStatus(r.Context(), id, order.UpdateStatusRequest{
		OrderStatus:   order.Status(req.OrderStatus),
		PaymentStatus: order.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	detail, err := h.orders.Get(r.Context(), id)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "order status updated", toOrderResponse(detail))
}
