package handler

import "net/http"

// Register attaches every API route to the mux. Method patterns require
// Go 1.22 mux semantics.
func (h *Handler) Register(mux *http.ServeMux) {
	// Auth.
	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)

	// Catalog lookups.
	mux.HandleFunc("GET /api/lookups", h.listLookups)
	mux.HandleFunc("POST /api/lookups", h.requireAdmin(h.createLookup))
	mux.HandleFunc("PUT /api/lookups/{id}", h.requireAdmin(h.updateLookup))
	mux.HandleFunc("DELETE /api/lookups/{id}", h.requireAdmin(h.deleteLookup))

	// Restaurants and pickup availability.
	mux.HandleFunc("GET /api/restaurants", h.listRestaurants)
	mux.HandleFunc("GET /api/restaurants/{id}", h.getRestaurant)
	mux.HandleFunc("POST /api/restaurants", h.requireAdmin(h.createRestaurant))
	mux.HandleFunc("PUT /api/restaurants/{id}", h.requireAdmin(h.updateRestaurant))
	mux.HandleFunc("GET /api/restaurants/{id}/available-times", h.availableTimes)

	// Orders.
	mux.HandleFunc("POST /api/orders", h.requireAuth(h.placeOrder))
	mux.HandleFunc("GET /api/orders", h.requireAdmin(h.listAllOrders))
	mux.HandleFunc("GET /api/orders/my", h.requireAuth(h.listMyOrders))
	mux.HandleFunc("GET /api/orders/{id}", h.requireAuth(h.getOrder))
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.requireAdmin(h.updateOrderStatus))

	// Discounts.
	mux.HandleFunc("POST /api/discounts/calculate", h.requireAuth(h.calculateDiscount))
	mux.HandleFunc("GET /api/discounts/tiers", h.listTiers)
	mux.HandleFunc("PUT /api/discounts/tiers/{id}", h.requireAdmin(h.updateTier))
	mux.HandleFunc("GET /api/discounts/customers/{id}", h.requireAuth(h.customerDiscountInfo))

	// Payments.
	mux.HandleFunc("POST /api/payments", h.requireAuth(h.processPayment))
	mux.HandleFunc("GET /api/payments/{txn}/verify", h.requireAuth(h.verifyPayment))

	// Admin: runtime configuration, reports, audit trail.
	mux.HandleFunc("GET /api/configs", h.requireAdmin(h.listConfigs))
	mux.HandleFunc("PUT /api/configs/{key}", h.requireAdmin(h.updateConfig))
	mux.HandleFunc("POST /api/reports/orders", h.requireAdmin(h.ordersReport))
	mux.HandleFunc("GET /api/reports/trends/weekly", h.requireAdmin(h.weeklyTrend))
	mux.HandleFunc("GET /api/reports/dashboard", h.requireAdmin(h.dashboard))
	mux.HandleFunc("GET /api/audit/recent", h.requireAdmin(h.recentAudit))
}
