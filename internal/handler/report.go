package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/audit"
	"github.com/shakehq/milkshake-api/internal/domain/report"
)

type ordersReportRequest struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	PaymentStatus string `json:"paymentStatus"`
	OrderStatus   string `json:"orderStatus"`
	RestaurantID  *int64 `json:"restaurantId"`
	Page          int    `json:"page"`
	PageSize      int    `json:"pageSize"`
}

type reportRowResponse struct {
	OrderID        int64           `json:"orderId"`
	OrderDate      time.Time       `json:"orderDate"`
	CustomerName   string          `json:"customerName"`
	RestaurantName string          `json:"restaurantName"`
	NumberOfDrinks int             `json:"numberOfDrinks"`
	TotalCost      decimal.Decimal `json:"totalCost"`
	PaymentStatus  string          `json:"paymentStatus"`
	OrderStatus    string          `json:"orderStatus"`
}

type ordersReportResponse struct {
	Rows         []reportRowResponse `json:"rows"`
	TotalRecords int                 `json:"totalRecords"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"pageSize"`
	TotalPages   int                 `json:"totalPages"`
}

func (h *Handler) ordersReport(w http.ResponseWriter, r *http.Request) {
	var req ordersReportRequest
	if !h.decode(w, r, &req) {
		return
	}

	f := report.Filter{
		PaymentStatus: req.PaymentStatus,
		OrderStatus:   req.OrderStatus,
		RestaurantID:  req.RestaurantID,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if req.StartDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
			return
		}
		f.StartDate = &t
	}
	if req.EndDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
			return
		}
		// End date is inclusive: filter up to the start of the next day.
		end := t.AddDate(0, 0, 1)
		f.EndDate = &end
	}

	paged, err := h.reports.Orders(r.Context(), f)
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	rows := make([]reportRowResponse, 0, len(paged.Rows))
	for _, row := range paged.Rows {
		rows = append(rows, reportRowResponse{
			OrderID:        row.OrderID,
			OrderDate:      row.OrderDate,
			CustomerName:   row.CustomerName,
			RestaurantName: row.RestaurantName,
			NumberOfDrinks: row.NumberOfDrinks,
			TotalCost:      row.TotalCost,
			PaymentStatus:  row.PaymentStatus,
			OrderStatus:    row.OrderStatus,
		})
	}
	h.ok(w, "report generated", ordersReportResponse{
		Rows:         rows,
		TotalRecords: paged.TotalRecords,
		Page:         paged.Page,
		PageSize:     paged.PageSize,
		TotalPages:   paged.TotalPages,
	})
}

type trendPointResponse struct {
	Label      string          `json:"label"`
	OrderCount int             `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}

func (h *Handler) weeklyTrend(w http.ResponseWriter, r *http.Request) {
	points, err := h.reports.WeeklyTrend(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	out := make([]trendPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, trendPointResponse{Label: p.Label, OrderCount: p.OrderCount, Revenue: p.Revenue})
	}
	h.ok(w, "weekly trend retrieved", out)
}

type dashboardResponse struct {
	TodayOrders         int             `json:"todayOrders"`
	TodayOrdersChange   int             `json:"todayOrdersChange"`
	TodayRevenue        decimal.Decimal `json:"todayRevenue"`
	TodayRevenueChange  decimal.Decimal `json:"todayRevenueChange"`
	PopularFlavour      string          `json:"popularFlavour"`
	PopularFlavourCount int             `json:"popularFlavourCount"`
	PendingOrders       int             `json:"pendingOrders"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Dashboard(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "dashboard retrieved", dashboardResponse{
		TodayOrders:         stats.TodayOrders,
		TodayOrdersChange:   stats.TodayOrdersChange,
		TodayRevenue:        stats.TodayRevenue,
		TodayRevenueChange:  stats.TodayRevenueChange,
		PopularFlavour:      stats.PopularFlavour,
		PopularFlavourCount: stats.PopularFlavourCount,
		PendingOrders:       stats.PendingOrders,
	})
}

type auditEntryResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	EntityType string    `json:"entityType"`
	EntityID   int64     `json:"entityId"`
	Action     string    `json:"action"`
	Field      string    `json:"field,omitempty"`
	OldValue   string    `json:"oldValue,omitempty"`
	NewValue   string    `json:"newValue,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (h *Handler) recentAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			h.fail(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	entries, err := h.audits.Recent(r.Context(), limit)
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toAuditEntryResponse(e))
	}
	h.ok(w, "audit entries retrieved", out)
}

func toAuditEntryResponse(e audit.Entry) auditEntryResponse {
	return auditEntryResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Field:      e.Field,
		OldValue:   e.OldValue,
		NewValue:   e.NewValue,
		CreatedAt:  e.CreatedAt,
	}
}
