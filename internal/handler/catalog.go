package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shakehq/milkshake-api/internal/domain/catalog"
)

type lookupResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toLookupResponse(item *catalog.Item) lookupResponse {
	return lookupResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    string(item.Category),
		Price:       item.Price,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func (h *Handler) listLookups(w http.ResponseWriter, r *http.Request) {
	category := catalog.Category(r.URL.Query().Get("type"))
	items, err := h.catalog.List(r.Context(), category)
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	out := make([]lookupResponse, 0, len(items))
	for i := range items {
		out = append(out, toLookupResponse(&items[i]))
	}
	h.ok(w, "lookups retrieved", out)
}

type lookupUpsertRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

func (h *Handler) createLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupUpsertRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		h.fail(w, http.StatusBadRequest, "name is required")
		return
	}

	identity, _ := identityFrom(r.Context())
	item, err := h.catalog.Create(r.Context(), catalog.CreateRequest{
		Name:        req.Name,
		Category:    catalog.Category(req.Category),
		Price:       req.Price,
		Description: req.Description,
	}, identity.UserID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.created(w, "lookup created", toLookupResponse(item))
}

func (h *Handler) updateLookup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req lookupUpsertRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, _ := identityFrom(r.Context())
	item, err := h.catalog.Update(r.Context(), id, catalog.UpdateRequest{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
	}, identity.UserID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "lookup updated", toLookupResponse(item))
}

func (h *Handler) deleteLookup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	identity, _ := identityFrom(r.Context())
	if err := h.catalog.Delete(r.Context(), id, identity.UserID); err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "lookup deleted", nil)
}
