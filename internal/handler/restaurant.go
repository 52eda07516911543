package handler

import (
	"net/http"
	"time"

	"github.com/shakehq/milkshake-api/internal/domain/restaurant"
)

type restaurantResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
	Active      bool   `json:"active"`
}

func toRestaurantResponse(r *restaurant.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:          r.ID,
		Name:        r.Name,
		Address:     r.Address,
		PhoneNumber: r.PhoneNumber,
		OpeningTime: r.OpeningTime.String(),
		ClosingTime: r.ClosingTime.String(),
		Active:      r.Active,
	}
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurants.ListActive(r.Context())
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	out := make([]restaurantResponse, 0, len(restaurants))
	for i := range restaurants {
		out = append(out, toRestaurantResponse(&restaurants[i]))
	}
	h.ok(w, "restaurants retrieved", out)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	rest, err := h.restaurants.Get(r.Context(), id)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "restaurant retrieved", toRestaurantResponse(rest))
}

type restaurantUpsertRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phoneNumber"`
	OpeningTime string `json:"openingTime"`
	ClosingTime string `json:"closingTime"`
}

func (h *Handler) parseUpsert(w http.ResponseWriter, r *http.Request) (restaurant.UpsertRequest, bool) {
	var req restaurantUpsertRequest
	if !h.decode(w, r, &req) {
		return restaurant.UpsertRequest{}, false
	}
	if req.Name == "" || req.Address == "" {
		h.fail(w, http.StatusBadRequest, "name and address are required")
		return restaurant.UpsertRequest{}, false
	}

	opening, err := restaurant.ParseClock(req.OpeningTime)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "openingTime: "+err.Error())
		return restaurant.UpsertRequest{}, false
	}
	closing, err := restaurant.ParseClock(req.ClosingTime)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "closingTime: "+err.Error())
		return restaurant.UpsertRequest{}, false
	}

	return restaurant.UpsertRequest{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		OpeningTime: opening,
		ClosingTime: closing,
	}, true
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseUpsert(w, r)
	if !ok {
		return
	}
	identity, _ := identityFrom(r.Context())

	rest, err := h.restaurants.Create(r.Context(), req, identity.UserID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.created(w, "restaurant created", toRestaurantResponse(rest))
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := h.parseUpsert(w, r)
	if !ok {
		return
	}
	identity, _ := identityFrom(r.Context())

	rest, err := h.restaurants.Update(r.Context(), id, req, identity.UserID)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "restaurant updated", toRestaurantResponse(rest))
}

type slotResponse struct {
	Time      time.Time `json:"time"`
	Display   string    `json:"display"`
	Available bool      `json:"available"`
}

// availableTimes returns the day's pickup slots. The date query parameter is
// YYYY-MM-DD and defaults to today.
func (h *Handler) availableTimes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	slots, err := h.availability.Slots(r.Context(), id, day)
	if err != nil {
		h.failErr(w, r, err)
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{Time: s.Time, Display: s.Display, Available: s.Available})
	}
	h.ok(w, "available times retrieved", out)
}
