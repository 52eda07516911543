package handler

import (
	"net/http"

	"github.com/shakehq/milkshake-api/internal/domain/auth"
)

type registerRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
	Role         string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token            string `json:"token"`
	UserID           int64  `json:"userId"`
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	DiscountTier     int    `json:"discountTier"`
	DiscountTierName string `json:"discountTierName"`
}

func toSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		Token:            s.Token,
		UserID:           s.UserID,
		FullName:         s.FullName,
		Email:            s.Email,
		Role:             s.Role,
		DiscountTier:     s.DiscountTier,
		DiscountTierName: s.DiscountTierName,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		h.fail(w, http.StatusBadRequest, "fullName, email and password are required")
		return
	}

	session, err := h.auth.Register(r.Context(), auth.RegisterRequest{
		FullName:     req.FullName,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		Role:         req.Role,
	})
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.created(w, "registration successful", toSessionResponse(session))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.failErr(w, r, err)
		return
	}
	h.ok(w, "login successful", toSessionResponse(session))
}
