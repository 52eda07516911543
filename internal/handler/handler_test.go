package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goerrors "github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakehq/milkshake-api/internal/domain/auth"
	"github.com/shakehq/milkshake-api/internal/domain/catalog"
	"github.com/shakehq/milkshake-api/internal/domain/customer"
	"github.com/shakehq/milkshake-api/internal/domain/order"
	"github.com/shakehq/milkshake-api/internal/runtimeconfig"
)

// --- Helpers ---

var testSecret = []byte("test-secret")

func newTestHandler() *Handler {
	return &Handler{auth: auth.NewService(nil, nil, testSecret)}
}

func mintToken(t *testing.T, userID int64, role string) string {
	t.Helper()
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: userID,
		Role:   role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// --- Tests ---

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "catalog not found", err: catalog.ErrNotFound, want: http.StatusNotFound},
		{name: "order not found", err: order.ErrNotFound, want: http.StatusNotFound},
		{name: "bad credentials", err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "slot full", err: order.ErrSlotFull, want: http.StatusConflict},
		{name: "weak password", err: auth.ErrWeakPassword, want: http.StatusBadRequest},
		{name: "invalid transition", err: order.ErrInvalidTransition, want: http.StatusBadRequest},
		{name: "invalid config value", err: runtimeconfig.ErrInvalidValue, want: http.StatusBadRequest},
		{
			name: "wrapped sentinel",
			err:  goerrors.Wrap(order.ErrSlotFull, "place order"),
			want: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := statusFor(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestStatusFor_UnknownError(t *testing.T) {
	_, ok := statusFor(goerrors.New("disk on fire"))
	assert.False(t, ok)
}

func TestEnvelope_OK(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()

	h.ok(rec, "fetched", map[string]int{"count": 3})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, "fetched", body.Message)
	assert.NotNil(t, body.Data)
	assert.Empty(t, body.Errors)
}

func TestEnvelope_Fail(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()

	h.fail(rec, http.StatusBadRequest, "invalid request body")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "invalid request body", body.Message)
	assert.Equal(t, []string{"invalid request body"}, body.Errors)
	assert.Nil(t, body.Data)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/my", nil)

	called := false
	h.requireAuth(func(http.ResponseWriter, *http.Request) { called = true })(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuth_BadToken(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/my", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	called := false
	h.requireAuth(func(http.ResponseWriter, *http.Request) { called = true })(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireAuth_InjectsIdentity(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/my", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 7, customer.RoleCustomer))

	var got *auth.Identity
	h.requireAuth(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = identityFrom(r.Context())
	})(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, customer.RoleCustomer, got.Role)
}

func TestRequireAdmin_ForbidsCustomers(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 7, customer.RoleCustomer))

	called := false
	h.requireAdmin(func(http.ResponseWriter, *http.Request) { called = true })(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireAdmin_AllowsAdmins(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, 1, customer.RoleAdmin))

	called := false
	h.requireAdmin(func(http.ResponseWriter, *http.Request) { called = true })(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestPathID(t *testing.T) {
	h := newTestHandler()

	mux := http.NewServeMux()
	var got int64
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.pathID(w, r, "id")
		if !ok {
			return
		}
		got = id
		h.ok(w, "ok", nil)
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), got)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
