package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- Helpers ---

func corsHandler(cfg CORSConfig) http.Handler {
	return CORS(cfg)(okHandler())
}

func preflightRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	return req
}

// --- Tests ---

func TestCORS_PreflightAdvertisesPatch(t *testing.T) {
	handler := corsHandler(CORSConfig{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, preflightRequest("https://orders.example.com"))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	// Default method list must cover the status-transition route.
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestCORS_PreflightDisallowedOrigin(t *testing.T) {
	handler := corsHandler(CORSConfig{AllowOrigins: []string{"https://orders.example.com"}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, preflightRequest("https://evil.example.net"))

	// Bare 204 without CORS headers: the browser blocks the call.
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_CredentialsEchoSpecificOrigin(t *testing.T) {
	handler := corsHandler(CORSConfig{
		AllowOrigins:     []string{"https://Orders.Example.com"},
		AllowCredentials: true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/orders/my", nil)
	req.Header.Set("Origin", "https://orders.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Credentials never pair with a wildcard; the configured spelling is
	// echoed even when the request's case differs.
	assert.Equal(t, "https://Orders.Example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Values("Vary"), "Origin")
}

func TestCORS_ActualRequestStampsHeaders(t *testing.T) {
	handler := corsHandler(CORSConfig{ExposeHeaders: []string{"X-Request-ID"}})

	req := httptest.NewRequest(http.MethodGet, "/api/lookups", nil)
	req.Header.Set("Origin", "https://orders.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Request-ID", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	handler := corsHandler(CORSConfig{AllowOrigins: []string{"https://orders.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/api/lookups", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
