package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/checkout/internal/infrastructure/auth"
	"github.com/erp/checkout/internal/infrastructure/config"
	"github.com/erp/checkout/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(mw...)
	r.Any("/t", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant":     GetTenantID(c),
			"user":       GetUserID(c),
			"request_id": GetRequestID(c),
		})
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestRequestID(t *testing.T) {
	r := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Contains(t, w.Body.String(), `"request_id":"abc-123"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req = httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	w = serve(r, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS(CORSConfig{
		AllowOrigins:     []string{"https://app.example.com"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/t", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := serve(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Access-Control-Allow-Methods"))
	})
}

func TestSecure(t *testing.T) {
	w := serve(newEngine(Secure(true)), httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	w = serve(newEngine(Secure(false)), httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(BodyLimit(8))

	w := serve(r, httptest.NewRequest(http.MethodPost, "/t", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodePayloadTooLarge, decodeError(t, w).Code)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/t", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth(t *testing.T) {
	verifier := auth.NewVerifier(config.JWTConfig{Enabled: true, Secret: "test-secret", Issuer: "identity"})
	r := newEngine(Auth(verifier, nil))

	t.Run("valid token", func(t *testing.T) {
		token, err := verifier.Issue("tenant-1", "user-9", time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"tenant":"tenant-1"`)
		assert.Contains(t, w.Body.String(), `"user":"user-9"`)
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, w).Code)
		assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := verifier.Issue("tenant-1", "", -time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, decodeError(t, w).Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/t", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		w := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Code)
	})
}

func TestTenantAllowed(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, TenantAllowed(c, "anything"))

	c.Set(TenantIDKey, "tenant-1")
	assert.True(t, TenantAllowed(c, " tenant-1 "))
	assert.False(t, TenantAllowed(c, "tenant-2"))
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(NewRateLimiter(2, time.Minute)))

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrCodeRateLimited, decodeError(t, w).Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))

	rl.evict(time.Now().Add(time.Minute))
	assert.Empty(t, rl.buckets)
	assert.True(t, rl.Allow("a"))
}

func TestSwaggerProtection(t *testing.T) {
	w := serve(newEngine(SwaggerProtection(false, nil)), httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// httptest requests come from 192.0.2.1
	w = serve(newEngine(SwaggerProtection(true, []string{"10.0.0.0/8"})), httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(newEngine(SwaggerProtection(true, []string{"192.0.2.1"})), httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()

	type body struct {
		TenantID string `json:"tenantId" binding:"required"`
	}
	r := gin.New()
	r.Use(RequestID())
	r.POST("/v", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/v", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "tenantId", resp.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Details[0].Message)

	w = serve(r, httptest.NewRequest(http.MethodPost, "/v", strings.NewReader(`{`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Malformed request body")
}

func TestCodeValidators(t *testing.T) {
	SetupValidator()

	type body struct {
		Currency string `json:"currency" binding:"required,currency"`
		Country  string `json:"country" binding:"omitempty,iso2"`
	}
	r := gin.New()
	r.POST("/v", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"upper currency", `{"currency":"USD"}`, http.StatusOK},
		{"lower currency and country", `{"currency":"inr","country":"in"}`, http.StatusOK},
		{"currency too long", `{"currency":"USDT"}`, http.StatusBadRequest},
		{"currency with digits", `{"currency":"U5D"}`, http.StatusBadRequest},
		{"country too long", `{"currency":"USD","country":"IND"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(http.MethodPost, "/v", strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}
