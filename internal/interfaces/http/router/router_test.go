package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/erp/checkout/internal/application/billing"
	checkoutapp "github.com/erp/checkout/internal/application/checkout"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/reference"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/erp/checkout/internal/infrastructure/auth"
	"github.com/erp/checkout/internal/infrastructure/config"
	"github.com/erp/checkout/internal/interfaces/http/handler"
	"github.com/erp/checkout/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }).
		POST("/echo", func(c *gin.Context) { c.String(http.StatusOK, "echo") })
	NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v2/test/echo", nil))
	assert.Equal(t, "echo", w.Body.String())

	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test").
		Use(func(c *gin.Context) { c.Header("X-Group", "yes"); c.Next() }).
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	group.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
	assert.Equal(t, "yes", w.Header().Get("X-Group"))
}

type stubSessions struct{}

func (stubSessions) CreateSession(context.Context, checkoutapp.CreateSessionRequest) (*checkoutapp.CreateSessionResult, error) {
	return &checkoutapp.CreateSessionResult{OrderID: "order-1", Status: "PENDING"}, nil
}

func (stubSessions) GetSession(_ context.Context, orderID string) (*checkout.HostedCheckout, error) {
	return &checkout.HostedCheckout{OrderID: orderID, TenantID: "tenant-1", Status: checkout.SessionStatusPending}, nil
}

type stubStatus struct{}

func (stubStatus) CheckStatus(_ context.Context, req checkoutapp.StatusCheckRequest) (*checkoutapp.StatusCheckResult, error) {
	return &checkoutapp.StatusCheckResult{OrderID: req.OrderID, Status: checkout.PaymentStatusPending}, nil
}

type stubWebhooks struct{}

func (stubWebhooks) ApplyWebhook(context.Context, http.Header, []byte) *checkoutapp.WebhookResult {
	return &checkoutapp.WebhookResult{Accepted: false, Message: "invalid json"}
}

type stubDetails struct{}

func (stubDetails) GetBillingDetails(context.Context, string, string) (*billingapp.BillingDetails, error) {
	return &billingapp.BillingDetails{State: billingapp.ProfileStateNotFound, Message: billingapp.MsgProfileNotFound}, nil
}

type stubTransactions struct{}

func (stubTransactions) ListTransactions(context.Context, checkoutapp.TransactionQuery) (shared.Paginated[checkoutapp.TransactionView], error) {
	return shared.NewPaginated([]checkoutapp.TransactionView{}, 0, 0, 20), nil
}

type stubCountries struct{}

func (stubCountries) ListEnabled(context.Context) ([]reference.Country, error) {
	return []reference.Country{{ISOCode: "IN", Name: "India", Currency: "INR"}}, nil
}

func (stubCountries) GetByISOCode(context.Context, string) (*reference.Country, error) {
	return &reference.Country{ISOCode: "IN", Name: "India", Currency: "INR"}, nil
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func newTestEngine(t *testing.T) (*gin.Engine, *auth.Verifier) {
	t.Helper()
	verifier := auth.NewVerifier(config.JWTConfig{Enabled: true, Secret: "router-secret", Issuer: "identity"})
	engine, err := New(Config{
		ServiceName:    "checkout-test",
		MaxBodySize:    1 << 20,
		SwaggerEnabled: false,
		RateLimiter:    middleware.NewRateLimiter(100, time.Minute),
	}, Handlers{
		Checkout: handler.NewCheckoutHandler(stubSessions{}, stubStatus{}),
		Webhook:  handler.NewWebhookHandler(stubWebhooks{}, 1<<10),
		Billing:  handler.NewBillingHandler(stubDetails{}, stubTransactions{}),
		Country:  handler.NewCountryHandler(stubCountries{}),
		Health:   handler.NewHealthHandler(stubPinger{}, "test"),
	}, Deps{Verifier: verifier})
	require.NoError(t, err)
	return engine, verifier
}

func serve(engine http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNew_Routes(t *testing.T) {
	engine, verifier := newTestEngine(t)
	token, err := verifier.Issue("tenant-1", "user-1", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"versioned health", http.MethodGet, "/api/v1/health", "", "", http.StatusOK},
		{"countries are public", http.MethodGet, "/api/v1/countries", "", "", http.StatusOK},
		{"country by code", http.MethodGet, "/api/v1/countries/IN", "", "", http.StatusOK},
		{"webhook needs no token", http.MethodPost, "/api/v1/webhooks/payments", "", "not json", http.StatusOK},
		{"checkout needs a token", http.MethodPost, "/api/v1/checkout/hosted-pages", "", `{}`, http.StatusUnauthorized},
		{"billing needs a token", http.MethodGet, "/api/v1/billing/details?tenantId=tenant-1&billingId=b", "", "", http.StatusUnauthorized},
		{"create", http.MethodPost, "/api/v1/checkout/hosted-pages", token,
			`{"tenantId":"tenant-1","billingId":"b","planCode":"PRO-M","currency":"USD"}`, http.StatusCreated},
		{"create for another tenant", http.MethodPost, "/api/v1/checkout/hosted-pages", token,
			`{"tenantId":"tenant-2","billingId":"b","planCode":"PRO-M","currency":"USD"}`, http.StatusForbidden},
		{"session", http.MethodGet, "/api/v1/checkout/sessions/order-1", token, "", http.StatusOK},
		{"status", http.MethodPost, "/api/v1/checkout/status", token, `{"orderId":"order-1"}`, http.StatusOK},
		{"local status", http.MethodPost, "/api/v1/checkout/status/local", token, `{"orderId":"order-1"}`, http.StatusOK},
		{"billing details", http.MethodGet, "/api/v1/billing/details?tenantId=tenant-1&billingId=b", token, "", http.StatusOK},
		{"transactions", http.MethodGet, "/api/v1/billing/transactions?tenantId=tenant-1&billingId=b", token, "", http.StatusOK},
		{"swagger disabled", http.MethodGet, "/swagger/index.html", "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(engine, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNew_WebhookReturnsRawResult(t *testing.T) {
	engine, _ := newTestEngine(t)
	w := serve(engine, http.MethodPost, "/api/v1/webhooks/payments", "", "{")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accepted":false,"message":"invalid json"}`, w.Body.String())
}

func TestNew_WithoutVerifierSkipsAuth(t *testing.T) {
	engine, err := New(Config{}, Handlers{
		Checkout: handler.NewCheckoutHandler(stubSessions{}, stubStatus{}),
		Webhook:  handler.NewWebhookHandler(stubWebhooks{}, 0),
		Billing:  handler.NewBillingHandler(stubDetails{}, stubTransactions{}),
		Country:  handler.NewCountryHandler(stubCountries{}),
		Health:   handler.NewHealthHandler(stubPinger{}, ""),
	}, Deps{})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/api/v1/checkout/sessions/order-1", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
