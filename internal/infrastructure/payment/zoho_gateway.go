package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/erp/checkout/internal/domain/checkout"
)

const (
	// GatewayZohoBilling is the registry name of the Zoho Billing adapter
	GatewayZohoBilling = checkout.DefaultProvider

	zohoNewSubscriptionPath = "/hostedpages/newsubscription"
	zohoHostedPagePath      = "/hostedpages/%s"
	zohoTokenPath           = "/oauth/v2/token"
	zohoOrganizationHeader  = "X-com-zoho-subscriptions-organizationid"

	// tokens are refreshed this long before Zoho says they expire
	zohoTokenRefreshMargin = 60 * time.Second
)

// ZohoBillingGateway implements checkout.PaymentGateway against Zoho Billing
// hosted pages
type ZohoBillingGateway struct {
	config *ZohoConfig
	client *retryablehttp.Client
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewZohoBillingGateway creates a new Zoho Billing adapter
func NewZohoBillingGateway(config *ZohoConfig, logger *zap.Logger) (*ZohoBillingGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = config.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = config.Timeout
	client.Logger = leveledZap{logger.Sugar().Named("zoho")}
	// hand the final response back instead of a "giving up" error so the
	// status code can be classified
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.CheckRetry = zohoRetryPolicy

	return &ZohoBillingGateway{
		config: config,
		client: client,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Name returns the registry name
func (g *ZohoBillingGateway) Name() string {
	return GatewayZohoBilling
}

// CreateHostedPage opens a new-subscription hosted page
func (g *ZohoBillingGateway) CreateHostedPage(ctx context.Context, payload map[string]any) (*checkout.HostedPageResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("zoho: failed to marshal request: %w", err)
	}
	// Zoho may have opened the page before failing; only a request that never
	// got an answer is sent again
	raw, page, err := g.call(withoutResponseRetry(ctx), http.MethodPost, zohoNewSubscriptionPath, body)
	if err != nil {
		return nil, err
	}
	g.logger.Info("Created Zoho hosted page",
		zap.String("hostedpage_id", page.HostedPageID),
		zap.String("status", page.Status))
	return &checkout.HostedPageResult{
		HostedPageID:          page.HostedPageID,
		DecryptedHostedPageID: page.DecryptedHostedPageID,
		Status:                page.Status,
		URL:                   page.URL,
		ExpiringTime:          page.ExpiringTime,
		RawJSON:               raw,
	}, nil
}

// GetHostedPageStatus fetches the current state of a hosted page
func (g *ZohoBillingGateway) GetHostedPageStatus(ctx context.Context, hostedPageID string) (*checkout.HostedPageStatusResult, error) {
	id := strings.TrimSpace(hostedPageID)
	if id == "" {
		return nil, fmt.Errorf("zoho: hosted page id is required: %w", checkout.ErrGatewayRequestFailed)
	}
	raw, page, err := g.call(ctx, http.MethodGet, fmt.Sprintf(zohoHostedPagePath, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	return &checkout.HostedPageStatusResult{
		Status:       page.Status,
		URL:          page.URL,
		ExpiringTime: page.ExpiringTime,
		RawJSON:      raw,
	}, nil
}

// call performs an authenticated API request and unwraps the hosted page.
// A 401 drops the cached token so the next call refreshes it.
func (g *ZohoBillingGateway) call(ctx context.Context, method, path string, body []byte) (string, *zohoHostedPage, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return "", nil, err
	}

	var rawBody any
	if body != nil {
		rawBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, g.config.APIBaseURL+path, rawBody)
	if err != nil {
		return "", nil, fmt.Errorf("zoho: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set(zohoOrganizationHeader, g.config.OrganizationID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	}

	respBody, status, err := g.do(req)
	if err != nil {
		return "", nil, err
	}
	if status == http.StatusUnauthorized {
		g.invalidateToken()
	}
	if err := classifyStatus(status, respBody); err != nil {
		return "", nil, err
	}

	var parsed zohoHostedPageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil, fmt.Errorf("zoho: failed to parse response: %v: %w", err, checkout.ErrGatewayRequestFailed)
	}
	if parsed.Code != 0 {
		return "", nil, fmt.Errorf("zoho: code %d: %s: %w", parsed.Code, parsed.Message, checkout.ErrGatewayRequestFailed)
	}
	if parsed.HostedPage == nil {
		return "", nil, fmt.Errorf("zoho: response has no hostedpage: %w", checkout.ErrGatewayRequestFailed)
	}
	return string(respBody), parsed.HostedPage, nil
}

func (g *ZohoBillingGateway) do(req *retryablehttp.Request) ([]byte, int, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("Zoho request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Path),
			zap.Error(err))
		return nil, 0, fmt.Errorf("zoho: %s %s: %v: %w", req.Method, req.URL.Path, err, checkout.ErrGatewayUnavailable)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("zoho: failed to read response: %v: %w", err, checkout.ErrGatewayUnavailable)
	}
	return respBody, resp.StatusCode, nil
}

type noResponseRetryKey struct{}

func withoutResponseRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noResponseRetryKey{}, true)
}

// zohoRetryPolicy is the default policy, except that requests marked with
// withoutResponseRetry are never retried once the server has answered
func zohoRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if only, _ := ctx.Value(noResponseRetryKey{}).(bool); only && err == nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// classifyStatus maps HTTP failures: 5xx and 429 mean the provider is
// unavailable, other non-2xx answers are request failures
func classifyStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	if status >= 500 || status == http.StatusTooManyRequests {
		return fmt.Errorf("zoho: HTTP %d: %s: %w", status, msg, checkout.ErrGatewayUnavailable)
	}
	return fmt.Errorf("zoho: HTTP %d: %s: %w", status, msg, checkout.ErrGatewayRequestFailed)
}

// accessToken returns the cached OAuth token, refreshing it when it is
// missing or about to expire
func (g *ZohoBillingGateway) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != "" && g.now().Before(g.tokenExpiry) {
		return g.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", g.config.RefreshToken)
	form.Set("client_id", g.config.ClientID)
	form.Set("client_secret", g.config.ClientSecret)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		g.config.AccountsURL+zohoTokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("zoho: failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	respBody, status, err := g.do(req)
	if err != nil {
		return "", err
	}
	if err := classifyStatus(status, respBody); err != nil {
		return "", err
	}

	var tok zohoTokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return "", fmt.Errorf("zoho: failed to parse token response: %v: %w", err, checkout.ErrGatewayRequestFailed)
	}
	if tok.Error != "" || tok.AccessToken == "" {
		return "", fmt.Errorf("zoho: token refresh rejected: %s: %w", tok.Error, checkout.ErrGatewayRequestFailed)
	}

	ttl := time.Duration(tok.ExpiresIn)*time.Second - zohoTokenRefreshMargin
	if ttl < 0 {
		ttl = 0
	}
	g.token = tok.AccessToken
	g.tokenExpiry = g.now().Add(ttl)
	g.logger.Debug("Refreshed Zoho access token", zap.Duration("ttl", ttl))
	return g.token, nil
}

func (g *ZohoBillingGateway) invalidateToken() {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
}

// leveledZap adapts a sugared zap logger to retryablehttp.LeveledLogger
type leveledZap struct {
	s *zap.SugaredLogger
}

func (l leveledZap) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledZap) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveledZap) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledZap) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
