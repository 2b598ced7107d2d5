package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/checkout/internal/infrastructure/auth"
	"github.com/erp/checkout/internal/infrastructure/logger"
	"github.com/erp/checkout/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey   = "auth_claims"
	TenantIDKey = "auth_tenant_id"
	UserIDKey   = "auth_user_id"

	bearerPrefix = "Bearer "
)

// TokenVerifier validates a bearer token
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth requires a valid bearer token and stores its tenant and user ids in
// the gin context
func Auth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || strings.TrimSpace(header[len(bearerPrefix):]) == "" {
			abortAuth(c, dto.ErrCodeUnauthorized, "Missing bearer token")
			return
		}

		claims, err := verifier.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			logger.Enrich(c.Request.Context(), log).Debug("Bearer token rejected", zap.Error(err))
			if errors.Is(err, auth.ErrExpiredToken) {
				abortAuth(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortAuth(c, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(TenantIDKey, claims.TenantID)
		if claims.UserID != "" {
			c.Set(UserIDKey, claims.UserID)
		}
		c.Next()
	}
}

func abortAuth(c *gin.Context, code, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="checkout"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetTenantID returns the authenticated tenant, empty when auth is disabled
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetUserID returns the authenticated user, if the token carried one
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// TenantAllowed reports whether the caller may act for tenantID. Requests
// without an authenticated tenant are allowed.
func TenantAllowed(c *gin.Context, tenantID string) bool {
	authTenant := GetTenantID(c)
	return authTenant == "" || authTenant == strings.TrimSpace(tenantID)
}
