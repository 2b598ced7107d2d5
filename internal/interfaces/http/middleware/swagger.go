package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/erp/checkout/internal/interfaces/http/dto"
)

// SwaggerProtection hides the API docs when disabled and restricts them to
// allowedIPs (single addresses or CIDRs) when any are configured
func SwaggerProtection(enabled bool, allowedIPs []string) gin.HandlerFunc {
	var nets []*net.IPNet
	for _, entry := range allowedIPs {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			if ip := net.ParseIP(entry); ip != nil {
				bits := 32
				if ip.To4() == nil {
					bits = 128
				}
				entry = entry + "/" + strconv.Itoa(bits)
			}
		}
		if _, n, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, n)
		}
	}

	return func(c *gin.Context) {
		if !enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}
		if len(allowedIPs) > 0 && !ipAllowed(net.ParseIP(c.ClientIP()), nets) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeForbidden, "Access to API documentation is restricted", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
