package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pricecraft/backend/internal/infrastructure/config"
)

// SwaggerProtection guards the API documentation endpoints. When disabled
// the routes respond 404 so the docs are invisible in production. An IP
// allowlist accepts plain addresses and CIDR ranges.
func SwaggerProtection(cfg config.SwaggerConfig, log *zap.Logger) gin.HandlerFunc {
	allowedNets := parseAllowedNetworks(cfg.AllowedIPs, log)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		if len(allowedNets) > 0 {
			clientIP := net.ParseIP(c.ClientIP())
			if clientIP == nil || !ipAllowed(clientIP, allowedNets) {
				if log != nil {
					log.Warn("Swagger access denied",
						zap.String("client_ip", c.ClientIP()))
				}
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
		}

		c.Next()
	}
}

func parseAllowedNetworks(entries []string, log *zap.Logger) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			// a bare address becomes a single-host network
			if ip := net.ParseIP(entry); ip != nil {
				if ip.To4() != nil {
					entry += "/32"
				} else {
					entry += "/128"
				}
			}
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			if log != nil {
				log.Warn("Invalid swagger allowlist entry",
					zap.String("entry", entry),
					zap.Error(err))
			}
			continue
		}
		nets = append(nets, ipNet)
	}
	return nets
}

func ipAllowed(ip net.IP, nets []*net.IPNet) bool {
	for _, n := range nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
