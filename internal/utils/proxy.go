package utils

import (
	"fmt"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// TrustedProxies lists the networks whose forwarding headers are honoured.
// The zero value trusts nobody.
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies accepts IP addresses and CIDR ranges
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	var proxies TrustedProxies
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return TrustedProxies{}, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				bits = 32
			}
			entry = fmt.Sprintf("%s/%d", entry, bits)
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return TrustedProxies{}, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		proxies.nets = append(proxies.nets, network)
	}
	return proxies, nil
}

// Contains reports whether ip belongs to a trusted network
func (t TrustedProxies) Contains(ip net.IP) bool {
	for _, network := range t.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// fromProxy reports whether the direct peer of the request is trusted
func (t TrustedProxies) fromProxy(c *gin.Context) bool {
	ip := net.ParseIP(c.RemoteIP())
	return ip != nil && t.Contains(ip)
}

// ClientIP returns the client address. X-Real-IP and then the first public
// address in X-Forwarded-For are used only when the peer is a trusted proxy.
func (t TrustedProxies) ClientIP(c *gin.Context) string {
	if !t.fromProxy(c) {
		return c.RemoteIP()
	}

	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		if ip := net.ParseIP(realIP); ip != nil && !ip.IsPrivate() {
			return realIP
		}
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		for _, part := range strings.Split(forwarded, ",") {
			candidate := strings.TrimSpace(part)
			ip := net.ParseIP(candidate)
			if ip != nil && !ip.IsPrivate() && !ip.IsLoopback() {
				return candidate
			}
		}
	}

	return c.RemoteIP()
}

// Scheme returns the scheme the client used. X-Forwarded-Proto is honoured
// only from a trusted proxy.
func (t TrustedProxies) Scheme(c *gin.Context) string {
	if t.fromProxy(c) {
		switch proto := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto"))); proto {
		case "http", "https":
			return proto
		}
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
