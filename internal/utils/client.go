package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	ua "github.com/mssola/user_agent"
)

// ClientInfo describes the caller of a request for logging
type ClientInfo struct {
	IP         string `json:"ip"`
	DeviceType string `json:"device_type"` // mobile, tablet, desktop, bot, unknown
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	IsBot      bool   `json:"is_bot"`
}

// tabletMarkers are user agent fragments that identify tablets reporting as mobile
var tabletMarkers = []string{"ipad", "tablet", "kindle", "playbook", "nexus 7", "nexus 9", "nexus 10", "sm-t"}

// DescribeClient extracts the client address and parsed device of a request
func DescribeClient(c *gin.Context, proxies TrustedProxies) ClientInfo {
	info := ParseUserAgent(c.Request.UserAgent())
	info.IP = proxies.ClientIP(c)
	return info
}

// ParseUserAgent parses a User-Agent header into device fields
func ParseUserAgent(userAgent string) ClientInfo {
	if strings.TrimSpace(userAgent) == "" {
		return ClientInfo{DeviceType: "unknown", OS: "Unknown", Browser: "Unknown"}
	}

	parser := ua.New(userAgent)
	info := ClientInfo{
		IsBot:   parser.Bot(),
		OS:      "Unknown",
		Browser: "Unknown",
	}

	if os := parser.OSInfo(); os.Name != "" {
		info.OS = strings.TrimSpace(os.Name + " " + os.Version)
	}
	if name, version := parser.Browser(); name != "" {
		info.Browser = strings.TrimSpace(name + " " + version)
	}

	switch {
	case info.IsBot:
		info.DeviceType = "bot"
	case parser.Mobile() && isTablet(userAgent):
		info.DeviceType = "tablet"
	case parser.Mobile():
		info.DeviceType = "mobile"
	default:
		info.DeviceType = "desktop"
	}

	return info
}

func isTablet(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, marker := range tabletMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
