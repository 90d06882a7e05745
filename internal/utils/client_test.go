package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	androidPhoneUA  = "Mozilla/5.0 (Linux; Android 12; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	googleBotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParseUserAgent(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		info := ParseUserAgent("")
		assert.Equal(t, "unknown", info.DeviceType)
		assert.Equal(t, "Unknown", info.Browser)
	})

	t.Run("Desktop Chrome", func(t *testing.T) {
		info := ParseUserAgent(chromeDesktopUA)
		assert.Equal(t, "desktop", info.DeviceType)
		assert.Contains(t, info.Browser, "Chrome")
		assert.False(t, info.IsBot)
	})

	t.Run("Android Phone", func(t *testing.T) {
		info := ParseUserAgent(androidPhoneUA)
		assert.Equal(t, "mobile", info.DeviceType)
		assert.Contains(t, info.OS, "Android")
	})

	t.Run("Bot", func(t *testing.T) {
		info := ParseUserAgent(googleBotUA)
		assert.True(t, info.IsBot)
		assert.Equal(t, "bot", info.DeviceType)
	})
}
