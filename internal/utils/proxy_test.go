package utils

import (
	"crypto/tls"
	"net"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProxiedContext(remoteAddr string, headers map[string]string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.Request = req
	return c
}

func TestParseTrustedProxies(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.4 ", "", "::1"})
	require.NoError(t, err)

	assert.True(t, proxies.Contains(net.ParseIP("10.20.30.40")))
	assert.True(t, proxies.Contains(net.ParseIP("192.168.1.4")))
	assert.False(t, proxies.Contains(net.ParseIP("192.168.1.5")))
	assert.True(t, proxies.Contains(net.ParseIP("::1")))

	_, err = ParseTrustedProxies([]string{"proxy.internal"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestTrustedProxies_ClientIP(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	t.Run("X-Real-IP from proxy", func(t *testing.T) {
		c := newProxiedContext("10.0.0.5:4321", map[string]string{"X-Real-IP": "203.0.113.7"})
		assert.Equal(t, "203.0.113.7", proxies.ClientIP(c))
	})

	t.Run("First public forwarded address from proxy", func(t *testing.T) {
		c := newProxiedContext("10.0.0.5:4321", map[string]string{"X-Forwarded-For": "192.168.1.4, 198.51.100.9, 10.0.0.1"})
		assert.Equal(t, "198.51.100.9", proxies.ClientIP(c))
	})

	t.Run("Headers from untrusted peer are ignored", func(t *testing.T) {
		c := newProxiedContext("198.51.100.20:4321", map[string]string{
			"X-Real-IP":       "203.0.113.7",
			"X-Forwarded-For": "203.0.113.8",
		})
		assert.Equal(t, "198.51.100.20", proxies.ClientIP(c))
	})

	t.Run("Zero value trusts nobody", func(t *testing.T) {
		c := newProxiedContext("10.0.0.5:4321", map[string]string{"X-Real-IP": "203.0.113.7"})
		assert.Equal(t, "10.0.0.5", TrustedProxies{}.ClientIP(c))
	})
}

func TestTrustedProxies_Scheme(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	c := newProxiedContext("10.0.0.5:4321", map[string]string{"X-Forwarded-Proto": "HTTPS"})
	assert.Equal(t, "https", proxies.Scheme(c))

	c = newProxiedContext("10.0.0.5:4321", map[string]string{"X-Forwarded-Proto": "javascript"})
	assert.Equal(t, "http", proxies.Scheme(c))

	c = newProxiedContext("198.51.100.20:4321", map[string]string{"X-Forwarded-Proto": "https"})
	assert.Equal(t, "http", proxies.Scheme(c))

	c = newProxiedContext("198.51.100.20:4321", nil)
	c.Request.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https", proxies.Scheme(c))
}
