package proxy

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/url"

	"github.com/williampepple1/price-tracker/internal/config"
)

// Manager picks the proxy product pages are fetched through
type Manager struct {
	Config *config.ProxyConfig
	pick   func(n int) int
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{
		Config: config,
		pick:   rand.Intn,
	}
}

// Active reports whether fetches should go through a proxy
func (m *Manager) Active() bool {
	return m.Config.Enabled && len(m.Config.List) > 0
}

// GetProxyURL returns a proxy URL from the configuration, or nil when
// proxying is off.
func (m *Manager) GetProxyURL() (*url.URL, error) {
	if !m.Active() {
		return nil, nil
	}

	proxyStr := m.Config.List[0]
	if m.Config.Rotate && len(m.Config.List) > 1 {
		proxyStr = m.Config.List[m.pick(len(m.Config.List))]
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", proxyStr, err)
	}
	if proxyURL.Scheme == "" || proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy %q must be an absolute URL", proxyStr)
	}

	if m.Config.Auth.Username != "" && m.Config.Auth.Password != "" {
		proxyURL.User = url.UserPassword(m.Config.Auth.Username, m.Config.Auth.Password)
	}

	return proxyURL, nil
}

// ApplyToTransport points transport at a proxy when proxying is on
func (m *Manager) ApplyToTransport(transport *http.Transport) error {
	proxyURL, err := m.GetProxyURL()
	if err != nil {
		return err
	}

	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return nil
}
