package antiblock

// ProxyManager rotates round-robin through a proxy list, skipping proxies marked failed.
type ProxyManager struct {
	proxies []string
	next    int
	failed  map[string]bool
}

// NewProxyManager creates a manager over proxies. An empty list disables proxying.
func NewProxyManager(proxies []string) *ProxyManager {
	return &ProxyManager{
		proxies: append([]string(nil), proxies...),
		failed:  make(map[string]bool),
	}
}

// Next returns the next healthy proxy. When every proxy has failed the failure
// set is cleared and rotation starts over. ok is false when no proxies are configured.
func (m *ProxyManager) Next() (proxy string, ok bool) {
	if len(m.proxies) == 0 {
		return "", false
	}
	if len(m.failed) >= len(m.proxies) {
		m.failed = make(map[string]bool)
	}

	for range m.proxies {
		p := m.proxies[m.next%len(m.proxies)]
		m.next = (m.next + 1) % len(m.proxies)
		if !m.failed[p] {
			return p, true
		}
	}
	return "", false
}

// MarkFailed excludes proxy from rotation until all proxies have failed.
func (m *ProxyManager) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	m.failed[proxy] = true
}

// Healthy returns the number of proxies not marked failed.
func (m *ProxyManager) Healthy() int {
	return len(m.proxies) - len(m.failed)
}
