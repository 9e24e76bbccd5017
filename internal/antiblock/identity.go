package antiblock

import (
	"math/rand/v2"
	"time"
)

// Viewport is the simulated browser window size.
type Viewport struct {
	Width  int
	Height int
}

// Identity is the browser signature presented for one session.
type Identity struct {
	UserAgent string
	Headers   map[string]string
	Viewport  Viewport
	Timezone  string
	Proxy     string
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.7; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
}

var acceptLanguages = []string{
	"en-AU,en;q=0.9",
	"en-AU,en-GB;q=0.9,en;q=0.8",
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9,en-US;q=0.8",
}

var viewports = []Viewport{
	{1920, 1080},
	{1536, 864},
	{1440, 900},
	{1366, 768},
	{1280, 800},
	{2560, 1440},
}

var timezones = []string{
	"Australia/Sydney",
	"Australia/Melbourne",
	"Australia/Brisbane",
	"Australia/Perth",
	"Australia/Adelaide",
}

// IdentityPool draws browser identities uniformly from fixed pools of realistic values.
type IdentityPool struct {
	rng *rand.Rand
}

// NewIdentityPool creates a pool. A nil rng seeds one from the clock.
func NewIdentityPool(rng *rand.Rand) *IdentityPool {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &IdentityPool{rng: rng}
}

// UserAgent returns a random user agent.
func (p *IdentityPool) UserAgent() string {
	return userAgents[p.rng.IntN(len(userAgents))]
}

// Headers returns a randomized set of navigation request headers.
func (p *IdentityPool) Headers() map[string]string {
	headers := map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           acceptLanguages[p.rng.IntN(len(acceptLanguages))],
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
	}
	if p.rng.IntN(2) == 0 {
		headers["DNT"] = "1"
	}
	if p.rng.IntN(2) == 0 {
		headers["Cache-Control"] = "max-age=0"
	}
	return headers
}

// Viewport returns a random common desktop resolution.
func (p *IdentityPool) Viewport() Viewport {
	return viewports[p.rng.IntN(len(viewports))]
}

// Timezone returns a random IANA timezone consistent with the target market.
func (p *IdentityPool) Timezone() string {
	return timezones[p.rng.IntN(len(timezones))]
}

// Next returns a complete identity without a proxy.
func (p *IdentityPool) Next() Identity {
	return Identity{
		UserAgent: p.UserAgent(),
		Headers:   p.Headers(),
		Viewport:  p.Viewport(),
		Timezone:  p.Timezone(),
	}
}
