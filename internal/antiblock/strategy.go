package antiblock

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Config collects every anti-detection setting.
type Config struct {
	Pacing                Pacing
	MaxRequestsPerSession int
	MaxSessionDuration    time.Duration
	Proxies               []string
	TimeAware             bool
}

// DefaultConfig returns the settings used for the listings site.
func DefaultConfig() Config {
	return Config{
		Pacing:                DefaultPacing(),
		MaxRequestsPerSession: 10,
		MaxSessionDuration:    30 * time.Minute,
	}
}

// Strategy bundles pacing, identity selection, session rotation and proxy
// rotation behind the calls the scraper makes around each request.
type Strategy struct {
	limiter    *RateLimiter
	rotator    *SessionRotator
	identities *IdentityPool
	proxies    *ProxyManager
	logger     *zap.Logger
}

// NewStrategy wires a Strategy from cfg. opts are forwarded to the RateLimiter.
func NewStrategy(cfg Config, logger *zap.Logger, opts ...Option) *Strategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	limiterOpts := []Option{WithLogger(logger)}
	if cfg.TimeAware {
		limiterOpts = append(limiterOpts, WithScheduler(NewTimeScheduler(nil)))
	}
	limiter := NewRateLimiter(cfg.Pacing, append(limiterOpts, opts...)...)

	return &Strategy{
		limiter:    limiter,
		rotator:    NewSessionRotator(cfg.MaxRequestsPerSession, cfg.MaxSessionDuration),
		identities: NewIdentityPool(limiter.rng),
		proxies:    NewProxyManager(cfg.Proxies),
		logger:     logger,
	}
}

// BeforeRequest blocks for the pacing delay and returns how long it waited.
func (s *Strategy) BeforeRequest(ctx context.Context) time.Duration {
	return s.limiter.Wait(ctx)
}

// NewSession draws a fresh identity, picks the next proxy and restarts the rotation window.
func (s *Strategy) NewSession() Identity {
	id := s.identities.Next()
	if proxy, ok := s.proxies.Next(); ok {
		id.Proxy = proxy
	}
	s.rotator.Reset()
	s.logger.Debug("new browser identity",
		zap.String("user_agent", id.UserAgent),
		zap.Int("viewport_width", id.Viewport.Width),
		zap.Int("viewport_height", id.Viewport.Height),
		zap.String("timezone", id.Timezone),
		zap.Bool("proxied", id.Proxy != ""))
	return id
}

// AfterRequest records the outcome of a request made under id and reports
// whether the session should now be rotated. A failed request marks its proxy failed.
func (s *Strategy) AfterRequest(id Identity, err error) (rotate bool) {
	s.rotator.Record()
	if err != nil && id.Proxy != "" {
		s.proxies.MarkFailed(id.Proxy)
		s.logger.Warn("proxy marked failed", zap.String("proxy", id.Proxy), zap.Int("healthy", s.proxies.Healthy()), zap.Error(err))
	}
	rotate = s.rotator.ShouldRotate()
	if rotate {
		s.logger.Debug("session rotation due", zap.Int("requests", s.rotator.Requests()))
	}
	return rotate
}

// RequestCount returns how many requests have been paced.
func (s *Strategy) RequestCount() int {
	return s.limiter.RequestCount()
}
