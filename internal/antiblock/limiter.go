// Package antiblock paces outbound requests and varies the browser identity
// presented to the listings site. Evasion is best-effort.
package antiblock

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jonathan/job-scout/internal/utils"
)

// Pacing configures the inter-request delay model.
type Pacing struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	// Jitter is the symmetric fraction added to the base delay (0.3 means ±30%).
	Jitter float64

	// A reading pause is added every N requests, N drawn from [ReadingPauseEveryMin, ReadingPauseEveryMax].
	ReadingPauseEveryMin int
	ReadingPauseEveryMax int
	ReadingPauseMin      time.Duration
	ReadingPauseMax      time.Duration

	ExtendedPauseProbability float64
	ExtendedPauseMin         time.Duration
	ExtendedPauseMax         time.Duration

	// MinInterval is a hard floor between requests enforced by a token bucket. Zero disables it.
	MinInterval time.Duration
}

// DefaultPacing returns the delays used for the listings site.
func DefaultPacing() Pacing {
	return Pacing{
		MinDelay:                 2 * time.Second,
		MaxDelay:                 4 * time.Second,
		Jitter:                   0.3,
		ReadingPauseEveryMin:     5,
		ReadingPauseEveryMax:     10,
		ReadingPauseMin:          5 * time.Second,
		ReadingPauseMax:          15 * time.Second,
		ExtendedPauseProbability: 0.05,
		ExtendedPauseMin:         30 * time.Second,
		ExtendedPauseMax:         60 * time.Second,
		MinInterval:              time.Second,
	}
}

// RateLimiter decides how long to wait before each request. It is not safe for
// concurrent use; the scraping pipeline is sequential.
type RateLimiter struct {
	cfg       Pacing
	rng       *rand.Rand
	now       func() time.Time
	sleep     utils.SleepFunc
	floor     *rate.Limiter
	scheduler *TimeScheduler
	logger    *zap.Logger

	requestCount     int
	lastRequest      time.Time
	nextReadingPause int
}

// Option customizes a RateLimiter.
type Option func(*RateLimiter)

// WithRand sets the random source. Tests pass a seeded source.
func WithRand(rng *rand.Rand) Option {
	return func(l *RateLimiter) { l.rng = rng }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *RateLimiter) { l.now = now }
}

// WithSleep overrides the blocking wait.
func WithSleep(sleep utils.SleepFunc) Option {
	return func(l *RateLimiter) { l.sleep = sleep }
}

// WithScheduler scales delays by time of day.
func WithScheduler(s *TimeScheduler) Option {
	return func(l *RateLimiter) { l.scheduler = s }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *RateLimiter) { l.logger = logger }
}

// NewRateLimiter creates a limiter for cfg.
func NewRateLimiter(cfg Pacing, opts ...Option) *RateLimiter {
	l := &RateLimiter{
		cfg:    cfg,
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:    time.Now,
		sleep:  utils.WaitFor,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if cfg.MinInterval > 0 {
		l.floor = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	l.nextReadingPause = l.readingPauseCycle()
	return l
}

// RequestCount returns how many requests have been paced so far.
func (l *RateLimiter) RequestCount() int {
	return l.requestCount
}

// NextDelay draws the delay for the next request and advances the request counter.
func (l *RateLimiter) NextDelay() time.Duration {
	base, pause := l.draw()
	return base + pause
}

// draw splits the next delay into the base interval, measured from the
// previous request, and any reading or extended pause, which is slept in full.
func (l *RateLimiter) draw() (base, pause time.Duration) {
	base = l.uniform(l.cfg.MinDelay, l.cfg.MaxDelay)
	base += time.Duration(float64(base) * l.cfg.Jitter * (2*l.rng.Float64() - 1))

	if ceiling := 2 * l.cfg.MaxDelay; ceiling > 0 && base > ceiling {
		base = ceiling
	}
	if base < 0 {
		base = 0
	}
	if l.scheduler != nil {
		base = l.scheduler.Adjust(base, l.now())
	}

	l.requestCount++

	if l.nextReadingPause > 0 && l.requestCount >= l.nextReadingPause {
		reading := l.uniform(l.cfg.ReadingPauseMin, l.cfg.ReadingPauseMax)
		l.logger.Debug("reading pause", zap.Duration("pause", reading), zap.Int("request", l.requestCount))
		pause += reading
		l.nextReadingPause = l.requestCount + l.readingPauseCycle()
	}

	if l.cfg.ExtendedPauseProbability > 0 && l.rng.Float64() < l.cfg.ExtendedPauseProbability {
		extended := l.uniform(l.cfg.ExtendedPauseMin, l.cfg.ExtendedPauseMax)
		l.logger.Debug("extended pause", zap.Duration("pause", extended))
		pause += extended
	}

	return base, pause
}

// Wait blocks until the next request may be sent and returns the time spent waiting.
// The first request goes out immediately. Time already spent since the previous
// request counts towards the base delay but not towards pauses.
//
// Cancellation of ctx cuts the wait short; the returned duration is then the
// time actually waited.
func (l *RateLimiter) Wait(ctx context.Context) time.Duration {
	start := l.now()
	var planned time.Duration

	if l.lastRequest.IsZero() {
		l.requestCount++
	} else {
		base, pause := l.draw()
		remaining := base - start.Sub(l.lastRequest)
		if remaining < 0 {
			remaining = 0
		}
		if total := remaining + pause; total > 0 {
			l.logger.Debug("pacing request",
				zap.Duration("delay", remaining),
				zap.Duration("pause", pause),
				zap.Int("request", l.requestCount))
			if err := l.sleep(ctx, total); err != nil {
				return l.interrupted(start)
			}
			planned = total
		}
	}

	if l.floor != nil {
		if r := l.floor.Reserve(); r.OK() {
			if extra := r.Delay(); extra > planned {
				if err := l.sleep(ctx, extra-planned); err != nil {
					return l.interrupted(start)
				}
				planned = extra
			}
		}
	}

	l.lastRequest = l.now()
	return planned
}

func (l *RateLimiter) interrupted(start time.Time) time.Duration {
	l.lastRequest = l.now()
	return l.lastRequest.Sub(start)
}

func (l *RateLimiter) readingPauseCycle() int {
	lo, hi := l.cfg.ReadingPauseEveryMin, l.cfg.ReadingPauseEveryMax
	if lo <= 0 {
		return 0
	}
	if hi < lo {
		hi = lo
	}
	return lo + l.rng.IntN(hi-lo+1)
}

func (l *RateLimiter) uniform(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(l.rng.Float64()*float64(hi-lo))
}
