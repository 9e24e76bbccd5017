package antiblock

import "time"

// TimeScheduler slows pacing down while the site is busiest.
type TimeScheduler struct {
	Location *time.Location
}

// NewTimeScheduler uses loc for hour-of-day decisions; nil means local time.
func NewTimeScheduler(loc *time.Location) *TimeScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &TimeScheduler{Location: loc}
}

// IsBusinessHours reports whether t falls on a weekday between 09:00 and 17:00.
func (s *TimeScheduler) IsBusinessHours(t time.Time) bool {
	t = t.In(s.Location)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return t.Hour() >= 9 && t.Hour() < 17
}

// IsPeakHours reports whether t falls in the 12:00-14:00 lunch peak.
func (s *TimeScheduler) IsPeakHours(t time.Time) bool {
	h := t.In(s.Location).Hour()
	return h >= 12 && h < 14
}

// Multiplier returns the delay scale factor for t.
func (s *TimeScheduler) Multiplier(t time.Time) float64 {
	switch {
	case s.IsPeakHours(t):
		return 2.0
	case s.IsBusinessHours(t):
		return 1.5
	default:
		return 1.0
	}
}

// Adjust scales d by the multiplier for t.
func (s *TimeScheduler) Adjust(d time.Duration, t time.Time) time.Duration {
	return time.Duration(float64(d) * s.Multiplier(t))
}
