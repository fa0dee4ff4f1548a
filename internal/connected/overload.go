// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connected

import "time"

// overloadBackoff walks a fixed delay schedule while the service reports
// OVERLOADED. Each polling session owns its own value.
type overloadBackoff struct {
	enabled bool
	delays  []time.Duration
	attempt int
}

func newOverloadBackoff(enabled bool, delays []time.Duration) *overloadBackoff {
	return &overloadBackoff{enabled: enabled, delays: delays}
}

// next returns the delay to wait before retrying and true, or false when
// retries are disabled or the schedule is used up.
func (b *overloadBackoff) next() (time.Duration, bool) {
	if !b.enabled || b.attempt >= len(b.delays) {
		return 0, false
	}
	d := b.delays[b.attempt]
	b.attempt++
	return d, true
}

// reset restarts the schedule; called whenever a non-OVERLOADED status arrives.
func (b *overloadBackoff) reset() {
	b.attempt = 0
}
