package realtime

import "time"

// Backoff returns the delay before reconnect attempt n (1-based).
//
// The schedule is exponential with a hard ceiling:
//
//	delay(n) = min(base * 2^(n-1), ceiling)
//
// so with the defaults (base 2s, ceiling 30s) the schedule runs
// 2s, 4s, 8s, 16s, 30s, 30s, ... Attempts below 1 are treated as 1. A
// non-positive ceiling means uncapped; the delay then saturates at the
// last representable doubling rather than overflowing.
func Backoff(attempt int, base, ceiling time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	if ceiling > 0 && base > ceiling {
		base = ceiling
	}
	delay := base
	for n := 1; n < attempt; n++ {
		doubled := delay * 2
		if doubled < delay {
			return delay
		}
		delay = doubled
		if ceiling > 0 && delay >= ceiling {
			return ceiling
		}
	}
	return delay
}
