package services

import "time"

const (
	KeyBetCooldown  = "cooldown:%s:bet"
	KeyRateLimit    = "ratelimit:%s:%s"
	ChanBalanceFeed = "balance:events"

	DefaultRateLimitPlays    = 30 // plays per minute
	DefaultRateLimitWebhooks = 120
	RateLimitWindow          = time.Minute
)
