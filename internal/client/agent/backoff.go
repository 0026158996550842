package agent

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// Параметры backoff по умолчанию
const (
	DefaultBackoffBase = 500 * time.Millisecond
	DefaultBackoffMax  = 10 * time.Second
)

// NewBackoff экспоненциальная задержка: base, 2*base, 4*base... но не больше max
func NewBackoff(base, max time.Duration) retry.Backoff {
	return retry.WithCappedDuration(max, retry.NewExponential(base))
}
