package resilience

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	Clock            clockwork.Clock
	// OnStateChange runs outside the breaker lock after every transition.
	OnStateChange func(from, to CircuitState)
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

// NormalizeCircuitBreakerConfig fills zero or negative limits from the defaults.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	cfg.FailureThreshold = atLeast(cfg.FailureThreshold, 1, defaults.FailureThreshold)
	cfg.HalfOpenMaxReq = atLeast(cfg.HalfOpenMaxReq, 1, defaults.HalfOpenMaxReq)
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return cfg
}

func atLeast(v, floor, fallback int) int {
	if v < floor {
		return fallback
	}
	return v
}
