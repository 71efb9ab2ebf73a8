package config

import (
	"fmt"
	"time"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// SessionConfig holds the portal session cookie and store settings.
type SessionConfig struct {
	Secret       string        `mapstructure:"secret"` // HMAC key for the session cookie
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
	Store        string        `mapstructure:"store"`
}

// normalize validates the session settings.
func (c *SessionConfig) normalize(redis RedisConfig) error {
	if c.Secret == "" {
		return fmt.Errorf("config error: 'session.secret' is required")
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("config error: 'session.ttl' must be at least 1 minute, got: %s", c.TTL)
	}
	if c.CookieName == "" {
		c.CookieName = "careers_session"
	}
	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if redis.Address == "" {
			return fmt.Errorf("config error: 'redis.address' is required for the redis session store")
		}
	default:
		return fmt.Errorf("config error: 'session.store' must be %q or %q, got %q", StoreMemory, StoreRedis, c.Store)
	}
	return nil
}

// CookieMaxAge returns the cookie lifetime in seconds.
func (c SessionConfig) CookieMaxAge() int {
	return int(c.TTL / time.Second)
}
