package feed

import (
	"strings"
	"time"
)

// Config controls how feeds are fetched.
type Config struct {
	// AllowedHosts restricts which hosts may serve a feed. Empty allows any.
	AllowedHosts []string `mapstructure:"allowed_hosts"`
	// FollowCrossOriginRedirects permits redirects that change scheme, host or port.
	FollowCrossOriginRedirects bool          `mapstructure:"follow_cross_origin_redirects"`
	Timeout                    time.Duration `mapstructure:"timeout"` // 0 leaves the transport default
	UserAgent                  string        `mapstructure:"user_agent"`
}

// DefaultConfig returns the fetch defaults.
func DefaultConfig() Config {
	return Config{UserAgent: "pkgshelf"}
}

func (c Config) hostAllowed(host string) bool {
	if len(c.AllowedHosts) == 0 {
		return true
	}
	for _, h := range c.AllowedHosts {
		if strings.EqualFold(strings.TrimSpace(h), host) {
			return true
		}
	}
	return false
}
