// Package lokihttp sends encoded batches to Loki by HTTP POST
package lokihttp

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/relex/gotils/logger"
	"github.com/relex/slog-loki/defs"
)

// Config defines the HTTP sender
type Config struct {
	URL               string        `yaml:"url"`               // push endpoint, e.g. http://localhost:3100/loki/api/v1/push
	TenantID          string        `yaml:"tenantId"`          // optional X-Scope-OrgID
	Username          string        `yaml:"username"`          // optional basic auth
	Password          string        `yaml:"password"`          // may contain environment variables
	Gzip              bool          `yaml:"gzip"`              // compress request body
	ConnectionTimeout time.Duration `yaml:"connectionTimeout"` // zero to use the default
	RequestTimeout    time.Duration `yaml:"requestTimeout"`    // zero to use the default
}

// NewSender creates a Sender
func (cfg *Config) NewSender(parentLogger logger.Logger) (*Sender, error) {
	if err := cfg.VerifyConfig(); err != nil {
		return nil, err
	}
	return newSender(parentLogger, cfg)
}

// VerifyConfig checks the configuration
func (cfg *Config) VerifyConfig() error {
	if cfg.URL == "" {
		return fmt.Errorf(".url is empty")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf(".url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf(".url: unsupported scheme '%s'", u.Scheme)
	}
	if cfg.Password != "" && cfg.Username == "" {
		return fmt.Errorf(".password is set without .username")
	}
	if cfg.ConnectionTimeout < 0 || cfg.RequestTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	return nil
}

func (cfg *Config) connectionTimeout() time.Duration {
	if cfg.ConnectionTimeout > 0 {
		return cfg.ConnectionTimeout
	}
	return defs.SenderConnectionTimeout
}

func (cfg *Config) requestTimeout() time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout
	}
	return defs.SenderRequestTimeout
}

func (cfg *Config) password() string {
	return os.ExpandEnv(cfg.Password)
}
