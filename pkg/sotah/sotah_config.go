package sotah

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
)

// NewConfigFromEnv parses the process environment into a config and validates it
func NewConfigFromEnv() (Config, error) {
	c := Config{}
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// NewConfigFromMap parses the given variables into a config and validates it
func NewConfigFromMap(vars map[string]string) (Config, error) {
	c := Config{}
	if err := env.ParseWithOptions(&c, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Config - immutable process configuration, built once at startup
type Config struct {
	ClientID        string `env:"BLIZZARD_CLIENT_ID,required,notEmpty"`
	ClientSecret    string `env:"BLIZZARD_CLIENT_SECRET,required,notEmpty"`
	BaseURLTemplate string `env:"BLIZZARD_API_BASE_URL,required,notEmpty"`

	ListenAddress   string              `env:"LISTEN_ADDRESS" envDefault:":8080"`
	PublicURL       string              `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	DatabasePath    string              `env:"DATABASE_PATH" envDefault:"./data/sessions.db"`
	CookieSecure    bool                `env:"COOKIE_SECURE" envDefault:"false"`
	RequestTimeout  time.Duration       `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	SessionTTL      time.Duration       `env:"SESSION_TTL" envDefault:"24h"`
	PendingLoginTTL time.Duration       `env:"PENDING_LOGIN_TTL" envDefault:"10m"`
	DefaultRegion   blizzard.RegionName `env:"DEFAULT_REGION" envDefault:"us"`
}

// Validate checks the values env parsing cannot
func (c Config) Validate() error {
	if !strings.Contains(c.BaseURLTemplate, blizzard.RegionPlaceholder) {
		return fmt.Errorf("base url template %q has no %s placeholder", c.BaseURLTemplate, blizzard.RegionPlaceholder)
	}

	u, err := url.Parse(c.PublicURL)
	if err != nil {
		return fmt.Errorf("public url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("public url %q is not an absolute url", c.PublicURL)
	}

	if c.ListenAddress == "" {
		return errors.New("listen address cannot be blank")
	}
	if c.DatabasePath == "" {
		return errors.New("database path cannot be blank")
	}

	durations := map[string]time.Duration{
		"request timeout":   c.RequestTimeout,
		"session ttl":       c.SessionTTL,
		"pending login ttl": c.PendingLoginTTL,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	if c.DefaultRegion.Normalize() == "" {
		return errors.New("default region cannot be blank")
	}
	if !c.DefaultRegion.IsValid() {
		return fmt.Errorf("default region %q is not a valid region name", c.DefaultRegion)
	}

	return nil
}

// CallbackURL - the absolute oauth redirect uri
func (c Config) CallbackURL(callbackPath string) string {
	return strings.TrimRight(c.PublicURL, "/") + callbackPath
}
