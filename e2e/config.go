package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_RELAY_ADDR is the base URL of a running relay, e.g. http://localhost:8080
	RelayAddr string `envconfig:"E2E_RELAY_ADDR"`
	Room      string `envconfig:"E2E_ROOM" default:"e2e"`
	// E2E_DEBUG_JSON allows dumping full HTTP request/response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours      bool          `envconfig:"E2E_COLOURS" default:"true"`
	PollInterval time.Duration `envconfig:"E2E_POLL_INTERVAL" default:"500ms"`
	Timeout      time.Duration `envconfig:"E2E_TIMEOUT" default:"30s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
