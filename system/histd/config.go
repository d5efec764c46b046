package histd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the history service configuration, read from the
// environment.
type Config struct {
	Addr        string `env:"DELTOID_ADDR" envDefault:"127.0.0.1:7411"`
	DB          string `env:"DELTOID_DB" envDefault:"deltoid.db"`
	Log         string `env:"DELTOID_LOG" envDefault:"main"`
	MetricsAddr string `env:"DELTOID_METRICS_ADDR"`
}

func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}
