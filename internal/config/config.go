package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"dropoff"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"dropoff"`
	DBName     string `env:"DB_NAME" envDefault:"dropoff"`
	// DBPath is the database file used by the sqlite driver.
	DBPath string `env:"DB_PATH" envDefault:"dropoff.db"`

	// RedisURL enables the shared session store and the geocoder cache when set.
	RedisURL      string `env:"REDIS_URL"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`

	GeocoderURL       string        `env:"GEOCODER_URL" envDefault:"https://api-adresse.data.gouv.fr/search/"`
	GeocoderTimeout   time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"10s"`
	GeocoderCacheSize int           `env:"GEOCODER_CACHE_SIZE" envDefault:"1024"`
	GeocoderCacheTTL  time.Duration `env:"GEOCODER_CACHE_TTL" envDefault:"24h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	FirstSuperuserEmail string `env:"FIRST_SUPERUSER_EMAIL"`
	FirstSuperuserName  string `env:"FIRST_SUPERUSER_NAME" envDefault:"Administrator"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
