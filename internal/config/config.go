package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// SqliteCfg describes the in-memory entity store. The default DSN keeps a
// single shared database alive across the gorm connection pool.
type SqliteCfg struct {
	DSN string `env:"SQLITE_DSN" envDefault:"file:crm?mode=memory&cache=shared"`
}

// RedisCfg describes the optional customer cache, disabled when Addr is empty
type RedisCfg struct {
	Addr     string `env:"REDIS_ADDR" envDefault:""`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// APICfg is the REST API server configuration
type APICfg struct {
	Port            int           `env:"API_PORT" envDefault:"5000"`
	ShutdownTimeout time.Duration `env:"API_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	WebOrigin       string        `env:"WEB_ORIGIN" envDefault:"http://localhost:7000"`
	SeedDemoData    bool          `env:"SEED_DEMO_DATA" envDefault:"true"`
}

// WebCfg is the server-rendered front-end configuration
type WebCfg struct {
	Port            int           `env:"WEB_PORT" envDefault:"7000"`
	ShutdownTimeout time.Duration `env:"WEB_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	APIBaseURL      string        `env:"CRM_API_BASE_URL" envDefault:"http://localhost:5000/api"`
	APITimeout      time.Duration `env:"CRM_API_TIMEOUT" envDefault:"10s"`
}

type Config struct {
	SqliteCfg SqliteCfg
	RedisCfg  RedisCfg
	APICfg    APICfg
	WebCfg    WebCfg
}

func Build() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}
	return cfg, nil
}
