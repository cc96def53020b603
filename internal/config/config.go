package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	applog "travelhub/internal/log"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	DBDSN    string `envconfig:"DB_DSN" default:"travelhub.db"`
	LogFile  string `envconfig:"LOG_FILE"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	JWTSecret    string `envconfig:"JWT_SECRET" default:"travelhub-dev-secret"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`

	// Notifications go to the log only when AMQPURL is empty.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"travelhub.events"`

	SeedDemo       bool `envconfig:"SEED_DEMO" default:"true"`
	BodyLimit      int  `envconfig:"BODY_LIMIT_BYTES" default:"1048576"`
	RateLimit      int  `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`
	LoginRateLimit int  `envconfig:"LOGIN_RATE_LIMIT" default:"5"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	applog.Info(nil, "config.loaded", map[string]any{
		"port": cfg.Port, "db_dsn": cfg.DBDSN, "log_file": cfg.LogFile, "log_level": cfg.LogLevel,
		"amqp": cfg.AMQPURL != "", "seed_demo": cfg.SeedDemo,
	})
	return cfg, nil
}

// Test returns a configuration for in-memory use, bypassing the environment.
func Test() Config {
	return Config{
		Port:           "0",
		DBDSN:          ":memory:",
		LogLevel:       "info",
		JWTSecret:      "test-secret",
		JWTExpireMin:   60,
		AMQPExchange:   "travelhub.events",
		SeedDemo:       true,
		BodyLimit:      1 << 20,
		RateLimit:      1000,
		LoginRateLimit: 100,
	}
}
