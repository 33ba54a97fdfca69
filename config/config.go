// Package config reads service configuration from the environment. Core
// packages take explicit arguments; only the service binary loads this.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	KafkaBrokers  string        `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaTopic    string        `env:"KAFKA_TOPIC" envDefault:"fx.marketdata"`
	KafkaGroupID  string        `env:"KAFKA_GROUP_ID" envDefault:"fxlib-server"`
	KafkaEnabled  bool          `env:"KAFKA_ENABLED" envDefault:"false"`
	CacheMaxCost  int64         `env:"CACHE_MAX_COST" envDefault:"1048576"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	DefaultMethod string        `env:"DEFAULT_METHOD" envDefault:"QL_LOG_LINEAR"`
}

func Load() (Config, error) {
	var cfg Config
	return cfg, env.Parse(&cfg)
}
