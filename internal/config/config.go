package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Parámetros del ledger de progresión.
	DailyXPCap         int     `env:"DAILY_XP_CAP" envDefault:"100"`
	GoalDailyXPCap     int     `env:"GOAL_DAILY_XP_CAP" envDefault:"10"`
	DecayThresholdDays int     `env:"DECAY_THRESHOLD_DAYS" envDefault:"3"`
	DecayRate          float64 `env:"DECAY_RATE" envDefault:"0.05"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
