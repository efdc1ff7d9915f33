package main

import (
	"log/slog"
	"time"

	"github.com/mavrin/wagervault/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"API_PORT"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT"`
	Postgres        config.PostgresConfig
}
