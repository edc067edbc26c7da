package config

import (
    "os"
    "time"

    "github.com/rs/zerolog"
)

// NewLogger returns the service logger: JSON on stdout at info level, or a
// human-readable console writer at debug level in development.
func NewLogger(appEnv string) zerolog.Logger {
    dev := Config{Env: appEnv}.IsDevelopment()
    level := zerolog.InfoLevel
    if dev {
        level = zerolog.DebugLevel
    }

    logger := zerolog.New(os.Stdout).
        Level(level).
        With().
        Timestamp().
        Str("service", "camp-registration").
        Logger()

    if dev {
        logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
    }
    return logger
}
