package config

import (
    "fmt"
    "time"

    "github.com/caarlos0/env/v11"
)

// PaymentConfig configures the payment processor.
type PaymentConfig struct {
    StripeSecretKey string        `env:"STRIPE_SECRET_KEY,required,notEmpty"`
    Currency        string        `env:"PAYMENT_CURRENCY" envDefault:"usd"`
    Timeout         time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"10s"`
}

func LoadPaymentConfig() (PaymentConfig, error) {
    cfg, err := env.ParseAs[PaymentConfig]()
    if err != nil {
        return PaymentConfig{}, fmt.Errorf("config: payment: %w", err)
    }
    if cfg.Timeout <= 0 {
        return PaymentConfig{}, fmt.Errorf("config: PAYMENT_TIMEOUT must be positive, got %s", cfg.Timeout)
    }
    return cfg, nil
}
