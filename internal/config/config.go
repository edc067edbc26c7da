// Package config loads application configuration from environment
// variables.  main loads a .env file first (godotenv) so local runs need
// no exported variables.
package config

import (
    "fmt"
    "os"
    "sort"
    "strconv"
    "strings"
)

// Store drivers accepted by STORE_DRIVER.
const (
    DriverMongo  = "mongo"
    DriverMySQL  = "mysql"
    DriverMemory = "memory"
)

// Config holds the core runtime configuration.  Cache, rate limit, Redis
// and payment settings have their own loaders.
type Config struct {
    Env    string // APP_ENV (development, production, ...)
    Port   string // APP_PORT
    Driver string // STORE_DRIVER: mongo | mysql | memory

    MongoURI string // MONGO_URI
    MongoDB  string // MONGO_DB

    DBUser string
    DBPass string
    DBHost string
    DBPort string
    DBName string

    JWTSecret    string
    AccessTTLMin int

    // CountOnRegister increments participantCount when a registration is
    // created.  Turning it off leaves the counter to external seeding.
    CountOnRegister bool

    RabbitURL string // RABBITMQ_URL; empty disables events

    // OrganizerEmails grants the organizer role (ORGANIZER_EMAILS,
    // comma separated).  Every other account is a participant.
    OrganizerEmails []string
}

// Load reads the core configuration.  Variables required by the selected
// store driver are enforced; all missing names are reported together.
func Load() (Config, error) {
    l := &loader{}
    cfg := Config{
        Env:             envStr("APP_ENV", "development"),
        Port:            envStr("APP_PORT", "8080"),
        Driver:          strings.ToLower(envStr("STORE_DRIVER", DriverMongo)),
        JWTSecret:       l.must("JWT_SECRET"),
        AccessTTLMin:    envInt("ACCESS_TOKEN_TTL_MIN", 60),
        CountOnRegister: envBool("COUNT_ON_REGISTER", true),
        RabbitURL:       os.Getenv("RABBITMQ_URL"),
        OrganizerEmails: envList("ORGANIZER_EMAILS"),
    }

    switch cfg.Driver {
    case DriverMongo:
        cfg.MongoURI = l.must("MONGO_URI")
        cfg.MongoDB = envStr("MONGO_DB", "greenCare")
    case DriverMySQL:
        cfg.DBUser = l.must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = l.must("DB_HOST")
        cfg.DBPort = envStr("DB_PORT", "3306")
        cfg.DBName = l.must("DB_NAME")
    case DriverMemory:
    default:
        return Config{}, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.Driver)
    }

    if cfg.AccessTTLMin <= 0 {
        return Config{}, fmt.Errorf("config: ACCESS_TOKEN_TTL_MIN must be positive, got %d", cfg.AccessTTLMin)
    }
    if err := l.err(); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

// IsDevelopment reports whether the app runs in a local environment.
func (c Config) IsDevelopment() bool {
    switch strings.ToLower(c.Env) {
    case "dev", "development", "local":
        return true
    }
    return false
}

// loader collects the names of missing required variables.
type loader struct {
    missing []string
}

func (l *loader) must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || strings.TrimSpace(v) == "" {
        l.missing = append(l.missing, key)
        return ""
    }
    return v
}

func (l *loader) err() error {
    if len(l.missing) == 0 {
        return nil
    }
    sort.Strings(l.missing)
    return fmt.Errorf("config: missing required env vars: %s", strings.Join(l.missing, ", "))
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

// envList splits a comma separated variable, dropping blanks and
// lowercasing each entry.
func envList(k string) []string {
    var out []string
    for _, part := range strings.Split(os.Getenv(k), ",") {
        if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
            out = append(out, part)
        }
    }
    return out
}

func envInt(k string, d int) int {
    v := os.Getenv(k)
    if v == "" {
        return d
    }
    if n, err := strconv.Atoi(v); err == nil {
        return n
    }
    return d
}
