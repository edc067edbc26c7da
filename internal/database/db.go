// Package database opens the configured store driver.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/camp-registration/internal/config"
	"github.com/iliyamo/camp-registration/internal/repository"
	"github.com/iliyamo/camp-registration/internal/repository/memstore"
	"github.com/iliyamo/camp-registration/internal/repository/mongostore"
	"github.com/iliyamo/camp-registration/internal/repository/mysqlstore"
)

// Open connects to the store named by cfg.Driver and verifies it.  The
// returned Store must be closed on shutdown.
func Open(ctx context.Context, cfg config.Config) (*repository.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMongo:
		return mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDB)
	case config.DriverMySQL:
		return mysqlstore.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case config.DriverMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("database: unknown driver %q", cfg.Driver)
}
