package app

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/techtrack/techtrack/internal/config"
	"github.com/techtrack/techtrack/internal/database"
	"github.com/techtrack/techtrack/pkg/kvstore"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// OpenStore opens the key-value backend selected by cfg.Store.Driver and runs
// its migrations. The returned function releases the underlying connections.
func OpenStore(cfg config.Application) (kvstore.Store, func(), error) {
	switch cfg.Store.Driver {
	case DriverSQLite, "":
		db, err := database.OpenSQLite(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using SQLite store at %s", cfg.Store.SQLite.Path)
		return kvstore.NewSQLiteStore(db), func() {
			if err := db.Close(); err != nil {
				log.Errorf("failed to close SQLite database: %v", err)
			}
		}, nil
	case DriverPostgres:
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, nil, err
		}
		pool, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("Using Postgres store at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return kvstore.NewPostgresStore(pool), pool.Close, nil
	case DriverMemory:
		log.Warn("Using in-memory store, data is lost on exit")
		return kvstore.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
