package core

import (
	"fmt"
	"os"

	"takeoffcore/internal/infra/persistence/memory"
	"takeoffcore/internal/infra/persistence/postgres"
	"takeoffcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete project store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenProjectStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	TAKEOFFCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	TAKEOFFCORE_SQLITE_PATH: path to sqlite file (default ./takeoffcore.db)
//	TAKEOFFCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenProjectStore() (ProjectStore, error) {
	driver := os.Getenv("TAKEOFFCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		path := os.Getenv("TAKEOFFCORE_SQLITE_PATH")
		return sqlite.NewStore(path)
	case StoragePostgres:
		dsn := os.Getenv("TAKEOFFCORE_POSTGRES_DSN")
		return postgres.NewStore(dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
