// Package database owns the single-file sqlite store: opening, schema
// management and the destructive factory reset. All access goes through an
// explicit Store handle; there is no ambient global connection.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	appDirName = "gentrack"
	storeName  = "gentrack.db"

	// MemoryPath opens a throwaway in-memory store, used by tests.
	MemoryPath = ":memory:"
)

// Store is the handle to the open database file. One Store is opened per
// application run and every component holds a reference to it.
type Store struct {
	db   *gorm.DB
	path string
	log  *zap.Logger
}

// DefaultPath resolves the store location inside the platform-specific
// per-user application-data directory, creating the directory if needed.
// GENTRACK_DATA_DIR overrides the base directory.
func DefaultPath() (string, error) {
	base := os.Getenv("GENTRACK_DATA_DIR")
	if base == "" {
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve user config dir: %w", err)
		}
		base = filepath.Join(cfg, appDirName)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(base, storeName), nil
}

// Open opens (or creates) the store at path and brings the schema up to
// date. Any open or migration failure is fatal to startup and returned to
// the caller.
func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := open(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: path, log: log}
	if err := s.EnsureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every session sees the same store.
	if path == MemoryPath {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// dsn enables foreign key enforcement; cascade and set-null behaviour on
// deletes is schema-level, not application code.
func dsn(path string) string {
	if path == MemoryPath {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return path + "?_pragma=foreign_keys(1)"
}

// DB exposes the underlying GORM handle to repositories.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reset closes the store, deletes the backing file and reopens it from
// empty with a fresh schema. Seeding is the caller's responsibility. The
// handle stays valid across the reset.
func (s *Store) Reset() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("close store for reset: %w", err)
	}
	if s.path != MemoryPath {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove store file: %w", err)
		}
	}

	db, err := open(s.path)
	if err != nil {
		return err
	}
	s.db = db
	s.log.Info("store reset", zap.String("path", s.path))
	return s.EnsureSchema()
}
