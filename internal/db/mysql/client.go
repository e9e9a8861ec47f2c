package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/kailas-cloud/securephotos/internal/db"
)

var _ db.Pinger = (*Store)(nil)

// Pool defaults applied when Config leaves them zero.
const (
	DefaultMaxOpenConns    = 50
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = time.Minute
)

// Config holds connection parameters for a MySQL store.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the go-sql-driver data source name.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DB)
}

// Store wraps a gorm connection pool.
type Store struct {
	gdb *gorm.DB
}

// NewStore opens a MySQL connection pool.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.DB == "" {
		return nil, errors.New("mysql host, user and db are required")
	}

	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get mysql database instance: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdleConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = DefaultConnMaxLifetime
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	return &Store{gdb: gdb}, nil
}

// NewStoreFromGorm wraps an already opened gorm handle (any dialect).
func NewStoreFromGorm(gdb *gorm.DB) *Store {
	return &Store{gdb: gdb}
}

// DB returns the gorm handle.
func (s *Store) DB() *gorm.DB { return s.gdb }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return &db.Error{Op: db.OpSQLPing, Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpSQLPing, Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if sqlDB, err := s.gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
