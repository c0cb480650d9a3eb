// Package store provides relational persistence for the catalog entities
// (categories and products) on PostgreSQL via gorm.
package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     string `envconfig:"PORT" default:"5432"`
	User     string `envconfig:"USER" default:"shop"`
	Password string `envconfig:"PASSWORD" default:"shop"`
	Name     string `envconfig:"NAME" default:"shop"`
	SSLMode  string `envconfig:"SSLMODE" default:"disable"`
}

// DSN returns the connection string for the postgres driver.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Store is the catalog's authoritative persistence layer. A single instance
// wraps the process-wide connection pool and is dependency-injected into the
// services that need it.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL and verifies the connection with a ping.
func Open(cfg Config) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("pg open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("pg pool: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an existing gorm handle. Used by tests.
func NewWithDB(db *gorm.DB) *Store {
	if db == nil {
		panic("gorm handle cannot be nil")
	}
	return &Store{db: db}
}

// AutoMigrate creates or updates the catalog tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Category{}, &Product{})
}

// Ping verifies the database connection (for readiness checks).
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
