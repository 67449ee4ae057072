// Package store persists marketplace records in PostgreSQL through gorm.
// Every query is parameterized; errors leave this package already
// classified by db.Classify.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/db"
)

type Store struct {
	db *gorm.DB
}

func New(gdb *gorm.DB) *Store {
	return &Store{db: gdb}
}

// Ping checks that a pooled connection can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return db.Classify(err, "get sql db", "")
	}
	return db.Classify(sqlDB.PingContext(ctx), "ping", "")
}
