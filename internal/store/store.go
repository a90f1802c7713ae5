// Package store is the only write path for announcement rows and audio
// files. Every replace runs delete-then-insert in one transaction, scoped
// to the entity being regenerated.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Store persists routes, translations, audio references and templates.
type Store struct {
	db     *gorm.DB
	files  *Files
	locks  *keyedLocks
	logger *logrus.Logger
}

// New wraps an open, migrated database.
func New(db *gorm.DB, files *Files, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{db: db, files: files, locks: newKeyedLocks(), logger: logger}
}

// Files returns the clip layout used by the store.
func (s *Store) Files() *Files { return s.files }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func routeKey(id uint) string { return fmt.Sprintf("route:%d", id) }

func templateKey(category string) string { return "template:" + category }

// begin starts a transaction bound to ctx.
func (s *Store) begin(ctx context.Context) (*gorm.DB, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	return tx, nil
}

func commit(tx *gorm.DB) error {
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", translateError(err))
	}
	return nil
}

// routeExists reports ErrNotFound for a missing route.
func routeExists(db *gorm.DB, id uint) error {
	var n int64
	if err := db.Table("train_routes").Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check route %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
