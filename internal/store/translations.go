package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rail_announcer/internal/models"
)

// ReplaceTranslations swaps every translation row of one route for records.
// Other routes are untouched.
func (s *Store) ReplaceTranslations(ctx context.Context, routeID uint, records []models.Translation) error {
	unlock := s.locks.lock(routeKey(routeID))
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := routeExists(tx, routeID); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("route_id = ?", routeID).Delete(&models.Translation{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete translations: %w", err)
	}

	rows := make([]models.Translation, len(records))
	for i, r := range records {
		r.ID = 0
		r.RouteID = routeID
		rows[i] = r
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("insert translations: %w", translateError(err))
		}
	}
	if err := commit(tx); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"route_id":  routeID,
		"languages": len(rows),
	}).Info("Translations replaced")
	return nil
}

// TranslationsFor returns the translations of a route ordered by language.
func (s *Store) TranslationsFor(ctx context.Context, routeID uint) ([]models.Translation, error) {
	var rows []models.Translation
	err := s.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("language_code").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	return rows, nil
}

// ListTranslations returns every route that has translations, with them
// preloaded.
func (s *Store) ListTranslations(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&models.Translation{}).Select("route_id")).
		Preload("Translations", func(db *gorm.DB) *gorm.DB { return db.Order("language_code") }).
		Order("id").
		Find(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return routes, nil
}

// DeleteAllTranslations removes every translation row.
func (s *Store) DeleteAllTranslations(ctx context.Context) error {
	unlock := s.locks.lockAll()
	defer unlock()

	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Translation{}).Error; err != nil {
		return fmt.Errorf("delete translations: %w", err)
	}
	s.logger.Info("All translations deleted")
	return nil
}
