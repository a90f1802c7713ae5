package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rail_announcer/internal/models"
)

// CreateRoute inserts one route and sets its ID.
func (s *Store) CreateRoute(ctx context.Context, route *models.Route) error {
	route.ID = 0
	route.Translations = nil
	route.AudioAssets = nil
	if err := s.db.WithContext(ctx).Create(route).Error; err != nil {
		return fmt.Errorf("create route: %w", translateError(err))
	}
	return nil
}

// ReplaceRoutes swaps the whole route table for routes. Translations,
// audio rows and route clips of the old set are removed with it.
func (s *Store) ReplaceRoutes(ctx context.Context, routes []models.Route) ([]models.Route, error) {
	unlock := s.locks.lockAll()
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := deleteAllRoutes(tx); err != nil {
		tx.Rollback()
		return nil, err
	}

	out := make([]models.Route, len(routes))
	for i, r := range routes {
		r.ID = 0
		r.Translations = nil
		r.AudioAssets = nil
		out[i] = r
	}
	if len(out) > 0 {
		if err := tx.Create(&out).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert routes: %w", translateError(err))
		}
	}

	if err := s.files.RemoveAllRoutes(); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("remove route audio: %w", err)
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	s.logger.WithField("count", len(out)).Info("Routes replaced")
	return out, nil
}

// GetRoute loads a route by ID.
func (s *Store) GetRoute(ctx context.Context, id uint) (models.Route, error) {
	var route models.Route
	if err := s.db.WithContext(ctx).First(&route, id).Error; err != nil {
		return models.Route{}, translateError(err)
	}
	return route, nil
}

// ListRoutes returns every route, newest first.
func (s *Store) ListRoutes(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return routes, nil
}

// DeleteRoute removes a route, its translation and audio rows and its clip
// directory. Nothing is committed unless every step succeeds.
func (s *Store) DeleteRoute(ctx context.Context, id uint) error {
	unlock := s.locks.lock(routeKey(id))
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := routeExists(tx, id); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("route_id = ?", id).Delete(&models.Translation{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete translations: %w", err)
	}
	if err := tx.Where("route_id = ?", id).Delete(&models.AudioAsset{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete audio rows: %w", err)
	}
	if err := tx.Delete(&models.Route{}, id).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete route: %w", err)
	}
	if err := s.files.RemoveRoute(id); err != nil {
		tx.Rollback()
		return fmt.Errorf("remove route audio: %w", err)
	}
	if err := commit(tx); err != nil {
		return err
	}

	s.logger.WithField("route_id", id).Info("Route deleted")
	return nil
}

// DeleteAllRoutes empties the route table and everything hanging off it.
func (s *Store) DeleteAllRoutes(ctx context.Context) error {
	_, err := s.ReplaceRoutes(ctx, nil)
	return err
}

func deleteAllRoutes(tx *gorm.DB) error {
	for _, m := range []any{&models.Translation{}, &models.AudioAsset{}, &models.Route{}} {
		if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}
