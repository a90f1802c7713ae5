package store

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rail_announcer/internal/models"
)

// ReplaceAudio writes the clips of one route language and swaps its audio
// row. New clips are staged first and only replace the old files after the
// row is committed, so a failed replace leaves the previous row and its
// files intact. A clip that is nil or fails to stage leaves its field
// absent. When no field has audio, no row is stored and nil is returned.
func (s *Store) ReplaceAudio(ctx context.Context, routeID uint, lang string, clips map[models.Field][]byte) (*models.AudioAsset, error) {
	unlock := s.locks.lock(routeKey(routeID))
	defer unlock()

	if err := routeExists(s.db.WithContext(ctx), routeID); err != nil {
		return nil, err
	}

	asset := models.AudioAsset{RouteID: routeID, LanguageCode: lang}
	staged := make(map[models.Field]string, len(clips))
	defer func() {
		for _, tmp := range staged {
			s.files.Discard(tmp)
		}
	}()

	for _, f := range models.Fields {
		data := clips[f]
		if len(data) == 0 {
			continue
		}
		file, ref := s.files.RouteClip(routeID, f, lang)
		tmp, err := s.files.Stage(file, data)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"route_id": routeID,
				"language": lang,
				"field":    f,
			}).Warn("Audio clip not saved")
			continue
		}
		staged[f] = tmp
		asset.SetPath(f, &ref)
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := tx.Where("route_id = ? AND language_code = ?", routeID, lang).Delete(&models.AudioAsset{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("delete audio row: %w", err)
	}
	if !asset.Empty() {
		if err := tx.Create(&asset).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert audio row: %w", translateError(err))
		}
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	if err := s.swapRouteClips(routeID, lang, staged); err != nil {
		return nil, err
	}
	if asset.Empty() {
		return nil, nil
	}
	return &asset, nil
}

// swapRouteClips promotes staged clips over the committed paths and drops
// the files of fields that no longer have audio.
func (s *Store) swapRouteClips(routeID uint, lang string, staged map[models.Field]string) error {
	for _, f := range models.Fields {
		file, _ := s.files.RouteClip(routeID, f, lang)
		tmp, ok := staged[f]
		if !ok {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"route_id": routeID,
					"language": lang,
					"field":    f,
				}).Warn("Stale audio clip not removed")
			}
			continue
		}
		delete(staged, f)
		if err := s.files.Promote(tmp, file); err != nil {
			return fmt.Errorf("save audio %s %s: %w", lang, f, err)
		}
	}
	return nil
}

// AudioFor returns the audio rows of a route ordered by language.
func (s *Store) AudioFor(ctx context.Context, routeID uint) ([]models.AudioAsset, error) {
	var rows []models.AudioAsset
	err := s.db.WithContext(ctx).
		Where("route_id = ?", routeID).
		Order("language_code").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load audio: %w", err)
	}
	return rows, nil
}

// ListAudio returns every route that has audio, with its rows preloaded.
func (s *Store) ListAudio(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&models.AudioAsset{}).Select("route_id")).
		Preload("AudioAssets", func(db *gorm.DB) *gorm.DB { return db.Order("language_code") }).
		Order("id").
		Find(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("list audio: %w", err)
	}
	return routes, nil
}

// ClearAudioFor removes every audio row and clip of a route.
func (s *Store) ClearAudioFor(ctx context.Context, routeID uint) error {
	unlock := s.locks.lock(routeKey(routeID))
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := tx.Where("route_id = ?", routeID).Delete(&models.AudioAsset{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete audio rows: %w", err)
	}
	if err := s.files.RemoveRoute(routeID); err != nil {
		tx.Rollback()
		return fmt.Errorf("remove route audio: %w", err)
	}
	return commit(tx)
}

// ClearAllAudio removes every route audio row and clip.
func (s *Store) ClearAllAudio(ctx context.Context) error {
	unlock := s.locks.lockAll()
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := tx.Where("1 = 1").Delete(&models.AudioAsset{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("delete audio rows: %w", err)
	}
	if err := s.files.RemoveAllRoutes(); err != nil {
		tx.Rollback()
		return fmt.Errorf("remove route audio: %w", err)
	}
	if err := commit(tx); err != nil {
		return err
	}
	s.logger.Info("All route audio cleared")
	return nil
}
