package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rail_announcer/internal/models"
)

// ReplaceTemplate swaps every language row of a category for records.
// Part audio of the category is dropped, since its segments no longer
// match the new text.
func (s *Store) ReplaceTemplate(ctx context.Context, category string, records []models.AnnouncementTemplate) error {
	unlock := s.locks.lock(templateKey(category))
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := deleteTemplateRows(tx, category); err != nil {
		tx.Rollback()
		return err
	}
	if err := insertTemplates(tx, category, records); err != nil {
		tx.Rollback()
		return err
	}
	if err := s.files.RemoveTemplate(category); err != nil {
		tx.Rollback()
		return fmt.Errorf("remove template audio: %w", err)
	}
	if err := commit(tx); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"category":  category,
		"languages": len(records),
	}).Info("Template replaced")
	return nil
}

// ReplaceAllTemplates swaps the whole template set. records is keyed by category.
func (s *Store) ReplaceAllTemplates(ctx context.Context, records map[string][]models.AnnouncementTemplate) error {
	unlock := s.locks.lockAll()
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	for _, m := range []any{&models.TemplatePartAudio{}, &models.AnnouncementTemplate{}} {
		if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}

	categories := make([]string, 0, len(records))
	for c := range records {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		if err := insertTemplates(tx, c, records[c]); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := s.files.RemoveAllTemplates(); err != nil {
		tx.Rollback()
		return fmt.Errorf("remove template audio: %w", err)
	}
	if err := commit(tx); err != nil {
		return err
	}

	s.logger.WithField("categories", len(categories)).Info("Templates imported")
	return nil
}

func deleteTemplateRows(tx *gorm.DB, category string) error {
	if err := tx.Where("category = ?", category).Delete(&models.TemplatePartAudio{}).Error; err != nil {
		return fmt.Errorf("delete template audio rows: %w", err)
	}
	if err := tx.Where("category = ?", category).Delete(&models.AnnouncementTemplate{}).Error; err != nil {
		return fmt.Errorf("delete template rows: %w", err)
	}
	return nil
}

func insertTemplates(tx *gorm.DB, category string, records []models.AnnouncementTemplate) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.AnnouncementTemplate, len(records))
	for i, r := range records {
		r.ID = 0
		r.Category = category
		rows[i] = r
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert templates: %w", translateError(err))
	}
	return nil
}

// Template returns one category in one language.
func (s *Store) Template(ctx context.Context, category, lang string) (models.AnnouncementTemplate, error) {
	var t models.AnnouncementTemplate
	err := s.db.WithContext(ctx).
		Where("category = ? AND language_code = ?", category, lang).
		First(&t).Error
	if err != nil {
		return models.AnnouncementTemplate{}, translateError(err)
	}
	return t, nil
}

// TemplatesFor returns every language row of a category.
func (s *Store) TemplatesFor(ctx context.Context, category string) ([]models.AnnouncementTemplate, error) {
	var rows []models.AnnouncementTemplate
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("language_code").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return rows, nil
}

// ListTemplates returns every template row ordered by category and language.
func (s *Store) ListTemplates(ctx context.Context) ([]models.AnnouncementTemplate, error) {
	var rows []models.AnnouncementTemplate
	if err := s.db.WithContext(ctx).Order("category, language_code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return rows, nil
}

// DeleteTemplate removes a category with its part audio.
func (s *Store) DeleteTemplate(ctx context.Context, category string) error {
	unlock := s.locks.lock(templateKey(category))
	defer unlock()

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	var n int64
	if err := tx.Model(&models.AnnouncementTemplate{}).Where("category = ?", category).Count(&n).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("check template: %w", err)
	}
	if n == 0 {
		tx.Rollback()
		return ErrNotFound
	}
	if err := deleteTemplateRows(tx, category); err != nil {
		tx.Rollback()
		return err
	}
	if err := s.files.RemoveTemplate(category); err != nil {
		tx.Rollback()
		return fmt.Errorf("remove template audio: %w", err)
	}
	return commit(tx)
}

// ReplaceTemplatePartAudio writes the literal part clips of one template
// language and swaps its part rows. parts is keyed by literal index; nil
// or unwritable clips are skipped. Old clips are only replaced after the
// rows are committed.
func (s *Store) ReplaceTemplatePartAudio(ctx context.Context, category, lang string, parts map[int][]byte) ([]models.TemplatePartAudio, error) {
	unlock := s.locks.lock(templateKey(category))
	defer unlock()

	if _, err := s.Template(ctx, category, lang); err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(parts))
	for i := range parts {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	staged := make(map[string]string, len(parts)) // final file -> staged file
	defer func() {
		for _, tmp := range staged {
			s.files.Discard(tmp)
		}
	}()

	rows := make([]models.TemplatePartAudio, 0, len(parts))
	for _, i := range indexes {
		if len(parts[i]) == 0 {
			continue
		}
		file, ref := s.files.TemplateClip(category, i, lang)
		tmp, err := s.files.Stage(file, parts[i])
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"category": category,
				"language": lang,
				"part":     i,
			}).Warn("Template part clip not saved")
			continue
		}
		staged[file] = tmp
		rows = append(rows, models.TemplatePartAudio{
			Category:     category,
			LanguageCode: lang,
			PartIndex:    i,
			AudioPath:    ref,
		})
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	if err := tx.Where("category = ? AND language_code = ?", category, lang).Delete(&models.TemplatePartAudio{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("delete template audio rows: %w", err)
	}
	if len(rows) > 0 {
		if err := tx.Create(&rows).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("insert template audio rows: %w", translateError(err))
		}
	}
	if err := commit(tx); err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(staged))
	for file, tmp := range staged {
		delete(staged, file)
		if err := s.files.Promote(tmp, file); err != nil {
			return nil, fmt.Errorf("save template audio %s: %w", lang, err)
		}
		keep[file] = true
	}
	if err := s.files.PruneTemplateLanguage(category, lang, keep); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"category": category,
			"language": lang,
		}).Warn("Stale template clips not removed")
	}
	return rows, nil
}

// TemplatePartAudio returns the part clips of one template language by index.
func (s *Store) TemplatePartAudio(ctx context.Context, category, lang string) ([]models.TemplatePartAudio, error) {
	var rows []models.TemplatePartAudio
	err := s.db.WithContext(ctx).
		Where("category = ? AND language_code = ?", category, lang).
		Order("part_index").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load template audio: %w", err)
	}
	return rows, nil
}
