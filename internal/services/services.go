// Package services runs the regeneration workflows: translate, then
// synthesize, then persist, one entity at a time.
package services

import (
	"context"
	"errors"

	"rail_announcer/internal/models"
)

var (
	// ErrNoTranslations is returned when audio is requested for a route
	// that has not been translated yet.
	ErrNoTranslations = errors.New("route has no translations")
	// ErrInvalidTemplates is returned for a template document or category
	// name that fails validation.
	ErrInvalidTemplates = errors.New("invalid templates")
)

// RouteTranslator renders route fields and templates in every language.
type RouteTranslator interface {
	TranslateRoute(ctx context.Context, route models.Route, languages []models.Language) ([]models.Translation, error)
	TranslateTemplate(ctx context.Context, category, template string, languages []models.Language) ([]models.AnnouncementTemplate, error)
}

// Synthesizer returns a WAV clip for text, or nil when there is none.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) []byte
}

// Pacer spaces out synthesis requests.
type Pacer interface {
	Wait(ctx context.Context) error
}
